// Package store keeps the in-memory snapshot the console renders from.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/observability"
	"github.com/saep/inventory-console/internal/shared"
)

// Source lists the collections from the inventory API.
type Source interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListManufacturers(ctx context.Context) ([]catalog.Manufacturer, error)
	ListStock(ctx context.Context) ([]catalog.StockRecord, error)
	SpecSheetsByProduct(ctx context.Context, productID catalog.ID) ([]catalog.SpecSheetEntry, error)
}

// Store owns the snapshot. Reload is the only path that writes it.
type Store struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.RWMutex
	snapshot Snapshot

	// reloadMu serializes reloads so a reload started after a write never
	// publishes data fetched before it.
	reloadMu sync.Mutex
	specs    singleflight.Group
}

// New constructs an empty store.
func New(source Source, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{source: source, logger: logger, metrics: metrics}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Reload refetches the four collections concurrently and swaps the snapshot
// once all of them resolved. A failing collection is logged and replaced by
// an empty one; Reload itself never fails.
//
// The fetch ignores ctx cancellation since the snapshot is shared by every
// session; ctx only carries values.
func (s *Store) Reload(ctx context.Context) Snapshot {
	ctx = context.WithoutCancel(ctx)
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	var (
		next     Snapshot
		failedMu sync.Mutex
		failed   = map[string]bool{}
	)
	degrade := func(collection string, err error) {
		s.logger.Error("reload collection", slog.String("collection", collection), slog.Any("error", err))
		failedMu.Lock()
		failed[collection] = true
		failedMu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		rows, err := s.source.ListProducts(ctx)
		if err != nil {
			degrade(CollectionProducts, err)
			rows = nil
		}
		next.Products = nonNil(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.ListCategories(ctx)
		if err != nil {
			degrade(CollectionCategories, err)
			rows = nil
		}
		next.Categories = nonNil(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.ListManufacturers(ctx)
		if err != nil {
			degrade(CollectionManufacturers, err)
			rows = nil
		}
		next.Manufacturers = nonNil(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.ListStock(ctx)
		if err != nil {
			degrade(CollectionStock, err)
			rows = nil
		}
		next.Stock = nonNil(rows)
		return nil
	})
	_ = g.Wait()

	for _, name := range []string{CollectionProducts, CollectionCategories, CollectionManufacturers, CollectionStock} {
		if failed[name] {
			next.Failed = append(next.Failed, name)
		}
	}
	next.LoadedAt = time.Now()

	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	alerts := len(catalog.Alerts(next.Stock))
	s.metrics.ObserveReload(time.Since(start), next.Failed, alerts)
	s.logger.Info("snapshot reloaded",
		slog.Int("produtos", len(next.Products)),
		slog.Int("categorias", len(next.Categories)),
		slog.Int("fabricantes", len(next.Manufacturers)),
		slog.Int("estoques", len(next.Stock)),
		slog.Int("alertas", alerts),
		slog.Duration("elapsed", time.Since(start)))
	return next
}

// SpecSheets lists a product's spec sheet entries. Concurrent lookups of the
// same product share one API call.
func (s *Store) SpecSheets(ctx context.Context, productID catalog.ID) ([]catalog.SpecSheetEntry, error) {
	if productID == 0 {
		return []catalog.SpecSheetEntry{}, nil
	}
	// Joined callers wait on this call; it must outlive the first caller.
	detached := context.WithoutCancel(ctx)
	v, err, _ := s.specs.Do(productID.String(), func() (interface{}, error) {
		return s.source.SpecSheetsByProduct(detached, productID)
	})
	if err != nil {
		return nil, err
	}
	return nonNil(v.([]catalog.SpecSheetEntry)), nil
}

// BeginEdit puts the session's form for kind into update mode for id. The id
// must exist in the current snapshot, except for spec sheets which the caller
// verifies by fetching the entry.
func (s *Store) BeginEdit(sess *shared.Session, kind string, id catalog.ID) error {
	if id == 0 {
		return fmt.Errorf("store: edit %s: %w", kind, shared.ErrNotFound)
	}
	if kind != KindSpecSheet && !s.Snapshot().Contains(kind, id) {
		return fmt.Errorf("store: edit %s %d: %w", kind, id, shared.ErrNotFound)
	}
	sess.SetEditing(shared.EditingMarker{Type: kind, ID: id})
	return nil
}

// EndEdit puts the session's forms back into create mode.
func (s *Store) EndEdit(sess *shared.Session) {
	sess.ClearEditing()
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
