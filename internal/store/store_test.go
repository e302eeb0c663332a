package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/observability"
	"github.com/saep/inventory-console/internal/shared"
)

type fakeSource struct {
	mu            sync.Mutex
	products      []catalog.Product
	categories    []catalog.Category
	manufacturers []catalog.Manufacturer
	stock         []catalog.StockRecord
	specs         map[catalog.ID][]catalog.SpecSheetEntry
	failProducts  error
	failStock     error
	barrier       *sync.WaitGroup
	specCalls     atomic.Int32
	specGate      chan struct{}
	delay         time.Duration
}

// slow simulates a backend that honours ctx like the HTTP client does.
func (f *fakeSource) slow(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) wait() {
	if f.barrier == nil {
		return
	}
	f.barrier.Done()
	f.barrier.Wait()
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.wait()
	if err := f.slow(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.failProducts
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, nil
}

func (f *fakeSource) ListManufacturers(ctx context.Context) ([]catalog.Manufacturer, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manufacturers, nil
}

func (f *fakeSource) ListStock(ctx context.Context) ([]catalog.StockRecord, error) {
	f.wait()
	if err := f.slow(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock, f.failStock
}

func (f *fakeSource) SpecSheetsByProduct(ctx context.Context, productID catalog.ID) ([]catalog.SpecSheetEntry, error) {
	f.specCalls.Add(1)
	if f.specGate != nil {
		select {
		case <-f.specGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.specs[productID], nil
}

func TestReloadFetchesAllCollectionsConcurrently(t *testing.T) {
	barrier := &sync.WaitGroup{}
	barrier.Add(4)
	src := &fakeSource{
		products:   []catalog.Product{{ID: 1, Name: "Phone"}},
		categories: []catalog.Category{{ID: 1, Name: "Eletrônicos"}},
		stock:      []catalog.StockRecord{{ID: 1, ProductID: 1, Current: 2, Minimum: 5}},
		barrier:    barrier,
	}
	st := New(src, nil, observability.NewMetrics())

	done := make(chan Snapshot, 1)
	go func() { done <- st.Reload(context.Background()) }()

	select {
	case snap := <-done:
		assert.Len(t, snap.Products, 1)
		assert.Len(t, snap.Categories, 1)
		assert.NotNil(t, snap.Manufacturers)
		assert.Empty(t, snap.Manufacturers)
		assert.False(t, snap.Degraded())
		assert.False(t, snap.LoadedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("reload did not run the four list calls concurrently")
	}
	assert.Equal(t, st.Snapshot().Products, []catalog.Product{{ID: 1, Name: "Phone"}})
}

func TestReloadDegradesFailedCollectionsToEmpty(t *testing.T) {
	src := &fakeSource{
		products:     []catalog.Product{{ID: 1}},
		categories:   []catalog.Category{{ID: 1}},
		failProducts: errors.New("connection refused"),
		failStock:    errors.New("status 500"),
	}
	st := New(src, nil, nil)

	snap := st.Reload(context.Background())
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Stock)
	assert.Len(t, snap.Categories, 1)
	assert.Equal(t, []string{CollectionProducts, CollectionStock}, snap.Failed)
	assert.True(t, snap.Degraded())
}

func TestReloadReplacesSnapshotWholesale(t *testing.T) {
	src := &fakeSource{products: []catalog.Product{{ID: 1, Name: "Phone"}}}
	st := New(src, nil, nil)
	st.Reload(context.Background())

	src.mu.Lock()
	src.products = append(src.products, catalog.Product{ID: 2, Name: "Tablet"})
	src.mu.Unlock()

	before := len(st.Snapshot().Products)
	snap := st.Reload(context.Background())
	assert.Equal(t, before+1, len(snap.Products))
	_, ok := catalog.FindProduct(snap.Products, 2)
	assert.True(t, ok)
}

func TestReloadSurvivesCancelledRequest(t *testing.T) {
	src := &fakeSource{
		products: []catalog.Product{{ID: 1, Name: "Phone"}},
		stock:    []catalog.StockRecord{{ID: 1, ProductID: 1, Current: 2, Minimum: 5}},
	}
	st := New(src, nil, nil)
	st.Reload(context.Background())

	src.delay = 150 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	snap := st.Reload(ctx)

	assert.False(t, snap.Degraded())
	assert.Len(t, st.Snapshot().Products, 1)
	assert.Len(t, st.Snapshot().Stock, 1)
	assert.Empty(t, st.Snapshot().Failed)
}

func TestSpecSheetsJoinedCallerOutlivesCancelledLeader(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{
		specs:    map[catalog.ID][]catalog.SpecSheetEntry{1: {{ID: 5, ProductID: 1, Label: "RAM", Value: "8GB"}}},
		specGate: gate,
	}
	st := New(src, nil, nil)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		_, _ = st.SpecSheets(leaderCtx, 1)
	}()
	require.Eventually(t, func() bool { return src.specCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		entries []catalog.SpecSheetEntry
		err     error
	}
	joined := make(chan result, 1)
	go func() {
		entries, err := st.SpecSheets(context.Background(), 1)
		joined <- result{entries, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(gate)

	got := <-joined
	require.NoError(t, got.err)
	require.Len(t, got.entries, 1)
	assert.Equal(t, "RAM", got.entries[0].Label)
	<-leaderDone
}

func TestSpecSheetsShareInFlightCalls(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{
		specs:    map[catalog.ID][]catalog.SpecSheetEntry{1: {{ID: 5, ProductID: 1, Label: "RAM", Value: "8GB"}}},
		specGate: gate,
	}
	st := New(src, nil, nil)

	var wg sync.WaitGroup
	results := make([][]catalog.SpecSheetEntry, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries, err := st.SpecSheets(context.Background(), 1)
			assert.NoError(t, err)
			results[i] = entries
		}(i)
	}
	require.Eventually(t, func() bool { return src.specCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.LessOrEqual(t, src.specCalls.Load(), int32(2))
	for _, entries := range results {
		require.Len(t, entries, 1)
		assert.Equal(t, "RAM", entries[0].Label)
	}

	empty, err := st.SpecSheets(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	missing, err := st.SpecSheets(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, missing)
}

func TestBeginEditRequiresEntityInSnapshot(t *testing.T) {
	src := &fakeSource{
		products: []catalog.Product{{ID: 1}},
		stock:    []catalog.StockRecord{{ID: 3}},
	}
	st := New(src, nil, nil)
	st.Reload(context.Background())
	sess := &shared.Session{}

	require.NoError(t, st.BeginEdit(sess, KindProduct, 1))
	id, ok := sess.Editing().For(KindProduct)
	assert.True(t, ok)
	assert.Equal(t, catalog.ID(1), id)

	err := st.BeginEdit(sess, KindStock, 4)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	id, _ = sess.Editing().For(KindProduct)
	assert.Equal(t, catalog.ID(1), id, "a refused edit keeps the previous marker")

	require.NoError(t, st.BeginEdit(sess, KindSpecSheet, 12))
	st.EndEdit(sess)
	assert.False(t, sess.Editing().Active())
}
