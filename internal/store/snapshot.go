package store

import (
	"time"

	"github.com/saep/inventory-console/internal/catalog"
)

// Entity kinds, shared by editing markers, routes and API resources.
const (
	KindProduct      = "produto"
	KindCategory     = "categoria"
	KindManufacturer = "fabricante"
	KindStock        = "estoque"
	KindSpecSheet    = "ficha-tecnica"
)

// Collection names as reported in Snapshot.Failed.
const (
	CollectionProducts      = "produtos"
	CollectionCategories    = "categorias"
	CollectionManufacturers = "fabricantes"
	CollectionStock         = "estoques"
)

// Snapshot is one consistent load of the four list collections. Values are
// replaced wholesale by Reload and never mutated afterwards.
type Snapshot struct {
	Products      []catalog.Product
	Categories    []catalog.Category
	Manufacturers []catalog.Manufacturer
	Stock         []catalog.StockRecord
	LoadedAt      time.Time
	// Failed lists the collections that degraded to empty in this load.
	Failed []string
}

// Degraded reports whether any collection failed to load.
func (s Snapshot) Degraded() bool {
	return len(s.Failed) > 0
}

// Contains reports whether an entity of kind with id was part of the load.
// Spec sheet entries are fetched per product and never held here.
func (s Snapshot) Contains(kind string, id catalog.ID) bool {
	switch kind {
	case KindProduct:
		_, ok := catalog.FindProduct(s.Products, id)
		return ok
	case KindCategory:
		_, ok := catalog.FindCategory(s.Categories, id)
		return ok
	case KindManufacturer:
		_, ok := catalog.FindManufacturer(s.Manufacturers, id)
		return ok
	case KindStock:
		_, ok := catalog.FindStockRecord(s.Stock, id)
		return ok
	default:
		return false
	}
}
