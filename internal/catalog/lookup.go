package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// FindProduct scans products for id.
func FindProduct(products []Product, id ID) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FindCategory scans categories for id.
func FindCategory(categories []Category, id ID) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// FindManufacturer scans manufacturers for id.
func FindManufacturer(manufacturers []Manufacturer, id ID) (Manufacturer, bool) {
	for _, m := range manufacturers {
		if m.ID == id {
			return m, true
		}
	}
	return Manufacturer{}, false
}

// FindStockRecord scans records for id.
func FindStockRecord(records []StockRecord, id ID) (StockRecord, bool) {
	for _, s := range records {
		if s.ID == id {
			return s, true
		}
	}
	return StockRecord{}, false
}

// ProductName resolves a product reference or returns the placeholder.
func ProductName(products []Product, id ID) string {
	if p, ok := FindProduct(products, id); ok {
		return p.Name
	}
	return Placeholder
}

// CategoryName resolves a category reference or returns the placeholder.
func CategoryName(categories []Category, id ID) string {
	if c, ok := FindCategory(categories, id); ok {
		return c.Name
	}
	return Placeholder
}

// ManufacturerName resolves a manufacturer reference or returns the placeholder.
func ManufacturerName(manufacturers []Manufacturer, id ID) string {
	if m, ok := FindManufacturer(manufacturers, id); ok {
		return m.Name
	}
	return Placeholder
}

// CountByCategory counts products referencing the category.
func CountByCategory(products []Product, categoryID ID) int {
	n := 0
	for _, p := range products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// CountByManufacturer counts products referencing the manufacturer.
func CountByManufacturer(products []Product, manufacturerID ID) int {
	n := 0
	for _, p := range products {
		if p.ManufacturerID == manufacturerID {
			n++
		}
	}
	return n
}

// ProductFilter narrows the product list. A zero CategoryID matches every category.
type ProductFilter struct {
	Name       string
	CategoryID ID
}

// Active reports whether the filter narrows anything.
func (f ProductFilter) Active() bool {
	return strings.TrimSpace(f.Name) != "" || f.CategoryID != 0
}

// Apply returns the products whose name contains Name, ignoring case, and
// that belong to CategoryID when one is set.
func (f ProductFilter) Apply(products []Product) []Product {
	fold := cases.Fold()
	needle := fold.String(f.Name)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
			continue
		}
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}
