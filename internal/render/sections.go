package render

import (
	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/store"
)

// ProductCard is one product in the products grid.
type ProductCard struct {
	ID               catalog.ID
	Name             string
	CategoryName     string
	ManufacturerName string
	Price            string
	Stock            catalog.Quantity
}

// ProductsView is the products section, optionally filtered.
type ProductsView struct {
	Cards  []ProductCard
	Filter catalog.ProductFilter
	Empty  string
}

// Products renders the product grid. With an active filter only matching
// products are kept and the empty message changes accordingly.
func Products(s store.Snapshot, filter catalog.ProductFilter) ProductsView {
	view := ProductsView{Filter: filter}
	if len(s.Products) == 0 {
		view.Empty = "Nenhum produto cadastrado"
		return view
	}
	products := s.Products
	if filter.Active() {
		products = filter.Apply(products)
	}
	if len(products) == 0 {
		view.Empty = "Nenhum produto encontrado"
		return view
	}
	view.Cards = make([]ProductCard, 0, len(products))
	for _, p := range products {
		view.Cards = append(view.Cards, ProductCard{
			ID:               p.ID,
			Name:             p.Name,
			CategoryName:     catalog.CategoryName(s.Categories, p.CategoryID),
			ManufacturerName: catalog.ManufacturerName(s.Manufacturers, p.ManufacturerID),
			Price:            FormatCurrency(p.Price),
			Stock:            p.Stock,
		})
	}
	return view
}

// StockRow is one line of the stock table.
type StockRow struct {
	ID          catalog.ID
	ProductName string
	Current     catalog.Quantity
	Minimum     catalog.Quantity
	Status      catalog.Status
	StatusLabel string
}

// StockView is the stock table.
type StockView struct {
	Rows  []StockRow
	Empty string
}

// Stock renders one row per stock record with its threshold status.
func Stock(s store.Snapshot) StockView {
	if len(s.Stock) == 0 {
		return StockView{Empty: "Nenhum estoque cadastrado"}
	}
	rows := make([]StockRow, 0, len(s.Stock))
	for _, rec := range s.Stock {
		status := rec.Status()
		rows = append(rows, StockRow{
			ID:          rec.ID,
			ProductName: catalog.ProductName(s.Products, rec.ProductID),
			Current:     rec.Current,
			Minimum:     rec.Minimum,
			Status:      status,
			StatusLabel: status.Label(),
		})
	}
	return StockView{Rows: rows}
}

// CategoryCard shows a category with its live product count.
type CategoryCard struct {
	ID           catalog.ID
	Name         string
	ProductCount int
}

// CategoriesView is the categories section.
type CategoriesView struct {
	Cards []CategoryCard
	Empty string
}

// Categories renders one card per category.
func Categories(s store.Snapshot) CategoriesView {
	if len(s.Categories) == 0 {
		return CategoriesView{Empty: "Nenhuma categoria cadastrada"}
	}
	cards := make([]CategoryCard, 0, len(s.Categories))
	for _, c := range s.Categories {
		cards = append(cards, CategoryCard{
			ID:           c.ID,
			Name:         c.Name,
			ProductCount: catalog.CountByCategory(s.Products, c.ID),
		})
	}
	return CategoriesView{Cards: cards}
}

// ManufacturerCard shows a manufacturer with its live product count.
type ManufacturerCard struct {
	ID           catalog.ID
	Name         string
	Country      string
	ProductCount int
}

// ManufacturersView is the manufacturers section.
type ManufacturersView struct {
	Cards []ManufacturerCard
	Empty string
}

// Manufacturers renders one card per manufacturer.
func Manufacturers(s store.Snapshot) ManufacturersView {
	if len(s.Manufacturers) == 0 {
		return ManufacturersView{Empty: "Nenhum fabricante cadastrado"}
	}
	cards := make([]ManufacturerCard, 0, len(s.Manufacturers))
	for _, m := range s.Manufacturers {
		cards = append(cards, ManufacturerCard{
			ID:           m.ID,
			Name:         m.Name,
			Country:      m.Country,
			ProductCount: catalog.CountByManufacturer(s.Products, m.ID),
		})
	}
	return ManufacturersView{Cards: cards}
}
