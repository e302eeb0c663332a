package render

import (
	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/store"
)

// Option is one entry of a select element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FormOptions feeds the selects of the entity forms.
type FormOptions struct {
	Categories    []Option
	Manufacturers []Option
	Products      []Option
}

// Options builds the select options from the snapshot.
func Options(s store.Snapshot) FormOptions {
	opts := FormOptions{
		Categories:    make([]Option, 0, len(s.Categories)),
		Manufacturers: make([]Option, 0, len(s.Manufacturers)),
		Products:      make([]Option, 0, len(s.Products)),
	}
	for _, c := range s.Categories {
		opts.Categories = append(opts.Categories, Option{Value: c.ID.String(), Label: c.Name})
	}
	for _, m := range s.Manufacturers {
		opts.Manufacturers = append(opts.Manufacturers, Option{Value: m.ID.String(), Label: m.Name})
	}
	for _, p := range s.Products {
		opts.Products = append(opts.Products, Option{Value: p.ID.String(), Label: p.Name})
	}
	return opts
}

// Select marks the option whose value matches id.
func Select(options []Option, id catalog.ID) []Option {
	out := make([]Option, len(options))
	want := id.String()
	for i, o := range options {
		o.Selected = id != 0 && o.Value == want
		out[i] = o
	}
	return out
}

// SpecCard is one spec sheet entry.
type SpecCard struct {
	ID    catalog.ID
	Label string
	Value string
}

// SpecSheetsView is the spec sheet section: product selector plus the
// selected product's entries.
type SpecSheetsView struct {
	Products    []Option
	ProductID   catalog.ID
	ProductName string
	Entries     []SpecCard
	Empty       string
}

// SpecSheets renders the selector and, when a product is selected, its entries.
func SpecSheets(s store.Snapshot, productID catalog.ID, entries []catalog.SpecSheetEntry) SpecSheetsView {
	view := SpecSheetsView{
		Products:  Select(Options(s).Products, productID),
		ProductID: productID,
	}
	if productID == 0 {
		view.Empty = "Selecione um produto"
		return view
	}
	view.ProductName = catalog.ProductName(s.Products, productID)
	if len(entries) == 0 {
		view.Empty = "Nenhuma ficha técnica"
		return view
	}
	view.Entries = make([]SpecCard, 0, len(entries))
	for _, e := range entries {
		view.Entries = append(view.Entries, SpecCard{ID: e.ID, Label: e.Label, Value: e.Value})
	}
	return view
}
