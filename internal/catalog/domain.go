// Package catalog holds the inventory entities served by the SAEP API and
// the pure lookups the console renders from.
package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered wherever a cross reference cannot be resolved.
const Placeholder = "N/A"

// Product is a sellable item. Stock is the product's own embedded count and
// is independent from the StockRecord collection.
type Product struct {
	ID             ID              `json:"id"`
	Name           string          `json:"nome"`
	Price          decimal.Decimal `json:"preco"`
	Stock          Quantity        `json:"estoque"`
	CategoryID     ID              `json:"idcategoria"`
	ManufacturerID ID              `json:"idfabricante"`
}

// Value returns price × embedded stock.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Category groups products.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"nomecategoria"`
}

// UnmarshalJSON accepts both "nomecategoria" and the shorter "nome" key.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            ID     `json:"id"`
		NomeCategoria string `json:"nomecategoria"`
		Nome          string `json:"nome"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Name = raw.Nome
	if c.Name == "" {
		c.Name = raw.NomeCategoria
	}
	return nil
}

// Manufacturer produces products.
type Manufacturer struct {
	ID      ID     `json:"id"`
	Name    string `json:"nomefabricante"`
	Country string `json:"paisorigem"`
}

// StockRecord tracks the quantity of one product against its minimum.
type StockRecord struct {
	ID        ID       `json:"id"`
	ProductID ID       `json:"produtoId"`
	Current   Quantity `json:"quantidadeAtual"`
	Minimum   Quantity `json:"estoqueMinimo"`
}

// UnmarshalJSON accepts the product reference as "produtoId" or "idProduto".
func (s *StockRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        ID       `json:"id"`
		ProdutoID ID       `json:"produtoId"`
		IDProduto ID       `json:"idProduto"`
		Current   Quantity `json:"quantidadeAtual"`
		Minimum   Quantity `json:"estoqueMinimo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.ProductID = raw.ProdutoID
	if s.ProductID == 0 {
		s.ProductID = raw.IDProduto
	}
	s.Current = raw.Current
	s.Minimum = raw.Minimum
	return nil
}

// SpecSheetEntry is one labelled technical specification of a product.
type SpecSheetEntry struct {
	ID        ID     `json:"id"`
	ProductID ID     `json:"produtoId"`
	Label     string `json:"especificacao"`
	Value     string `json:"valor"`
}
