package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRecordStatus(t *testing.T) {
	cases := []struct {
		current, minimum Quantity
		want             Status
	}{
		{2, 5, StatusCritical},
		{5, 5, StatusCritical},
		{6, 5, StatusLow},
		{7, 5, StatusLow},
		{8, 5, StatusNormal},
		{10, 5, StatusNormal},
		{0, 0, StatusCritical},
		{1, 0, StatusNormal},
		{4e18, 3e18, StatusLow},
		{4.5e18, 3e18, StatusLow},
		{4.5e18 + 1, 3e18, StatusNormal},
		{5e18, 3e18, StatusNormal},
		{math.MaxInt64, math.MaxInt64 - 1, StatusLow},
		{-2, -3, StatusNormal},
	}
	for _, tc := range cases {
		rec := StockRecord{Current: tc.current, Minimum: tc.minimum}
		assert.Equal(t, tc.want, rec.Status(), "current=%d minimum=%d", tc.current, tc.minimum)
	}
	assert.Equal(t, "Crítico", StatusCritical.Label())
	assert.Equal(t, "Baixo", StatusLow.Label())
	assert.Equal(t, "Normal", StatusNormal.Label())
}

func TestAlertsKeepsRecordsAtOrBelowMinimum(t *testing.T) {
	records := []StockRecord{
		{ID: 1, Current: 2, Minimum: 5},
		{ID: 2, Current: 6, Minimum: 5},
		{ID: 3, Current: 5, Minimum: 5},
	}
	alerts := Alerts(records)
	require.Len(t, alerts, 2)
	assert.Equal(t, ID(1), alerts[0].ID)
	assert.Equal(t, ID(3), alerts[1].ID)
	assert.Empty(t, Alerts(nil))
}

func TestProductFilterByNameAndCategory(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Phone", CategoryID: 1},
		{ID: 2, Name: "Headphones", CategoryID: 2},
		{ID: 3, Name: "Laptop", CategoryID: 1},
		{ID: 4, Name: "SMARTPHONE", CategoryID: 1},
	}

	got := ProductFilter{Name: "ph"}.Apply(products)
	ids := make([]ID, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []ID{1, 2, 4}, ids)

	got = ProductFilter{Name: "ph", CategoryID: 1}.Apply(products)
	require.Len(t, got, 2)
	assert.Equal(t, ID(1), got[0].ID)
	assert.Equal(t, ID(4), got[1].ID)

	assert.Len(t, ProductFilter{}.Apply(products), 4)
	assert.False(t, ProductFilter{}.Active())
	assert.True(t, ProductFilter{CategoryID: 2}.Active())
}

func TestLookupsFallBackToPlaceholder(t *testing.T) {
	products := []Product{{ID: 1, Name: "Phone", CategoryID: 9, ManufacturerID: 1}}
	categories := []Category{{ID: 1, Name: "Eletrônicos"}}
	manufacturers := []Manufacturer{{ID: 1, Name: "Acme", Country: "Brasil"}}

	assert.Equal(t, "Phone", ProductName(products, 1))
	assert.Equal(t, Placeholder, ProductName(products, 2))
	assert.Equal(t, Placeholder, CategoryName(categories, 9))
	assert.Equal(t, "Acme", ManufacturerName(manufacturers, 1))
	assert.Equal(t, 0, CountByCategory(products, 1))
	assert.Equal(t, 1, CountByManufacturer(products, 1))
}

func TestDecodeToleratesStringNumbersAndAliases(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","nome":"Phone","preco":"1000.50","estoque":"5","idcategoria":1,"idfabricante":null}`), &p))
	assert.Equal(t, ID(7), p.ID)
	assert.True(t, decimal.RequireFromString("1000.50").Equal(p.Price))
	assert.Equal(t, Quantity(5), p.Stock)
	assert.Equal(t, ID(1), p.CategoryID)
	assert.Equal(t, ID(0), p.ManufacturerID)
	assert.True(t, decimal.RequireFromString("5002.5").Equal(p.Value()))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"nome":"Áudio"}`), &c))
	assert.Equal(t, "Áudio", c.Name)
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"nomecategoria":"Eletrônicos"}`), &c))
	assert.Equal(t, "Eletrônicos", c.Name)

	var s StockRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"idProduto":4,"quantidadeAtual":2,"estoqueMinimo":5}`), &s))
	assert.Equal(t, ID(4), s.ProductID)
	assert.Equal(t, StatusCritical, s.Status())

	var bad Product
	assert.Error(t, json.Unmarshal([]byte(`{"id":"x"}`), &bad))
}

func TestQuantityDecodeRejectsFractionsAndOverflow(t *testing.T) {
	cases := []struct {
		raw     string
		want    Quantity
		wantErr bool
	}{
		{raw: `5`, want: 5},
		{raw: `"7.0"`, want: 7},
		{raw: `5e2`, want: 500},
		{raw: `null`, want: 0},
		{raw: `""`, want: 0},
		{raw: `-3`, want: -3},
		{raw: `5.9`, wantErr: true},
		{raw: `"0.5"`, wantErr: true},
		{raw: `1e20`, wantErr: true},
		{raw: `-1e20`, wantErr: true},
		{raw: `99999999999999999999`, wantErr: true},
		{raw: `"abc"`, wantErr: true},
	}
	for _, tc := range cases {
		var q Quantity
		err := json.Unmarshal([]byte(tc.raw), &q)
		if tc.wantErr {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, q, tc.raw)
	}

	var s StockRecord
	err := json.Unmarshal([]byte(`{"id":1,"idProduto":4,"quantidadeAtual":5.9,"estoqueMinimo":5}`), &s)
	assert.ErrorContains(t, err, "not a whole number")
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, ID(12), id)
	assert.Equal(t, "12", id.String())

	id, err = ParseID("")
	require.NoError(t, err)
	assert.Equal(t, ID(0), id)

	_, err = ParseID("abc")
	assert.Error(t, err)
}
