// Package render turns a store snapshot into the view models each console
// section is drawn from. Every function here is pure.
package render

import (
	"github.com/shopspring/decimal"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/store"
)

// DashboardView aggregates the dashboard cards and alert list.
type DashboardView struct {
	TotalProducts   int
	TotalValue      decimal.Decimal
	AlertCount      int
	TotalCategories int
	Alerts          []AlertRow
	Degraded        []string
}

// FormattedValue is TotalValue in reais.
func (d DashboardView) FormattedValue() string {
	return FormatCurrency(d.TotalValue)
}

// AlertRow is one stock record at or below its minimum.
type AlertRow struct {
	StockID     catalog.ID
	ProductName string
	Minimum     catalog.Quantity
	Current     catalog.Quantity
}

// Dashboard computes the dashboard. TotalValue uses each product's embedded
// stock count, not the StockRecord quantities.
func Dashboard(s store.Snapshot) DashboardView {
	total := decimal.Zero
	for _, p := range s.Products {
		total = total.Add(p.Value())
	}
	alerts := catalog.Alerts(s.Stock)
	rows := make([]AlertRow, 0, len(alerts))
	for _, rec := range alerts {
		rows = append(rows, AlertRow{
			StockID:     rec.ID,
			ProductName: catalog.ProductName(s.Products, rec.ProductID),
			Minimum:     rec.Minimum,
			Current:     rec.Current,
		})
	}
	return DashboardView{
		TotalProducts:   len(s.Products),
		TotalValue:      total,
		AlertCount:      len(alerts),
		TotalCategories: len(s.Categories),
		Alerts:          rows,
		Degraded:        s.Failed,
	}
}

// AlertCount is the value shown on the notification badge.
func AlertCount(s store.Snapshot) int {
	return len(catalog.Alerts(s.Stock))
}
