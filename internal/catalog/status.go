package catalog

import "github.com/shopspring/decimal"

// Status is the threshold state of a stock record.
type Status string

const (
	StatusCritical Status = "critical"
	StatusLow      Status = "low"
	StatusNormal   Status = "normal"
)

// Label returns the text shown in the stock table badge.
func (s Status) Label() string {
	switch s {
	case StatusCritical:
		return "Crítico"
	case StatusLow:
		return "Baixo"
	default:
		return "Normal"
	}
}

// Status derives the threshold state: critical at or below the minimum, low
// up to one and a half times the minimum, normal above that.
func (s StockRecord) Status() Status {
	switch {
	case s.Current <= s.Minimum:
		return StatusCritical
	case scaled(s.Current, 2).LessThanOrEqual(scaled(s.Minimum, 3)):
		return StatusLow
	default:
		return StatusNormal
	}
}

// Alerting reports whether the record counts towards the stock alerts.
func (s StockRecord) Alerting() bool {
	return s.Current <= s.Minimum
}

// Alerts returns the records at or below their minimum, in input order.
func Alerts(records []StockRecord) []StockRecord {
	var out []StockRecord
	for _, rec := range records {
		if rec.Alerting() {
			out = append(out, rec)
		}
	}
	return out
}

// scaled multiplies without the int64 wraparound of 2*q near its bounds.
func scaled(q Quantity, by int64) decimal.Decimal {
	return decimal.NewFromInt(int64(q)).Mul(decimal.NewFromInt(by))
}
