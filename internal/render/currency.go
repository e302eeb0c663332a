package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats v as Brazilian reais, e.g. "R$ 5.000,00".
func FormatCurrency(v decimal.Decimal) string {
	rounded := v.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
