package pdf

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEUR renders a monetary value in German notation, e.g. "1.234,56 €".
func FormatEUR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteString(" €")
	return b.String()
}

// FormatQuantity renders a quantity with a decimal comma and without
// trailing zeros, e.g. "2,5".
func FormatQuantity(d decimal.Decimal) string {
	return strings.ReplaceAll(d.String(), ".", ",")
}

// FormatTaxRate renders a tax rate for the summary row label, e.g. "19%".
func FormatTaxRate(d decimal.Decimal) string {
	return strings.ReplaceAll(d.String(), ".", ",") + "%"
}
