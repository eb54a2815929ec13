package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the monetary summary of an invoice.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals sums the line items and derives tax and total. Tax is
// exactly zero when the rate is zero, and rounded to two decimals
// otherwise. Returns ErrInvalidAmount when a result is not representable
// as a finite number.
func CalculateTotals(items []LineItem, taxRate decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}

	tax := decimal.Zero
	if taxRate.IsPositive() {
		tax = subtotal.Mul(taxRate).Div(hundred).Round(2)
	}

	t := Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
	for _, v := range []decimal.Decimal{t.Subtotal, t.Tax, t.Total} {
		if f, _ := v.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			return Totals{}, ErrInvalidAmount
		}
	}
	return t, nil
}
