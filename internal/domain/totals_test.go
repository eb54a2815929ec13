package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateTotalsWithTax(t *testing.T) {
	items := []LineItem{
		{Name: "Beratung", Amount: dec("2"), Price: dec("100")},
		{Name: "Support", Amount: dec("1"), Price: dec("50")},
	}

	totals, err := CalculateTotals(items, dec("19"))
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}

	if !totals.Subtotal.Equal(dec("250")) {
		t.Errorf("subtotal: expected 250, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(dec("47.50")) {
		t.Errorf("tax: expected 47.50, got %s", totals.Tax)
	}
	if !totals.Total.Equal(dec("297.50")) {
		t.Errorf("total: expected 297.50, got %s", totals.Total)
	}
}

func TestCalculateTotalsTaxExempt(t *testing.T) {
	items := []LineItem{
		{Name: "Beratung", Amount: dec("3"), Price: dec("33.33")},
	}

	totals, err := CalculateTotals(items, decimal.Zero)
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}

	if !totals.Tax.IsZero() {
		t.Errorf("tax: expected exactly 0, got %s", totals.Tax)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Errorf("total %s must equal subtotal %s when tax-exempt", totals.Total, totals.Subtotal)
	}
}

func TestCalculateTotalsRoundsTax(t *testing.T) {
	// 0.105 * 19% = 0.01995 -> 0.02
	items := []LineItem{{Amount: dec("1"), Price: dec("0.105")}}

	totals, err := CalculateTotals(items, dec("19"))
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}
	if !totals.Tax.Equal(dec("0.02")) {
		t.Errorf("tax: expected 0.02, got %s", totals.Tax)
	}
}

func TestCalculateTotalsNoDriftOverManyItems(t *testing.T) {
	// 100 x 0.1 must be exactly 10, not 9.99999…
	items := make([]LineItem, 100)
	for i := range items {
		items[i] = LineItem{Amount: dec("1"), Price: dec("0.1")}
	}

	totals, err := CalculateTotals(items, decimal.Zero)
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}
	if !totals.Subtotal.Equal(dec("10")) {
		t.Errorf("subtotal: expected exactly 10, got %s", totals.Subtotal)
	}
}

func TestCalculateTotalsEmptyItems(t *testing.T) {
	totals, err := CalculateTotals(nil, dec("19"))
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}
	if !totals.Total.IsZero() {
		t.Errorf("expected zero total for empty items, got %s", totals.Total)
	}
}
