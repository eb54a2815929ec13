package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func validOptions() Options {
	return Options{
		Invoice: Details{
			Number:  "AB-RE-0001",
			TaxRate: dec("19"),
		},
		Sender: Party{
			ID:       "AB",
			Name:     "Anna Beispiel",
			Street:   "Musterweg 1",
			Zip:      "10115",
			City:     "Berlin",
			Email:    "anna@example.com",
			BankName: "Musterbank",
			IBAN:     "DE02120300000000202051",
			BIC:      "BYLADEM1001",
		},
		Recipient: Party{
			ID:      "K01",
			Company: "Kunde GmbH",
			Name:    "Max Kunde",
			Street:  "Kundenstr. 2",
			Zip:     "20095",
			City:    "Hamburg",
		},
		Items: []LineItem{
			{Name: "Beratung", Description: "Am 01.03.2024", Unit: "Stunde", Amount: dec("2"), Price: dec("100")},
			{Name: "Support", Description: "Am 15.03.2024", Unit: "Stunde", Amount: dec("1"), Price: dec("50")},
		},
	}
}

func TestNewInvoiceComputesTotalsOnce(t *testing.T) {
	inv, err := NewInvoice(validOptions())
	if err != nil {
		t.Fatalf("NewInvoice failed: %v", err)
	}

	if !inv.Subtotal.Equal(dec("250")) {
		t.Errorf("subtotal: expected 250, got %s", inv.Subtotal)
	}
	if !inv.Tax.Equal(dec("47.50")) {
		t.Errorf("tax: expected 47.50, got %s", inv.Tax)
	}
	if !inv.Total.Equal(dec("297.50")) {
		t.Errorf("total: expected 297.50, got %s", inv.Total)
	}
}

func TestNewInvoiceRequiresNumber(t *testing.T) {
	opts := validOptions()
	opts.Invoice.Number = ""

	_, err := NewInvoice(opts)
	if !errors.Is(err, ErrMissingInvoiceNumber) {
		t.Errorf("expected ErrMissingInvoiceNumber, got %v", err)
	}
}

func TestNewInvoiceFillsDefaults(t *testing.T) {
	opts := validOptions()
	inv, err := NewInvoice(opts)
	if err != nil {
		t.Fatalf("NewInvoice failed: %v", err)
	}

	got := inv.Options
	if got.Invoice.Name != "Rechnung" {
		t.Errorf("expected default title, got %q", got.Invoice.Name)
	}
	if got.Invoice.Date == "" || got.Invoice.Message == "" || got.Invoice.Terms == "" {
		t.Error("expected date, message, and terms defaults to be filled")
	}
	if got.Document.Size != "A4" || got.Document.MarginLeft != 50 {
		t.Errorf("expected A4 defaults, got %+v", got.Document)
	}
	if got.Document.TableWidths.Service != .5 {
		t.Errorf("expected default column fractions, got %+v", got.Document.TableWidths)
	}
}

func TestNewInvoiceKeepsExplicitFields(t *testing.T) {
	opts := validOptions()
	opts.Invoice.Name = "Stornorechnung für AB-RE-0001"
	opts.Invoice.Date = "24.12.2024"
	opts.Document.MarginLeft = 60

	inv, err := NewInvoice(opts)
	if err != nil {
		t.Fatalf("NewInvoice failed: %v", err)
	}
	if inv.Options.Invoice.Name != "Stornorechnung für AB-RE-0001" {
		t.Errorf("explicit title overwritten: %q", inv.Options.Invoice.Name)
	}
	if inv.Options.Invoice.Date != "24.12.2024" {
		t.Errorf("explicit date overwritten: %q", inv.Options.Invoice.Date)
	}
	if inv.Options.Document.MarginLeft != 60 {
		t.Errorf("explicit margin overwritten: %v", inv.Options.Document.MarginLeft)
	}
}

func TestNewInvoiceRejectsIncompleteSender(t *testing.T) {
	opts := validOptions()
	opts.Sender.IBAN = ""

	if _, err := NewInvoice(opts); err == nil {
		t.Error("expected error for sender without IBAN")
	}
}

func TestOptionsRoundTripJSON(t *testing.T) {
	opts := validOptions()
	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Options
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Invoice.Number != opts.Invoice.Number {
		t.Errorf("number mismatch: %q", got.Invoice.Number)
	}
	if !got.Items[0].Price.Equal(opts.Items[0].Price) {
		t.Errorf("price mismatch: %s", got.Items[0].Price)
	}
}

func TestOptionsRejectsJunkAmounts(t *testing.T) {
	raw := `{"invoice":{"number":"AB-RE-0001"},"items":[{"name":"x","amount":"zwei","price":10}]}`

	var got Options
	if err := json.Unmarshal([]byte(raw), &got); err == nil {
		t.Error("expected decode error for non-numeric amount")
	}
}

func TestDeliveryPeriod(t *testing.T) {
	items := []LineItem{
		{Date: "15.03.2024"},
		{Date: "01.03.2024"},
	}

	note, ok := Delivery(items)
	if !ok {
		t.Fatal("expected a delivery note")
	}
	if note.Label != "Lieferzeitraum:" {
		t.Errorf("expected period label, got %q", note.Label)
	}
	if note.Value != "01.03.-15.03.2024" {
		t.Errorf("expected 01.03.-15.03.2024, got %q", note.Value)
	}
}

func TestDeliveryPeriodAcrossMonths(t *testing.T) {
	// Chronological, not lexical: 28.12. comes before 05.01.
	items := []LineItem{
		{Date: "05.01.2025"},
		{Date: "28.12.2024"},
	}

	note, ok := Delivery(items)
	if !ok {
		t.Fatal("expected a delivery note")
	}
	if note.Value != "28.12.-05.01.2025" {
		t.Errorf("expected 28.12.-05.01.2025, got %q", note.Value)
	}
}

func TestDeliverySingleDate(t *testing.T) {
	note, ok := Delivery([]LineItem{{Date: "01.03.2024"}})
	if !ok {
		t.Fatal("expected a delivery note")
	}
	if note.Label != "Lieferdatum:" || note.Value != "01.03.2024" {
		t.Errorf("expected single delivery date, got %+v", note)
	}
}

func TestDeliveryUndatedItems(t *testing.T) {
	if _, ok := Delivery([]LineItem{{Name: "Provision"}, {Name: "Bonus"}}); ok {
		t.Error("expected no delivery note for undated items")
	}
}

func TestLineItemTotal(t *testing.T) {
	it := LineItem{Amount: dec("1.5"), Price: dec("80")}
	if !it.Total().Equal(dec("120")) {
		t.Errorf("expected 120, got %s", it.Total())
	}
}
