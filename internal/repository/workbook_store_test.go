package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mkessler/faktura/internal/domain"
)

func newTestLedger(t *testing.T) *WorkbookStore {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "Rechnungen.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "AB"); err != nil {
		t.Fatalf("failed to name sheet: %v", err)
	}
	header := []interface{}{"Rechnungsnummer", "Datum", "Betrag", "Kunde"}
	if err := f.SetSheetRow("AB", "A1", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save ledger: %v", err)
	}
	f.Close()

	return NewWorkbookStore(path, filepath.Join(dir, "options"))
}

func testRecord(number string, typ domain.InvoiceType) domain.Record {
	total, _ := decimal.NewFromString("297.50")
	return domain.Record{
		Number:        number,
		Date:          "01.03.2024",
		Total:         total,
		SenderID:      "AB",
		SenderName:    "Anna Beispiel",
		RecipientID:   "K01",
		RecipientName: "Kunde GmbH",
		Options: domain.Options{
			Invoice: domain.Details{Number: number, Type: typ},
			Sender:  domain.Party{ID: "AB", Name: "Anna Beispiel"},
		},
	}
}

func TestWorkbookRecordAndFindLast(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	if err := store.Record(ctx, testRecord("AB-RE-0001", domain.TypeRegular)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, testRecord("AB-RE-0002", domain.TypeRegular)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.FindLastNumber(ctx, "AB", domain.TypeRegular)
	if err != nil {
		t.Fatalf("FindLastNumber failed: %v", err)
	}
	if got != "AB-RE-0002" {
		t.Errorf("expected AB-RE-0002, got %s", got)
	}
}

func TestWorkbookFindLastNoHistory(t *testing.T) {
	store := newTestLedger(t)

	got, err := store.FindLastNumber(context.Background(), "AB", domain.TypeRegular)
	if err != nil {
		t.Fatalf("FindLastNumber failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty number for empty sheet, got %q", got)
	}
}

func TestWorkbookFindLastTypeIndependence(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	if err := store.Record(ctx, testRecord("AB-RE-0005", domain.TypeRegular)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.FindLastNumber(ctx, "AB", domain.TypeCancellation)
	if err != nil {
		t.Fatalf("FindLastNumber failed: %v", err)
	}
	if got != "" {
		t.Errorf("ST lookup must not see RE rows, got %q", got)
	}
}

func TestWorkbookMissingSenderSheet(t *testing.T) {
	store := newTestLedger(t)

	_, err := store.FindLastNumber(context.Background(), "ZZ", domain.TypeRegular)
	if !errors.Is(err, domain.ErrMissingHistorySheet) {
		t.Errorf("expected ErrMissingHistorySheet, got %v", err)
	}

	err = store.Record(context.Background(), func() domain.Record {
		r := testRecord("ZZ-RE-0001", domain.TypeRegular)
		r.SenderID = "ZZ"
		return r
	}())
	if !errors.Is(err, domain.ErrMissingHistorySheet) {
		t.Errorf("expected ErrMissingHistorySheet on record, got %v", err)
	}
}

func TestWorkbookOptionsRoundTrip(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	if err := store.Record(ctx, testRecord("AB-RE-0001", domain.TypeRegular)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	opts, err := store.Options(ctx, "AB-RE-0001")
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.Invoice.Number != "AB-RE-0001" || opts.Sender.ID != "AB" {
		t.Errorf("unexpected options payload: %+v", opts)
	}
}

func TestWorkbookOptionsNotFound(t *testing.T) {
	store := newTestLedger(t)

	_, err := store.Options(context.Background(), "AB-RE-9999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkbookDelete(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	if err := store.Record(ctx, testRecord("AB-RE-0001", domain.TypeRegular)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Delete(ctx, "AB-RE-0001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Options(ctx, "AB-RE-0001"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected options gone after delete, got %v", err)
	}
	got, err := store.FindLastNumber(ctx, "AB", domain.TypeRegular)
	if err != nil {
		t.Fatalf("FindLastNumber failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected ledger row gone after delete, got %q", got)
	}
}

func TestWorkbookDeleteUnknownNumber(t *testing.T) {
	store := newTestLedger(t)

	err := store.Delete(context.Background(), "AB-RE-0042")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
