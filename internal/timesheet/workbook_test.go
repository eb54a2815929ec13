package timesheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T, monthRows [][]interface{}) *Workbook {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Zeiterfassung.xlsx")
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", profileSheet); err != nil {
		t.Fatalf("failed to create profile sheet: %v", err)
	}
	profile := map[string]interface{}{
		"A1": "ID", "B1": "AB",
		"A2": "Name", "B2": "Anna Beispiel",
		"A3": "Straße", "B3": "Musterweg 1",
		"A4": "PLZ", "B4": "10115",
		"A5": "Ort", "B5": "Berlin",
		"A6": "Email", "B6": "anna@example.com",
		"A7": "Steuernummer", "B7": "12/345/67890",
		"A8": "Steuersatz", "B8": "19",
		"A9": "Bank", "B9": "Musterbank",
		"A10": "IBAN", "B10": "DE02120300000000202051",
		"A11": "BIC", "B11": "BYLADEM1001",
	}
	for ref, v := range profile {
		if err := f.SetCellValue(profileSheet, ref, v); err != nil {
			t.Fatalf("failed to fill profile: %v", err)
		}
	}

	if _, err := f.NewSheet(servicesSheet); err != nil {
		t.Fatalf("failed to create services sheet: %v", err)
	}
	serviceRows := [][]interface{}{
		{"ID", "Leistung", " Netto "},
		{1, "Beratung", "85"},
		{2, "Buchhaltung", "62,50"},
		{nil, "", ""},
	}
	for i, row := range serviceRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(servicesSheet, cell, &r); err != nil {
			t.Fatalf("failed to fill services: %v", err)
		}
	}

	if _, err := f.NewSheet(customersSheet); err != nil {
		t.Fatalf("failed to create customers sheet: %v", err)
	}
	customerRows := [][]interface{}{
		{"ID", "Unternehmen", "Inhaber", "Straße", "PLZ", "Ort", "Email", "Kontaktperson"},
		{"K01", "Kunde GmbH", "Max Kunde", "Kundenstr. 2", "20095", "Hamburg", "max@kunde.de", "Frau Muster"},
		{"K02", "Beispiel AG", "Eva Beispiel", "Beispielallee 3", "80331", "München", "", ""},
	}
	for i, row := range customerRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(customersSheet, cell, &r); err != nil {
			t.Fatalf("failed to fill customers: %v", err)
		}
	}

	if monthRows != nil {
		if _, err := f.NewSheet("2024-03"); err != nil {
			t.Fatalf("failed to create month sheet: %v", err)
		}
		for i, row := range monthRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow("2024-03", cell, &r); err != nil {
				t.Fatalf("failed to fill month: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	f.Close()

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

var monthHeader = []interface{}{"Datum", "Startzeit", "Endzeit", "Pause", "Dauer", "Leistung", "Kunde"}

func TestProfile(t *testing.T) {
	w := writeTestWorkbook(t, nil)

	p, err := w.Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.Party.ID != "AB" || p.Party.Name != "Anna Beispiel" {
		t.Errorf("unexpected identity: %+v", p.Party)
	}
	if p.Party.IBAN != "DE02120300000000202051" || p.Party.BIC != "BYLADEM1001" {
		t.Errorf("unexpected bank details: %+v", p.Party)
	}
	if !p.TaxRate.Equal(decimal.NewFromInt(19)) {
		t.Errorf("expected tax rate 19, got %s", p.TaxRate)
	}
}

func TestServicesSkipsBlankRows(t *testing.T) {
	w := writeTestWorkbook(t, nil)

	services, err := w.Services()
	if err != nil {
		t.Fatalf("Services failed: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[1].Name != "Buchhaltung" || services[1].Price.String() != "62.5" {
		t.Errorf("unexpected service: %+v", services[1])
	}
}

func TestCustomers(t *testing.T) {
	w := writeTestWorkbook(t, nil)

	customers, err := w.Customers()
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].Company != "Kunde GmbH" || customers[0].City != "Hamburg" {
		t.Errorf("unexpected customer: %+v", customers[0])
	}
}

func TestMonthReadsValidRows(t *testing.T) {
	w := writeTestWorkbook(t, [][]interface{}{
		monthHeader,
		{"01.03.2024", "09:00", "11:00", "", "2", "Beratung", "Kunde GmbH"},
		{"", "", "", "", "", "", ""}, // blank row is skipped
		{"15.03.2024", "10:00", "11:30", "0,25", "1,25", "Buchhaltung", "Beispiel AG"},
	})

	services, _ := w.Services()
	customers, _ := w.Customers()

	entries, err := w.Month("2024-03", services, customers)
	if err != nil {
		t.Fatalf("Month failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "01.03.2024" || entries[0].Service.Name != "Beratung" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if entries[1].Duration.String() != "1.25" || entries[1].Customer.ID != "K02" {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
}

func TestMonthRejectsUnknownService(t *testing.T) {
	w := writeTestWorkbook(t, [][]interface{}{
		monthHeader,
		{"01.03.2024", "", "", "", "2", "Malen", "Kunde GmbH"},
	})

	services, _ := w.Services()
	customers, _ := w.Customers()

	_, err := w.Month("2024-03", services, customers)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if rowErr.Field != "Leistung" || rowErr.Row != 2 {
		t.Errorf("unexpected row error: %+v", rowErr)
	}
}

func TestMonthRejectsBadDuration(t *testing.T) {
	w := writeTestWorkbook(t, [][]interface{}{
		monthHeader,
		{"01.03.2024", "", "", "", "zwei", "Beratung", "Kunde GmbH"},
	})

	services, _ := w.Services()
	customers, _ := w.Customers()

	_, err := w.Month("2024-03", services, customers)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if rowErr.Field != "Dauer" {
		t.Errorf("unexpected row error field: %q", rowErr.Field)
	}
}

func TestMonthMissingWorksheet(t *testing.T) {
	w := writeTestWorkbook(t, nil)

	_, err := w.Month("2024-07", nil, nil)
	if !errors.Is(err, ErrNoWorksheet) {
		t.Errorf("expected ErrNoWorksheet, got %v", err)
	}
}

func TestParseDateSerial(t *testing.T) {
	// Excel serial 45352 is 2024-03-01
	got, err := parseDate("45352")
	if err != nil {
		t.Fatalf("parseDate failed: %v", err)
	}
	if got != "01.03.2024" {
		t.Errorf("expected 01.03.2024, got %s", got)
	}
}
