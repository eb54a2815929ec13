// Package timesheet reads a contractor's time-tracking workbook: the
// personal data sheet, the service catalog, the customer list, and one
// worksheet of tracked time per month.
package timesheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mkessler/faktura/internal/domain"
)

const (
	profileSheet   = "Persönliche Daten"
	servicesSheet  = "Leistungen"
	customersSheet = "Kunden"
)

// ErrNoWorksheet is returned when the requested month has no sheet.
var ErrNoWorksheet = errors.New("worksheet not found")

// Profile is the contractor's personal data, used as the invoice sender.
type Profile struct {
	Party   domain.Party
	TaxRate decimal.Decimal
}

// Service is one entry of the contractor's service catalog.
type Service struct {
	ID    int
	Name  string
	Price decimal.Decimal
}

// Entry is one validated time-tracking row.
type Entry struct {
	Row      int
	Date     string // German format, see domain.DateLayout
	Duration decimal.Decimal
	Service  Service
	Customer domain.Party
}

// RowError describes an invalid cell in a time-tracking row. Generation
// for the whole month is aborted on the first one, so the contractor
// can fix the sheet and retry.
type RowError struct {
	Sheet string
	Row   int
	Field string
	Value string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d: invalid %s %q", e.Sheet, e.Row, e.Field, e.Value)
}

// Workbook is an open time-tracking file.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens the time-tracking workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Profile reads the personal data sheet (fixed cells B1..B11).
func (w *Workbook) Profile() (Profile, error) {
	cell := func(ref string) string {
		v, _ := w.f.GetCellValue(profileSheet, ref)
		return strings.TrimSpace(v)
	}

	p := Profile{
		Party: domain.Party{
			ID:       cell("B1"),
			Name:     cell("B2"),
			Street:   cell("B3"),
			Zip:      cell("B4"),
			City:     cell("B5"),
			Email:    cell("B6"),
			TaxID:    cell("B7"),
			BankName: cell("B9"),
			IBAN:     cell("B10"),
			BIC:      cell("B11"),
		},
	}
	if p.Party.ID == "" || p.Party.Name == "" {
		return Profile{}, fmt.Errorf("incomplete personal data in %s", w.path)
	}

	rate, err := decimal.NewFromString(normalizeNumber(cell("B8")))
	if err != nil {
		return Profile{}, fmt.Errorf("invalid tax rate %q in %s: %w", cell("B8"), w.path, err)
	}
	p.TaxRate = rate

	return p, nil
}

// Services reads the service catalog. Rows without an ID are skipped.
func (w *Workbook) Services() ([]Service, error) {
	rows, err := w.f.GetRows(servicesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read service catalog: %w", err)
	}

	head, body := splitHeader(rows)
	idCol := columnIndex(head, "ID")
	nameCol := columnIndex(head, "Leistung")
	priceCol := columnIndex(head, "Netto")
	if idCol < 0 || nameCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("service catalog is missing expected columns")
	}

	var services []Service
	for i, row := range body {
		idRaw := cellAt(row, idCol)
		if idRaw == "" {
			continue
		}
		id, err := strconv.Atoi(idRaw)
		if err != nil {
			return nil, &RowError{Sheet: servicesSheet, Row: i + 2, Field: "ID", Value: idRaw}
		}
		price, err := decimal.NewFromString(normalizeNumber(cellAt(row, priceCol)))
		if err != nil {
			return nil, &RowError{Sheet: servicesSheet, Row: i + 2, Field: "Netto", Value: cellAt(row, priceCol)}
		}
		services = append(services, Service{
			ID:    id,
			Name:  cellAt(row, nameCol),
			Price: price,
		})
	}
	return services, nil
}

// Customers reads the customer list. Rows without an ID are skipped.
func (w *Workbook) Customers() ([]domain.Party, error) {
	rows, err := w.f.GetRows(customersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer list: %w", err)
	}

	head, body := splitHeader(rows)
	idCol := columnIndex(head, "ID")
	if idCol < 0 {
		return nil, fmt.Errorf("customer list is missing an ID column")
	}
	companyCol := columnIndex(head, "Unternehmen")
	nameCol := columnIndex(head, "Inhaber")
	streetCol := columnIndex(head, "Straße")
	zipCol := columnIndex(head, "PLZ")
	cityCol := columnIndex(head, "Ort")
	emailCol := columnIndex(head, "Email")
	contactCol := columnIndex(head, "Kontaktperson")

	var customers []domain.Party
	for _, row := range body {
		if cellAt(row, idCol) == "" {
			continue
		}
		customers = append(customers, domain.Party{
			ID:            cellAt(row, idCol),
			Company:       cellAt(row, companyCol),
			Name:          cellAt(row, nameCol),
			Street:        cellAt(row, streetCol),
			Zip:           cellAt(row, zipCol),
			City:          cellAt(row, cityCol),
			Email:         cellAt(row, emailCol),
			ContactPerson: cellAt(row, contactCol),
		})
	}
	return customers, nil
}

// Month reads and validates the tracked time of one worksheet, e.g.
// "2024-05". Rows missing any of date, duration, service, or customer
// are skipped; rows with invalid values abort the read.
func (w *Workbook) Month(worksheet string, services []Service, customers []domain.Party) ([]Entry, error) {
	idx, err := w.f.GetSheetIndex(worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to access worksheet: %w", err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWorksheet, worksheet)
	}

	rows, err := w.f.GetRows(worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", worksheet, err)
	}

	head, body := splitHeader(rows)
	dateCol := columnIndex(head, "Datum")
	durationCol := columnIndex(head, "Dauer")
	serviceCol := columnIndex(head, "Leistung")
	customerCol := columnIndex(head, "Kunde")
	if dateCol < 0 || durationCol < 0 || serviceCol < 0 || customerCol < 0 {
		return nil, fmt.Errorf("worksheet %s is missing expected columns", worksheet)
	}

	var entries []Entry
	for i, row := range body {
		rowNum := i + 2
		dateRaw := cellAt(row, dateCol)
		durationRaw := cellAt(row, durationCol)
		serviceRaw := cellAt(row, serviceCol)
		customerRaw := cellAt(row, customerCol)
		if dateRaw == "" || durationRaw == "" || serviceRaw == "" || customerRaw == "" {
			continue
		}

		date, err := parseDate(dateRaw)
		if err != nil {
			return nil, &RowError{Sheet: worksheet, Row: rowNum, Field: "Datum", Value: dateRaw}
		}
		duration, err := decimal.NewFromString(normalizeNumber(durationRaw))
		if err != nil || !duration.IsPositive() {
			return nil, &RowError{Sheet: worksheet, Row: rowNum, Field: "Dauer", Value: durationRaw}
		}

		service, ok := findService(services, serviceRaw)
		if !ok {
			return nil, &RowError{Sheet: worksheet, Row: rowNum, Field: "Leistung", Value: serviceRaw}
		}
		customer, ok := findCustomer(customers, customerRaw)
		if !ok {
			return nil, &RowError{Sheet: worksheet, Row: rowNum, Field: "Kunde", Value: customerRaw}
		}

		entries = append(entries, Entry{
			Row:      rowNum,
			Date:     date,
			Duration: duration,
			Service:  service,
			Customer: customer,
		})
	}
	return entries, nil
}

func findService(services []Service, name string) (Service, bool) {
	for _, s := range services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

func findCustomer(customers []domain.Party, company string) (domain.Party, bool) {
	for _, c := range customers {
		if c.Company == company {
			return c, true
		}
	}
	return domain.Party{}, false
}

// parseDate accepts either a German date or an Excel day serial.
func parseDate(raw string) (string, error) {
	if d, err := time.Parse(domain.DateLayout, raw); err == nil {
		return d.Format(domain.DateLayout), nil
	}
	serial, err := strconv.ParseFloat(normalizeNumber(raw), 64)
	if err != nil {
		return "", fmt.Errorf("not a date: %q", raw)
	}
	// Excel's day 1 is 1900-01-01, with the fictitious 1900 leap day baked in
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(serial)).Format(domain.DateLayout), nil
}

// normalizeNumber turns a German decimal comma into a dot and strips
// whitespace so decimal parsing accepts it.
func normalizeNumber(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}

// splitHeader separates the header row from the data rows.
func splitHeader(rows [][]string) ([]string, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], rows[1:]
}

// columnIndex finds a header column by name, tolerating the padded
// header cells some sheets carry (e.g. " Netto ").
func columnIndex(head []string, name string) int {
	for i, h := range head {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
