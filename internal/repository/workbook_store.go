package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mkessler/faktura/internal/domain"
)

// WorkbookStore keeps the invoice ledger in an Excel workbook with one
// sheet per sender ID, plus one JSON options file per invoice. The
// workbook is the management team's shared overview file, so its sheets
// are expected to pre-exist; a missing sender sheet is a fatal
// misconfiguration, not a first-invoice case.
type WorkbookStore struct {
	workbookPath string
	optionsDir   string
}

// NewWorkbookStore creates a store over the given ledger workbook and
// options directory.
func NewWorkbookStore(workbookPath, optionsDir string) *WorkbookStore {
	return &WorkbookStore{workbookPath: workbookPath, optionsDir: optionsDir}
}

func (s *WorkbookStore) optionsPath(number string) string {
	return filepath.Join(s.optionsDir, number+".json")
}

// Record appends the invoice to the sender's ledger sheet and writes
// its options JSON next to the ledger.
func (s *WorkbookStore) Record(ctx context.Context, rec domain.Record) error {
	f, err := excelize.OpenFile(s.workbookPath)
	if err != nil {
		return fmt.Errorf("failed to open invoice ledger: %w", err)
	}
	defer f.Close()

	sheet := rec.SenderID
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to access ledger sheet: %w", err)
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingHistorySheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read ledger sheet %s: %w", sheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to address ledger row: %w", err)
	}
	row := []interface{}{
		rec.Number,
		rec.Date,
		strings.ReplaceAll(rec.Total.StringFixed(2), ".", ","),
		rec.RecipientName,
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save invoice ledger: %w", err)
	}

	if err := os.MkdirAll(s.optionsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}
	optionsJSON, err := json.MarshalIndent(rec.Options, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode invoice options: %w", err)
	}
	if err := os.WriteFile(s.optionsPath(rec.Number), optionsJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write invoice options: %w", err)
	}

	return nil
}

// FindLastNumber scans the sender's sheet bottom-up for the latest
// number of the given type.
func (s *WorkbookStore) FindLastNumber(ctx context.Context, senderID string, typ domain.InvoiceType) (string, error) {
	f, err := excelize.OpenFile(s.workbookPath)
	if err != nil {
		return "", fmt.Errorf("failed to open invoice ledger: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(senderID)
	if err != nil {
		return "", fmt.Errorf("failed to access ledger sheet: %w", err)
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingHistorySheet, senderID)
	}

	rows, err := f.GetRows(senderID)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger sheet %s: %w", senderID, err)
	}

	prefix := fmt.Sprintf("%s-%s-", senderID, typ)
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) == 0 {
			continue
		}
		if number := rows[i][0]; strings.HasPrefix(number, prefix) {
			return number, nil
		}
	}
	return "", nil
}

// Options loads the persisted construction options of an invoice.
func (s *WorkbookStore) Options(ctx context.Context, number string) (*domain.Options, error) {
	data, err := os.ReadFile(s.optionsPath(number))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, number)
		}
		return nil, fmt.Errorf("failed to read invoice options: %w", err)
	}

	var opts domain.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("corrupt options for invoice %s: %w", number, err)
	}
	return &opts, nil
}

// Delete removes the invoice's ledger row and options file.
func (s *WorkbookStore) Delete(ctx context.Context, number string) error {
	f, err := excelize.OpenFile(s.workbookPath)
	if err != nil {
		return fmt.Errorf("failed to open invoice ledger: %w", err)
	}
	defer f.Close()

	found := false
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read ledger sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			if len(row) > 0 && row[0] == number {
				if err := f.RemoveRow(sheet, i+1); err != nil {
					return fmt.Errorf("failed to remove ledger row: %w", err)
				}
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save invoice ledger: %w", err)
	}

	if err := os.Remove(s.optionsPath(number)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove invoice options: %w", err)
	}
	return nil
}
