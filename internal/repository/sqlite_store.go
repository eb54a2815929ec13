package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkessler/faktura/internal/db"
	"github.com/mkessler/faktura/internal/domain"
)

// SQLiteStore is the encrypted-database implementation of InvoiceStore.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new SQLiteStore
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

// Record inserts an issued invoice into the ledger
func (s *SQLiteStore) Record(ctx context.Context, rec domain.Record) error {
	optionsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("failed to encode invoice options: %w", err)
	}

	query := `
		INSERT INTO invoices (
			number, type, date, total,
			sender_id, sender_name, recipient_id, recipient_name, options
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		rec.Number,
		string(rec.Options.Invoice.Type),
		rec.Date,
		rec.Total.StringFixed(2),
		rec.SenderID,
		rec.SenderName,
		rec.RecipientID,
		rec.RecipientName,
		string(optionsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to record invoice %s: %w", rec.Number, err)
	}

	return nil
}

// FindLastNumber returns the most recently recorded number for the
// sender and type, or an empty string when the sender has no history.
func (s *SQLiteStore) FindLastNumber(ctx context.Context, senderID string, typ domain.InvoiceType) (string, error) {
	query := `
		SELECT number FROM invoices
		WHERE sender_id = ? AND type = ?
		ORDER BY id DESC
		LIMIT 1
	`

	var number string
	err := s.db.QueryRowContext(ctx, query, senderID, string(typ)).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up last invoice number: %w", err)
	}

	return number, nil
}

// Options returns the persisted construction options of an invoice
func (s *SQLiteStore) Options(ctx context.Context, number string) (*domain.Options, error) {
	var optionsJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT options FROM invoices WHERE number = ?", number,
	).Scan(&optionsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, number)
		}
		return nil, fmt.Errorf("failed to load invoice %s: %w", number, err)
	}

	var opts domain.Options
	if err := json.Unmarshal([]byte(optionsJSON), &opts); err != nil {
		return nil, fmt.Errorf("corrupt options for invoice %s: %w", number, err)
	}

	return &opts, nil
}

// Delete removes an invoice from the ledger
func (s *SQLiteStore) Delete(ctx context.Context, number string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE number = ?", number)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", number, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}

	return nil
}
