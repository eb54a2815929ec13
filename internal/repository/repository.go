// Package repository persists issued invoices. Two backends implement
// the same capability: an encrypted SQLite ledger and an Excel workbook
// ledger. The rest of the application never knows which one is active.
package repository

import (
	"context"

	"github.com/mkessler/faktura/internal/domain"
)

// InvoiceStore is the single persistence capability of the tool.
type InvoiceStore interface {
	// Record appends an issued invoice to the ledger, including its full
	// options payload for later regeneration or cancellation.
	Record(ctx context.Context, rec domain.Record) error

	// FindLastNumber returns the most recently recorded invoice number
	// for a sender and type, or an empty string when none exists. The
	// workbook backend returns ErrMissingHistorySheet when the sender has
	// no ledger sheet at all.
	FindLastNumber(ctx context.Context, senderID string, typ domain.InvoiceType) (string, error)

	// Options returns the persisted construction options of an invoice.
	// Returns domain.ErrNotFound when the number is unknown.
	Options(ctx context.Context, number string) (*domain.Options, error)

	// Delete removes an invoice from the ledger.
	// Returns domain.ErrNotFound when the number is unknown.
	Delete(ctx context.Context, number string) error
}
