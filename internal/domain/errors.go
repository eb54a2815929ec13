package domain

import "errors"

var (
	// ErrMissingInvoiceNumber is returned when an invoice is constructed
	// without a number.
	ErrMissingInvoiceNumber = errors.New("invoice number is required")

	// ErrInvalidAmount signals a non-finite subtotal, tax, or total,
	// typically caused by corrupt line item data upstream.
	ErrInvalidAmount = errors.New("invalid invoice amount")

	// ErrMalformedNumber is returned when a historical invoice number does
	// not match the <sender>-<type>-<4 digits> pattern. Sequencing aborts
	// rather than guessing, since a wrong guess risks colliding numbers.
	ErrMalformedNumber = errors.New("malformed invoice number")

	// ErrSequenceOverflow is returned when the 4-digit sequence would pass 9999.
	ErrSequenceOverflow = errors.New("invoice number sequence exhausted")

	// ErrMissingHistorySheet is returned by the workbook store when the
	// sender has no sheet in the invoice ledger.
	ErrMissingHistorySheet = errors.New("no ledger sheet for sender")

	// ErrNotFound is returned when a requested invoice number has no
	// persisted record.
	ErrNotFound = errors.New("invoice not found")
)
