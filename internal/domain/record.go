package domain

import "github.com/shopspring/decimal"

// Record is what the invoice ledger persists per issued invoice. The
// full options payload rides along so an invoice can be regenerated or
// cancelled later.
type Record struct {
	Number        string
	Date          string
	Total         decimal.Decimal
	SenderID      string
	SenderName    string
	RecipientID   string
	RecipientName string
	Options       Options
}

// NewRecord builds the ledger record for a constructed invoice.
func NewRecord(inv *Invoice) Record {
	return Record{
		Number:        inv.Options.Invoice.Number,
		Date:          inv.Options.Invoice.Date,
		Total:         inv.Total,
		SenderID:      inv.Options.Sender.ID,
		SenderName:    inv.Options.Sender.Name,
		RecipientID:   inv.Options.Recipient.ID,
		RecipientName: inv.Options.Recipient.DisplayName(),
		Options:       inv.Options,
	}
}
