package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes regular invoices from cancellations
// ("Storno" credit notes). Each type has its own number sequence per sender.
type InvoiceType string

const (
	TypeRegular      InvoiceType = "RE"
	TypeCancellation InvoiceType = "ST"
)

// DateLayout is the fixed German date format used on invoices.
const DateLayout = "02.01.2006"

// LineItem is one billable position. Immutable once part of an invoice.
type LineItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
	Unit        string          `json:"unit"`
	Amount      decimal.Decimal `json:"amount"`
	Price       decimal.Decimal `json:"price"`
}

// Total returns amount * price.
func (it LineItem) Total() decimal.Decimal {
	return it.Price.Mul(it.Amount)
}

// Details carries the invoice-level metadata.
type Details struct {
	Number    string          `json:"number"`
	Type      InvoiceType     `json:"type,omitempty"`
	Date      string          `json:"date,omitempty"`
	Name      string          `json:"name,omitempty"`
	Message   string          `json:"message,omitempty"`
	Terms     string          `json:"terms,omitempty"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// TableWidths holds the item table column widths as fractions of the
// printable width. They are expected to sum to at most 1; the layout
// engine does not enforce this.
type TableWidths struct {
	Service float64 `json:"service"`
	Amount  float64 `json:"amount"`
	Unit    float64 `json:"unit"`
	Price   float64 `json:"price"`
	Total   float64 `json:"total"`
}

// Layout configures the page geometry of a rendered invoice, in points.
type Layout struct {
	Size         string      `json:"size"`
	MarginTop    float64     `json:"marginTop"`
	MarginBottom float64     `json:"marginBottom"`
	MarginLeft   float64     `json:"marginLeft"`
	MarginRight  float64     `json:"marginRight"`
	TableWidths  TableWidths `json:"tableWidths"`
}

// Options is the full, JSON-serializable construction input for an
// invoice. The persisted options of a prior invoice are a valid input
// for regenerating or cancelling it.
type Options struct {
	Invoice   Details    `json:"invoice"`
	Document  Layout     `json:"document"`
	Sender    Party      `json:"sender"`
	Recipient Party      `json:"recipient"`
	Items     []LineItem `json:"items"`
}

// DefaultOptions returns a fully populated options value with German
// boilerplate texts and A4 geometry.
func DefaultOptions(now time.Time) Options {
	return Options{
		Invoice: Details{
			Type:      TypeRegular,
			Name:      "Rechnung",
			Date:      now.Format(DateLayout),
			TaxRate:   decimal.NewFromInt(19),
			Message:   "Sehr geehrter Kunde,\n\nvielen Dank für Ihren Auftrag. Anbei erhalten Sie die Rechnung für die erbrachten Leistungen.",
			Terms:     "Bitte überweisen Sie den vollständigen Rechnungsbetrag innerhalb von 14 Tagen auf die unten stehende Bankverbindung.\n\nVielen Dank für Ihr Vertrauen!",
			CreatedAt: now.Format(time.RFC3339),
		},
		Document: Layout{
			Size:         "A4",
			MarginTop:    40,
			MarginBottom: 40,
			MarginLeft:   50,
			MarginRight:  50,
			TableWidths: TableWidths{
				Service: .5,
				Amount:  .1,
				Unit:    .1,
				Price:   .15,
				Total:   .15,
			},
		},
	}
}

// applyDefaults fills unset fields from DefaultOptions. This is a
// bounded, field-by-field override pass; unknown input is rejected at
// JSON decode time, not merged structurally.
func (o Options) applyDefaults(now time.Time) Options {
	def := DefaultOptions(now)

	if o.Invoice.Type == "" {
		o.Invoice.Type = def.Invoice.Type
	}
	if o.Invoice.Name == "" {
		o.Invoice.Name = def.Invoice.Name
	}
	if o.Invoice.Date == "" {
		o.Invoice.Date = def.Invoice.Date
	}
	if o.Invoice.Message == "" {
		o.Invoice.Message = def.Invoice.Message
	}
	if o.Invoice.Terms == "" {
		o.Invoice.Terms = def.Invoice.Terms
	}
	if o.Invoice.CreatedAt == "" {
		o.Invoice.CreatedAt = def.Invoice.CreatedAt
	}

	if o.Document.Size == "" {
		o.Document.Size = def.Document.Size
	}
	if o.Document.MarginTop == 0 {
		o.Document.MarginTop = def.Document.MarginTop
	}
	if o.Document.MarginBottom == 0 {
		o.Document.MarginBottom = def.Document.MarginBottom
	}
	if o.Document.MarginLeft == 0 {
		o.Document.MarginLeft = def.Document.MarginLeft
	}
	if o.Document.MarginRight == 0 {
		o.Document.MarginRight = def.Document.MarginRight
	}
	if o.Document.TableWidths == (TableWidths{}) {
		o.Document.TableWidths = def.Document.TableWidths
	}

	return o
}

// Validate returns an error if the options cannot produce an invoice.
func (o Options) Validate() error {
	if o.Invoice.Number == "" {
		return ErrMissingInvoiceNumber
	}
	if o.Invoice.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate must not be negative")
	}
	if err := o.Sender.ValidateAsSender(); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := o.Recipient.ValidateAsRecipient(); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("invoice has no line items")
	}
	return nil
}

// Invoice is the fully constructed aggregate. Subtotal, tax, and total
// are computed once at construction and never recomputed; rendering
// only formats the cached values.
type Invoice struct {
	Options  Options
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// NewInvoice validates the options, fills defaults, and computes totals.
// There are no partial invoices: construction either succeeds fully or fails.
func NewInvoice(opts Options) (*Invoice, error) {
	opts = opts.applyDefaults(time.Now())
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	totals, err := CalculateTotals(opts.Items, opts.Invoice.TaxRate)
	if err != nil {
		return nil, err
	}

	return &Invoice{
		Options:  opts,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}, nil
}

// DeliveryNote is the delivery line of the invoice header: either a
// single delivery date or a period spanning the earliest to latest item date.
type DeliveryNote struct {
	Label string
	Value string
}

// Delivery derives the delivery line from the dated items. A period is
// shown when at least two distinct dates exist; a single dated item
// yields a plain delivery date. Unparseable dates are skipped.
func Delivery(items []LineItem) (DeliveryNote, bool) {
	var dates []time.Time
	for _, it := range items {
		if it.Date == "" {
			continue
		}
		d, err := time.Parse(DateLayout, it.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return DeliveryNote{}, false
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	first, last := dates[0], dates[len(dates)-1]

	if !first.Equal(last) {
		return DeliveryNote{
			Label: "Lieferzeitraum:",
			Value: fmt.Sprintf("%s-%s", first.Format("02.01."), last.Format(DateLayout)),
		}, true
	}
	if len(items) == 1 {
		return DeliveryNote{Label: "Lieferdatum:", Value: first.Format(DateLayout)}, true
	}
	return DeliveryNote{}, false
}
