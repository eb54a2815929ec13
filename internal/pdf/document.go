package pdf

import (
	"fmt"
	"io"

	"github.com/mkessler/faktura/internal/domain"
)

// Height reserved below the last item row for the summary block. A
// taxed invoice draws two extra summary rows, so more room is kept.
const (
	summaryReserveTaxed   = 156
	summaryReserveTaxFree = 68
)

// document walks through the three one-shot phases of an invoice:
// header, table, footer. Totals are never recomputed here; only the
// values cached on the invoice are formatted.
type document struct {
	inv *domain.Invoice
	e   *Engine
}

// Render lays out the invoice and writes the finished PDF to w. Where
// the bytes land is the caller's concern.
func Render(inv *domain.Invoice, w io.Writer) error {
	d := &document{inv: inv, e: newEngine(inv.Options.Document)}

	d.header()
	d.table()
	d.footer()

	if err := d.e.doc.Output(w); err != nil {
		return fmt.Errorf("failed to write invoice %s: %w", inv.Options.Invoice.Number, err)
	}
	return nil
}

func (d *document) header() {
	e := d.e
	o := d.inv.Options

	// sender block, right aligned
	e.PlaceText(o.Sender.Name, TextOptions{Bold: true, Align: alignRight})
	e.PlaceText(o.Sender.Street, TextOptions{MarginTop: 2, Align: alignRight})
	e.PlaceText(o.Sender.Zip+" "+o.Sender.City, TextOptions{MarginTop: 2, Align: alignRight})
	if o.Sender.Email != "" {
		e.PlaceText(o.Sender.Email, TextOptions{MarginTop: 2, Align: alignRight})
	}
	e.y += 40

	// recipient block, left aligned, sharing the row with the metadata panel
	yBefore := e.y
	recipientWidth := e.printableWidth() * .5
	if o.Recipient.Company != "" {
		e.PlaceText(o.Recipient.Company, TextOptions{Bold: true, MaxWidth: recipientWidth})
	}
	if o.Recipient.Name != "" {
		e.PlaceText(o.Recipient.Name, TextOptions{Bold: o.Recipient.Company == "", MaxWidth: recipientWidth})
	}
	e.PlaceText(o.Recipient.Street, TextOptions{MarginTop: 2, MaxWidth: recipientWidth})
	e.PlaceText(o.Recipient.Zip+" "+o.Recipient.City, TextOptions{MarginTop: 2, MaxWidth: recipientWidth})
	yAfter := e.y

	// metadata panel
	e.y = yBefore
	labelX := recipientWidth + o.Document.MarginLeft + 20

	panelRow := func(label, value string, marginTop float64) {
		e.x = labelX
		e.PlaceText(label, TextOptions{MarginTop: marginTop, MaxWidth: 110, Align: alignRight, KeepY: true})
		e.resetX()
		e.PlaceText(value, TextOptions{MarginTop: marginTop, Bold: true, Align: alignRight})
	}

	if o.Recipient.ID != "" {
		panelRow("Kundennr.:", o.Recipient.ID, 0)
	}
	panelRow("Rechnungsnr.:", o.Invoice.Number, 2)
	panelRow("Rechnungsdatum:", o.Invoice.Date, 2)
	if note, ok := domain.Delivery(o.Items); ok {
		panelRow(note.Label, note.Value, 2)
	}
	if e.y > yAfter {
		yAfter = e.y
	}

	// title and message below the taller of the two blocks
	e.resetX()
	e.y = yAfter
	e.PlaceText(o.Invoice.Name, TextOptions{Size: 18, Bold: true, MarginTop: 40})
	e.PlaceText(o.Invoice.Message, TextOptions{MarginTop: 20})
}

func (d *document) table() {
	d.e.y += 40

	d.tableHeader()
	for _, item := range d.inv.Options.Items {
		d.itemRow(item)
	}
	d.summaryRows()
}

func (d *document) tableHeader() {
	e := d.e
	cols := e.columns()

	e.resetX()
	e.PlaceText("Leistung", TextOptions{MaxWidth: cols.service, Bold: true, KeepY: true})

	e.x = cols.amountX
	e.PlaceText("Anzahl", TextOptions{MaxWidth: cols.amount, Align: alignCenter, Bold: true, KeepY: true})

	e.x = cols.unitX
	e.PlaceText("Einheit", TextOptions{MaxWidth: cols.unit, Align: alignCenter, Bold: true, KeepY: true})

	e.x = cols.priceX
	e.PlaceText("Preis", TextOptions{MaxWidth: cols.price, Align: alignRight, Bold: true, KeepY: true})

	e.x = cols.totalX
	e.PlaceText("Gesamt", TextOptions{MaxWidth: cols.total, Align: alignRight, Bold: true})

	e.Rule(12)
}

func (d *document) itemRow(item domain.LineItem) {
	e := d.e

	// break early if this row plus the summary block would not fit, so
	// the summary rows are never stranded alone on a new page
	reserve := float64(summaryReserveTaxFree)
	if d.inv.Options.Invoice.TaxRate.IsPositive() {
		reserve = summaryReserveTaxed
	}
	if e.y > e.pageH-(reserve+e.layout.MarginBottom) {
		e.NewPage()
		d.tableHeader()
	}

	cols := e.columns()
	rowTop := e.y

	e.resetX()
	e.PlaceText(item.Name, TextOptions{MaxWidth: cols.service, Bold: true, MarginTop: 12})
	e.PlaceText(item.Description, TextOptions{MaxWidth: cols.service, Size: 10, MarginTop: 2})
	serviceBottom := e.y

	e.y = rowTop
	e.x = cols.amountX
	e.PlaceText(FormatQuantity(item.Amount), TextOptions{MaxWidth: cols.amount, Align: alignCenter, Bold: true, MarginTop: 12, KeepY: true})

	e.y = rowTop
	e.x = cols.unitX
	e.PlaceText(item.Unit, TextOptions{MaxWidth: cols.unit, Align: alignCenter, Bold: true, MarginTop: 12, KeepY: true})

	e.y = rowTop
	e.x = cols.priceX
	e.PlaceText(FormatEUR(item.Price), TextOptions{MaxWidth: cols.price, Align: alignRight, Bold: true, MarginTop: 12, KeepY: true})

	e.y = rowTop
	e.x = cols.totalX
	e.PlaceText(FormatEUR(item.Total()), TextOptions{MaxWidth: cols.total, Align: alignRight, Bold: true, MarginTop: 12})

	if serviceBottom > e.y {
		e.y = serviceBottom
	}
	e.y += 12
	e.Rule(12)
}

func (d *document) summaryRows() {
	e := d.e
	inv := d.inv
	cols := e.columns()
	labelWidth := cols.service + cols.amount + cols.unit + cols.price

	summaryRow := func(label string, value string) {
		e.resetX()
		e.PlaceText(label, TextOptions{MaxWidth: labelWidth, Bold: true, Align: alignRight, MarginTop: 16, KeepY: true})
		e.x = cols.totalX
		e.PlaceText(value, TextOptions{MaxWidth: cols.total, Align: alignRight, Bold: true, MarginTop: 16})
		e.Rule(12)
	}

	if inv.Options.Invoice.TaxRate.IsPositive() {
		summaryRow("Zwischensumme (Netto)", FormatEUR(inv.Subtotal))
		summaryRow("Umsatzsteuer ("+FormatTaxRate(inv.Options.Invoice.TaxRate)+")", FormatEUR(inv.Tax))
	}
	summaryRow("Gesamt", FormatEUR(inv.Total))
}

func (d *document) footer() {
	e := d.e
	o := d.inv.Options

	e.resetX()
	e.PlaceText(o.Invoice.Terms, TextOptions{MarginTop: 40})
	e.PlaceText(o.Sender.Name, TextOptions{MarginTop: 40, Bold: true})

	labelValue := func(label, value string, marginTop float64) {
		e.resetX()
		e.PlaceText(label, TextOptions{MarginTop: marginTop, KeepY: true})
		e.x += 40
		e.PlaceText(value, TextOptions{MarginTop: marginTop})
	}

	if o.Sender.TaxID != "" {
		labelValue("St.Nr.: ", o.Sender.TaxID, 4)
	}
	if o.Sender.VatID != "" {
		labelValue("USt.Id.: ", o.Sender.VatID, 4)
	}
	labelValue("Bank: ", o.Sender.BankName, 8)
	labelValue("IBAN: ", o.Sender.IBAN, 4)
	labelValue("BIC: ", o.Sender.BIC, 4)
}
