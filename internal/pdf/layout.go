// Package pdf renders invoices as paginated PDF documents. The layout
// engine is a single-pass compositor: it tracks an x/y cursor, measures
// every text block before drawing, and breaks the page when a block
// would not fit, so no block is ever split across pages.
package pdf

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/mkessler/faktura/internal/domain"
)

const (
	fontFamily = "Helvetica"

	defaultFontSize = 12

	// lineHeightFactor converts a font size into the row height used for
	// measuring and drawing multi-line blocks.
	lineHeightFactor = 1.2

	alignLeft   = "L"
	alignCenter = "C"
	alignRight  = "R"
)

// TextOptions control a single PlaceText call. The zero value means
// 12pt regular black text, left aligned, spanning the printable width.
type TextOptions struct {
	Size      float64
	Bold      bool
	Align     string
	Color     string // "#rgb" or "#rrggbb"
	MaxWidth  float64
	MarginTop float64

	// KeepY leaves the cursor on the block's top edge after drawing,
	// for side-by-side label/value pairs sharing one row.
	KeepY bool
}

// Engine owns the cursor and the page state for one document. It is
// created per invoice and never shared between concurrent renders.
type Engine struct {
	doc       *gofpdf.Fpdf
	translate func(string) string
	layout    domain.Layout

	pageW float64
	pageH float64
	x     float64
	y     float64
	pages int
}

func newEngine(layout domain.Layout) *Engine {
	doc := gofpdf.New("P", "pt", layout.Size, "")
	// the engine decides page breaks itself
	doc.SetAutoPageBreak(false, 0)

	e := &Engine{
		doc:       doc,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
		layout:    layout,
	}
	e.pageW, e.pageH = doc.GetPageSize()
	doc.AddPage()
	e.pages = 1
	e.resetCursor()
	return e
}

func (e *Engine) resetCursor() {
	e.x = e.layout.MarginLeft
	e.y = e.layout.MarginTop
}

func (e *Engine) resetX() {
	e.x = e.layout.MarginLeft
}

func (e *Engine) printableWidth() float64 {
	return e.pageW - e.layout.MarginLeft - e.layout.MarginRight
}

// Pages returns the number of pages laid out so far.
func (e *Engine) Pages() int {
	return e.pages
}

// NewPage finalizes the current page and resets the cursor to the
// top-left margin of a fresh one.
func (e *Engine) NewPage() {
	e.doc.AddPage()
	e.pages++
	e.resetCursor()
}

func (e *Engine) setFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	e.doc.SetFont(fontFamily, style, size)
}

func (e *Engine) setColor(hex string) {
	r, g, b := parseHexColor(hex)
	e.doc.SetTextColor(r, g, b)
}

// measure returns the rendered height of text at the given width, using
// the currently selected font. It takes code-page translated text, like
// MultiCell: SplitText would decode the bytes as UTF-8 and panic on any
// rune outside the core font's 256-entry width table.
func (e *Engine) measure(text string, size, maxWidth float64) float64 {
	lines := e.doc.SplitLines([]byte(text), maxWidth)
	return float64(len(lines)) * size * lineHeightFactor
}

// PlaceText measures the block, breaks the page first if it would cross
// the bottom margin, draws it at the cursor, and advances the cursor to
// the block's bottom edge unless KeepY is set.
func (e *Engine) PlaceText(text string, opts TextOptions) {
	size := opts.Size
	if size == 0 {
		size = defaultFontSize
	}
	align := opts.Align
	if align == "" {
		align = alignLeft
	}
	maxWidth := opts.MaxWidth
	if maxWidth == 0 {
		maxWidth = e.printableWidth()
	}
	color := opts.Color
	if color == "" {
		color = "#000"
	}

	e.setFont(size, opts.Bold)
	txt := e.translate(text)
	height := e.measure(txt, size, maxWidth)

	if e.y > e.pageH-(opts.MarginTop+height+e.layout.MarginBottom) {
		e.NewPage()
	}

	e.y += opts.MarginTop
	e.setColor(color)
	e.doc.SetXY(e.x, e.y)
	e.doc.MultiCell(maxWidth, size*lineHeightFactor, txt, "", align, false)

	if opts.KeepY {
		e.y -= opts.MarginTop
	} else {
		e.y = e.doc.GetY()
	}
}

// Rule advances the cursor by marginTop and draws a light separator
// across the printable width.
func (e *Engine) Rule(marginTop float64) {
	e.y += marginTop
	e.doc.SetDrawColor(240, 240, 240)
	e.doc.SetLineWidth(1)
	e.doc.Line(e.layout.MarginLeft, e.y, e.pageW-e.layout.MarginRight, e.y)
}

// columns holds the absolute item table geometry, derived once per
// table render from the configured width fractions. Fractions summing
// to more than 1 are not rejected; the row simply overflows.
type columns struct {
	service float64
	amount  float64
	unit    float64
	price   float64
	total   float64

	amountX float64
	unitX   float64
	priceX  float64
	totalX  float64
}

func (e *Engine) columns() columns {
	w := e.printableWidth()
	tw := e.layout.TableWidths

	c := columns{
		service: w * tw.Service,
		amount:  w * tw.Amount,
		unit:    w * tw.Unit,
		price:   w * tw.Price,
		total:   w * tw.Total,
	}
	c.amountX = e.layout.MarginLeft + c.service
	c.unitX = c.amountX + c.amount
	c.priceX = c.unitX + c.unit
	c.totalX = c.priceX + c.price
	return c
}

func parseHexColor(hex string) (int, int, int) {
	s := hex
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3:
		r := hexNibble(s[0])
		g := hexNibble(s[1])
		b := hexNibble(s[2])
		return r*16 + r, g*16 + g, b*16 + b
	case 6:
		return hexNibble(s[0])*16 + hexNibble(s[1]),
			hexNibble(s[2])*16 + hexNibble(s[3]),
			hexNibble(s[4])*16 + hexNibble(s[5])
	default:
		return 0, 0, 0
	}
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 0
	}
}
