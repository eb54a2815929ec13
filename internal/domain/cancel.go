package domain

// CancellationTexts are the message and terms used on credit notes. The
// tax-exempt variant is selected when the original invoice was tax-free.
type CancellationTexts struct {
	Message      string
	Terms        string
	TaxFreeTerms string
}

// Cancel derives the options for a credit note reversing a prior
// invoice: type ST, negated item prices, cancellation texts, and the
// freshly sequenced number. The original options are not modified.
func Cancel(orig Options, number string, texts CancellationTexts) Options {
	opts := orig

	items := make([]LineItem, len(orig.Items))
	for i, it := range orig.Items {
		it.Price = it.Price.Neg()
		items[i] = it
	}
	opts.Items = items

	opts.Invoice.Type = TypeCancellation
	opts.Invoice.Number = number
	opts.Invoice.Name = "Stornorechnung für " + orig.Invoice.Number
	opts.Invoice.Message = texts.Message
	if orig.Invoice.TaxRate.IsZero() {
		opts.Invoice.Terms = texts.TaxFreeTerms
	} else {
		opts.Invoice.Terms = texts.Terms
	}

	return opts
}
