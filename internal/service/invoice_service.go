package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkessler/faktura/internal/config"
	"github.com/mkessler/faktura/internal/domain"
	"github.com/mkessler/faktura/internal/logger"
	"github.com/mkessler/faktura/internal/pdf"
	"github.com/mkessler/faktura/internal/repository"
	"github.com/mkessler/faktura/internal/sequence"
	"github.com/mkessler/faktura/internal/timesheet"
)

// BatchResult reports what a monthly generation run produced.
type BatchResult struct {
	// Invoices issued by the contractor, one per customer with entries
	Invoices []*domain.Invoice

	// Provision is the commission invoice billed to the contractor,
	// nil when no invoices were generated
	Provision *domain.Invoice
}

// InvoiceService manages the invoice lifecycle: monthly generation from
// time-tracking workbooks, cancellation, regeneration and deletion.
type InvoiceService interface {
	// Freelancers lists the contractor directories eligible for generation
	Freelancers() ([]string, error)

	// GenerateMonth creates one invoice per customer from a contractor's
	// time-tracking worksheet plus the commission invoice
	GenerateMonth(ctx context.Context, freelancer, worksheet string) (*BatchResult, error)

	// Cancel issues a credit note for a persisted invoice
	Cancel(ctx context.Context, number string) (*domain.Invoice, error)

	// Regenerate re-renders the PDF of a persisted invoice without
	// appending a new ledger record
	Regenerate(ctx context.Context, number string) (*domain.Invoice, error)

	// Delete removes an invoice from the ledger along with its files
	Delete(ctx context.Context, number string) error
}

type invoiceService struct {
	cfg   *config.Config
	store repository.InvoiceStore
	seq   *sequence.Sequencer
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(cfg *config.Config, store repository.InvoiceStore) InvoiceService {
	return &invoiceService{
		cfg:   cfg,
		store: store,
		seq:   sequence.New(store),
	}
}

func (s *invoiceService) Freelancers() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Paths.FreelancerDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read freelancer directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || entry.Name() == "ORGA" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *invoiceService) GenerateMonth(ctx context.Context, freelancer, worksheet string) (*BatchResult, error) {
	log := logger.WithComponent("generate")

	wb, err := timesheet.Open(s.cfg.TimesheetPath(freelancer))
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet for %s: %w", freelancer, err)
	}
	defer wb.Close()

	profile, err := wb.Profile()
	if err != nil {
		return nil, err
	}
	services, err := wb.Services()
	if err != nil {
		return nil, err
	}
	customers, err := wb.Customers()
	if err != nil {
		return nil, err
	}
	entries, err := wb.Month(worksheet, services, customers)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}

	// One invoice per customer, numbers chained within the batch so
	// the ledger lookup only runs once.
	lastNumber := ""
	for _, customer := range customers {
		var items []domain.LineItem
		for _, entry := range entries {
			if entry.Customer.ID != customer.ID {
				continue
			}
			items = append(items, domain.LineItem{
				Name:        entry.Service.Name,
				Description: fmt.Sprintf("Am %s für %s Stunden", entry.Date, germanAmount(entry.Duration)),
				Date:        entry.Date,
				Unit:        "Stunde",
				Amount:      entry.Duration,
				Price:       entry.Service.Price,
			})
		}
		if len(items) == 0 {
			continue
		}

		number, err := s.seq.Next(ctx, profile.Party, domain.TypeRegular, lastNumber)
		if err != nil {
			return nil, err
		}

		terms := s.cfg.Texts.FreelancerTerms
		if profile.TaxRate.IsZero() {
			terms = s.cfg.Texts.FreelancerTaxFreeTerms
		}

		inv, err := domain.NewInvoice(domain.Options{
			Invoice: domain.Details{
				Number:  number,
				TaxRate: profile.TaxRate,
				Message: s.cfg.Texts.FreelancerMessage,
				Terms:   terms,
			},
			Sender:    profile.Party,
			Recipient: customer,
			Items:     items,
		})
		if err != nil {
			return nil, err
		}

		result.Invoices = append(result.Invoices, inv)
		lastNumber = number
	}

	if len(result.Invoices) == 0 {
		log.Info().Str("freelancer", freelancer).Str("worksheet", worksheet).
			Msg("no billable entries, nothing to generate")
		return result, nil
	}

	provision, err := s.provisionInvoice(ctx, profile.Party, result.Invoices)
	if err != nil {
		return nil, err
	}
	result.Provision = provision

	for _, inv := range result.Invoices {
		if err := s.saveInvoice(ctx, inv); err != nil {
			return nil, err
		}
	}
	if err := s.saveInvoice(ctx, provision); err != nil {
		return nil, err
	}

	log.Info().Str("freelancer", freelancer).Str("worksheet", worksheet).
		Int("invoices", len(result.Invoices)).
		Msg("invoices generated")
	return result, nil
}

// provisionInvoice bills the management commission to the contractor,
// one line item per generated invoice.
func (s *invoiceService) provisionInvoice(ctx context.Context, recipient domain.Party, invoices []*domain.Invoice) (*domain.Invoice, error) {
	number, err := s.seq.Next(ctx, s.cfg.Provision.Sender, domain.TypeRegular, "")
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromFloat(s.cfg.Provision.Rate)
	percent := rate.Mul(decimal.NewFromInt(100))

	items := make([]domain.LineItem, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, domain.LineItem{
			Name:        fmt.Sprintf("Provision für Rechnung %s", inv.Options.Invoice.Number),
			Description: fmt.Sprintf("%s€ x %s%%", germanAmount(inv.Total), percent.String()),
			Unit:        "Stück",
			Amount:      decimal.NewFromInt(1),
			Price:       inv.Total.Mul(rate),
		})
	}

	return domain.NewInvoice(domain.Options{
		Invoice: domain.Details{
			Number:  number,
			TaxRate: decimal.NewFromFloat(s.cfg.Provision.TaxRatePercent),
			Message: s.cfg.Texts.ProvisionMessage,
			Terms:   s.cfg.Texts.ProvisionTerms,
		},
		Sender:    s.cfg.Provision.Sender,
		Recipient: recipient,
		Items:     items,
	})
}

func (s *invoiceService) Cancel(ctx context.Context, number string) (*domain.Invoice, error) {
	opts, err := s.store.Options(ctx, number)
	if err != nil {
		return nil, err
	}

	stNumber, err := s.seq.Next(ctx, opts.Sender, domain.TypeCancellation, "")
	if err != nil {
		return nil, err
	}

	inv, err := domain.NewInvoice(domain.Cancel(*opts, stNumber, s.cfg.CancellationTexts()))
	if err != nil {
		return nil, err
	}

	if err := s.saveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	log := logger.WithComponent("cancel")
	log.Info().
		Str("number", number).Str("cancellation", stNumber).
		Msg("cancellation invoice created")
	return inv, nil
}

func (s *invoiceService) Regenerate(ctx context.Context, number string) (*domain.Invoice, error) {
	opts, err := s.store.Options(ctx, number)
	if err != nil {
		return nil, err
	}

	inv, err := domain.NewInvoice(*opts)
	if err != nil {
		return nil, err
	}

	if err := s.renderPDF(inv); err != nil {
		return nil, err
	}

	log := logger.WithComponent("regenerate")
	log.Info().
		Str("number", number).
		Msg("invoice regenerated")
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, number string) error {
	opts, err := s.store.Options(ctx, number)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, number); err != nil {
		return err
	}

	path := s.pdfPath(opts.Sender, number)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	log := logger.WithComponent("delete")
	log.Info().
		Str("number", number).
		Msg("invoice deleted")
	return nil
}

// saveInvoice records the invoice in the ledger and writes its PDF.
func (s *invoiceService) saveInvoice(ctx context.Context, inv *domain.Invoice) error {
	if err := s.store.Record(ctx, domain.NewRecord(inv)); err != nil {
		return err
	}
	if err := s.renderPDF(inv); err != nil {
		return err
	}

	log := logger.WithComponent("invoice")
	log.Info().
		Str("number", inv.Options.Invoice.Number).
		Str("sender", inv.Options.Sender.Name).
		Str("recipient", inv.Options.Recipient.DisplayName()).
		Str("total", germanAmount(inv.Total)+"€").
		Msg("invoice saved")
	return nil
}

func (s *invoiceService) renderPDF(inv *domain.Invoice) error {
	path := s.pdfPath(inv.Options.Sender, inv.Options.Invoice.Number)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pdf.Render(inv, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func (s *invoiceService) pdfPath(sender domain.Party, number string) string {
	return filepath.Join(s.cfg.InvoiceDir(sender.ID, sender.Name), number+".pdf")
}

// germanAmount formats a decimal with a comma separator and two places.
func germanAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
