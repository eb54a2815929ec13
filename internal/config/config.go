package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mkessler/faktura/internal/domain"
)

// Storage backends for the invoice ledger.
const (
	BackendSQLite   = "sqlite"
	BackendWorkbook = "workbook"
)

type Config struct {
	// Storage selects the invoice ledger backend
	Storage StorageConfig `yaml:"storage"`

	// Paths to the managed directories and files
	Paths PathsConfig `yaml:"paths"`

	// Texts used on generated invoices
	Texts TextsConfig `yaml:"texts"`

	// Provision invoice settings (management commission)
	Provision ProvisionConfig `yaml:"provision"`

	// Logging settings
	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite or workbook
}

type PathsConfig struct {
	// FreelancerDir holds one directory per contractor with their
	// time-tracking workbook and generated invoices
	FreelancerDir string `yaml:"freelancer_dir"`

	// LedgerWorkbook is the shared invoice overview file (workbook backend)
	LedgerWorkbook string `yaml:"ledger_workbook"`

	// OptionsDir stores one JSON options file per invoice (workbook backend)
	OptionsDir string `yaml:"options_dir"`

	// ProvisionInvoiceDir receives the management entity's commission invoices
	ProvisionInvoiceDir string `yaml:"provision_invoice_dir"`

	// DatabasePath is the encrypted SQLite ledger (sqlite backend)
	DatabasePath string `yaml:"database_path"`
}

type TextsConfig struct {
	FreelancerMessage      string `yaml:"freelancer_message"`
	FreelancerTerms        string `yaml:"freelancer_terms"`
	FreelancerTaxFreeTerms string `yaml:"freelancer_tax_free_terms"`

	ProvisionMessage string `yaml:"provision_message"`
	ProvisionTerms   string `yaml:"provision_terms"`

	CancellationMessage      string `yaml:"cancellation_message"`
	CancellationTerms        string `yaml:"cancellation_terms"`
	CancellationTaxFreeTerms string `yaml:"cancellation_tax_free_terms"`
}

type ProvisionConfig struct {
	// Sender is the management entity issuing commission invoices
	Sender domain.Party `yaml:"sender"`

	// Rate is the commission share of each generated invoice total (0.2 = 20%)
	Rate float64 `yaml:"rate"`

	// TaxRatePercent applied to provision invoices
	TaxRatePercent float64 `yaml:"tax_rate_percent"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfigPath returns ~/.config/faktura/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "faktura", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "faktura", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	base := filepath.Join(homeDir, "Freelancer")

	return &Config{
		Storage: StorageConfig{
			Backend: BackendWorkbook,
		},
		Paths: PathsConfig{
			FreelancerDir:       base,
			LedgerWorkbook:      filepath.Join(base, "ORGA", "Rechnungsübersicht.xlsx"),
			OptionsDir:          filepath.Join(base, "ORGA", "Rechnungsdaten"),
			ProvisionInvoiceDir: filepath.Join(base, "ORGA", "Provisionsrechnungen"),
			DatabasePath:        filepath.Join(homeDir, ".config", "faktura", "faktura.db"),
		},
		Texts: TextsConfig{
			FreelancerMessage:      "Sehr geehrter Kunde,\n\nvielen Dank für Ihren Auftrag. Anbei erhalten Sie die Rechnung für die erbrachten Leistungen.",
			FreelancerTerms:        "Bitte überweisen Sie den vollständigen Rechnungsbetrag innerhalb von 14 Tagen auf die unten stehende Bankverbindung.\n\nVielen Dank für Ihr Vertrauen!",
			FreelancerTaxFreeTerms: "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet.\n\nBitte überweisen Sie den vollständigen Rechnungsbetrag innerhalb von 14 Tagen auf die unten stehende Bankverbindung.",

			ProvisionMessage: "Sehr geehrte Kollegin, sehr geehrter Kollege,\n\nanbei erhalten Sie die Provisionsrechnung für die vermittelten Aufträge.",
			ProvisionTerms:   "Der Rechnungsbetrag wird mit der nächsten Auszahlung verrechnet.",

			CancellationMessage:      "Sehr geehrter Kunde,\n\nanbei erhalten Sie die Stornorechnung zur genannten Rechnung. Der Rechnungsbetrag wird hiermit gutgeschrieben.",
			CancellationTerms:        "Bereits gezahlte Beträge werden innerhalb von 14 Tagen erstattet.",
			CancellationTaxFreeTerms: "Gemäß § 19 UStG wurde keine Umsatzsteuer berechnet.\n\nBereits gezahlte Beträge werden innerhalb von 14 Tagen erstattet.",
		},
		Provision: ProvisionConfig{
			Rate:           0.2,
			TaxRatePercent: 19,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Backend != BackendSQLite && cfg.Storage.Backend != BackendWorkbook {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// EnsureDirectories creates the managed directories if they don't exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.FreelancerDir,
		c.Paths.OptionsDir,
		c.Paths.ProvisionInvoiceDir,
		filepath.Dir(c.Paths.LedgerWorkbook),
	}
	if c.Storage.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Paths.DatabasePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// TimesheetPath returns the time-tracking workbook of one contractor.
func (c *Config) TimesheetPath(freelancer string) string {
	return filepath.Join(c.Paths.FreelancerDir, freelancer, "Zeiterfassung.xlsx")
}

// InvoiceDir returns where a sender's invoice PDFs are written. The
// provision sender has its own directory; everyone else gets a
// Rechnungen directory next to their timesheet.
func (c *Config) InvoiceDir(senderID, senderName string) string {
	if senderID != "" && senderID == c.Provision.Sender.ID {
		return c.Paths.ProvisionInvoiceDir
	}
	return filepath.Join(c.Paths.FreelancerDir, senderName, "Rechnungen")
}

// CancellationTexts exposes the cancellation text block for the domain transform.
func (c *Config) CancellationTexts() domain.CancellationTexts {
	return domain.CancellationTexts{
		Message:      c.Texts.CancellationMessage,
		Terms:        c.Texts.CancellationTerms,
		TaxFreeTerms: c.Texts.CancellationTaxFreeTerms,
	}
}
