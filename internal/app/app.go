package app

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/mkessler/faktura/internal/config"
	"github.com/mkessler/faktura/internal/crypto"
	"github.com/mkessler/faktura/internal/db"
	"github.com/mkessler/faktura/internal/logger"
	"github.com/mkessler/faktura/internal/repository"
	"github.com/mkessler/faktura/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB // nil for the workbook backend

	Store          repository.InvoiceStore
	InvoiceService service.InvoiceService
}

// New creates a new App instance, initializing all dependencies:
// 1. Loading config
// 2. Setting up logging
// 3. Opening the selected invoice ledger backend
// 4. Creating the invoice service
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	a := &App{Config: cfg}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = database
		a.Store = repository.NewSQLiteStore(database)
	default:
		a.Store = repository.NewWorkbookStore(cfg.Paths.LedgerWorkbook, cfg.Paths.OptionsDir)
	}

	a.InvoiceService = service.NewInvoiceService(cfg, a.Store)
	return a, nil
}

// openDatabase unlocks the encrypted ledger database, prompting for a
// password on first run and storing it in the system keyring.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil {
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Paths.DatabasePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("The invoice ledger will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}
