package cli

import (
	"github.com/spf13/cobra"

	"github.com/mkessler/faktura/internal/app"
	"github.com/mkessler/faktura/internal/tui"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "faktura",
	Short: "Invoice management for a freelancer operation",
	Long: `Faktura generates invoices from time-tracking workbooks, keeps
the invoice ledger, and manages cancellations.

By default, running faktura without arguments launches the interactive menu.
Use subcommands for non-interactive operation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(appInstance)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(deleteCmd)
}
