package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <number>",
	Short: "Re-render the PDF of an existing invoice",
	Long: `Re-render an invoice PDF from its persisted options, for example
after a layout change. The ledger is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := appInstance.InvoiceService.Regenerate(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Rechnung %s wurde neu generiert\n", args[0])
		return nil
	},
}
