package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <number>",
	Short: "Issue a cancellation invoice",
	Long: `Issue a cancellation invoice ("Stornorechnung") crediting the full
amount of an existing invoice. The cancellation gets its own number
from the sender's ST sequence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.InvoiceService.Cancel(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Stornorechnung %s für %s wurde erstellt\n", inv.Options.Invoice.Number, args[0])
		return nil
	},
}
