package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <worksheet> [freelancer...]",
	Short: "Generate invoices from time-tracking worksheets",
	Long: `Generate one invoice per customer from the named worksheet (e.g. 2024-05)
of each freelancer's time-tracking workbook, plus the commission invoice.

Without freelancer arguments, invoices are generated for all freelancers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		worksheet := args[0]

		freelancers := args[1:]
		if len(freelancers) == 0 {
			var err error
			freelancers, err = appInstance.InvoiceService.Freelancers()
			if err != nil {
				return err
			}
		}

		for _, name := range freelancers {
			result, err := appInstance.InvoiceService.GenerateMonth(ctx, name, worksheet)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if len(result.Invoices) == 0 {
				fmt.Printf("%s: keine abrechenbaren Einträge in %s\n", name, worksheet)
				continue
			}
			for _, inv := range result.Invoices {
				fmt.Printf("%s - %s an %s\n", inv.Options.Invoice.Number, name, inv.Options.Recipient.DisplayName())
			}
			fmt.Printf("%s - Provisionsrechnung an %s\n", result.Provision.Options.Invoice.Number, name)
		}
		return nil
	},
}
