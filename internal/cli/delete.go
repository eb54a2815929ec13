package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <number>",
	Short: "Delete an invoice",
	Long: `Delete an invoice from the ledger along with its options file and
its PDF. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number := args[0]

		if !deleteForce {
			fmt.Printf("Rechnung %s löschen? Die Löschung kann nicht rückgängig gemacht werden. [y/N] ", number)
			answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "j" {
				fmt.Println("Vorgang abgebrochen")
				return nil
			}
		}

		if err := appInstance.InvoiceService.Delete(context.Background(), number); err != nil {
			return err
		}
		fmt.Printf("Rechnung %s wurde gelöscht\n", number)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
}
