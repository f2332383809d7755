package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/importer"
	"github.com/theirongolddev/lifeline/internal/model"
)

var (
	flagImportAccount string
	flagImportDryRun  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a WeChat/Alipay bill export or generic CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportAccount, "account", "", "Account ID to import into")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without recording anything")
	_ = importCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open bill file: %w", err)
	}
	defer func() { _ = f.Close() }()

	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := importer.Import(f, flagImportAccount)
	if err != nil {
		return fmt.Errorf("parse bill: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Detected format: %s\n", result.Format)
	fmt.Printf("  Rows: %d total, %d parsed, %d skipped\n", result.Total, result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("    skipped: %s\n", e)
	}
	fmt.Println()

	if len(result.Transactions) == 0 {
		fmt.Println("  Nothing to import.")
		return nil
	}

	if flagImportDryRun {
		snap := coord.Snapshot()
		code := snap.Settings.Currency
		rows := make([][]string, 0, len(result.Transactions))
		for _, t := range result.Transactions {
			sign := "-"
			if t.Direction == model.Income {
				sign = "+"
			}
			rows = append(rows, []string{
				cli.FormatDate(t.Date), t.Merchant, t.Category, sign + cli.FormatMoney(t.Amount, code),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Would Import (dry run)",
			Headers: []string{"Date", "Merchant", "Category", "Amount"},
			Rows:    rows,
		}))
		return nil
	}

	ids, err := coord.AddTransactionBatch(result.Transactions)
	if err != nil {
		return fmt.Errorf("recorded %d of %d before failing: %w", len(ids), len(result.Transactions), err)
	}

	snap := coord.Snapshot()
	fmt.Printf("  Imported %d transactions.\n", len(ids))
	fmt.Printf("  Total balance: %s\n\n", cli.FormatMoney(snap.TotalBalance, snap.Settings.Currency))
	return nil
}
