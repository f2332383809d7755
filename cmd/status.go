package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current balance, allowance, and safety level",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	code := snap.Settings.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle("LIFELINE"))
	fmt.Println()

	rows := [][]string{
		{"Total Balance", cli.FormatMoney(snap.TotalBalance, code)},
		{"Daily Average", cli.FormatMoney(snap.DailyExpenseAverage, code)},
		{"Daily Allowance", cli.FormatMoney(snap.DailyAllowance, code)},
		{"Safety", cli.FormatSafety(snap.SafetyLevel)},
		{"Payday", fmt.Sprintf("%s (day %d)", cli.FormatDays(snap.DaysUntilPayday), snap.Settings.PaydayOfMonth)},
	}
	if snap.Landing != nil {
		rows = append(rows, []string{
			"Lowest Before Income",
			fmt.Sprintf("%s on %s", cli.FormatMoney(snap.Landing.Balance, code), cli.FormatDate(snap.Landing.Date)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cash Position",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(snap.Accounts) > 0 {
		accRows := make([][]string, 0, len(snap.Accounts))
		for _, a := range snap.Accounts {
			accRows = append(accRows, []string{a.Name, string(a.Type), cli.FormatMoney(a.Balance, code)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Accounts",
			Headers: []string{"Name", "Type", "Balance"},
			Rows:    accRows,
		}))
	}

	return nil
}
