package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/forecast"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <amount>",
	Short: "Preview spending an amount today without recording it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, args []string) error {
	amount := currency.ParseInput(args[0])
	if !amount.IsPositive() {
		return errors.New("amount must be positive")
	}

	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	code := snap.Settings.Currency
	simulated := coord.SimulateExpense(amount)
	if len(simulated) == 0 {
		fmt.Println("  No forecast available.")
		return nil
	}

	fmt.Println()
	fmt.Printf("  If you spend %s today:\n\n", cli.FormatMoney(amount, code))

	last := simulated[len(simulated)-1]
	baseline := snap.Forecast[len(snap.Forecast)-1]

	rows := [][]string{
		{"Balance now", cli.FormatMoney(snap.TotalBalance, code), cli.FormatMoney(snap.TotalBalance.Sub(amount), code)},
		{"End of horizon", cli.FormatMoney(baseline.Balance, code), cli.FormatMoney(last.Balance, code)},
	}

	landBefore, okBefore := forecast.LandingPoint(snap.Forecast)
	landAfter, okAfter := forecast.LandingPoint(simulated)
	if okBefore && okAfter {
		rows = append(rows, []string{
			"Lowest before income",
			cli.FormatMoney(landBefore.Balance, code),
			cli.FormatMoney(landAfter.Balance, code),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "What If",
		Headers: []string{"", "Current", "After Spending"},
		Rows:    rows,
	}))

	if okAfter && landAfter.Balance.IsNegative() {
		fmt.Println("  Warning: this spending would take you below zero before your next income.")
		fmt.Println()
	}

	return nil
}
