package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/model"
)

var flagForecastFull bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the balance curve over the horizon",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastFull, "full", false, "Show every day instead of weekly samples")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	code := snap.Settings.Currency
	points := snap.Forecast
	if len(points) == 0 {
		fmt.Println("  No forecast available.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST — NEXT %d DAYS", len(points)-1)))
	fmt.Println()

	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i], _ = p.Balance.Float64()
	}
	fmt.Printf("  %s\n\n", cli.RenderSparkline(vals))

	// Weekly samples plus every day that carries a rule event.
	rows := [][]string{}
	for i, p := range points {
		sample := flagForecastFull || i == 0 || i == len(points)-1 || i%7 == 0
		if !sample && len(p.Events) == 0 {
			continue
		}
		events := ""
		for j, ev := range p.Events {
			if j > 0 {
				events += ", "
			}
			sign := "-"
			if ev.Direction == model.Income {
				sign = "+"
			}
			events += fmt.Sprintf("%s %s%s", ev.Name, sign, cli.FormatCompact(ev.Amount))
		}
		rows = append(rows, []string{
			cli.FormatDate(p.Date),
			cli.FormatMoney(p.Balance, code),
			events,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Projected Balance",
		Headers: []string{"Date", "Balance", "Events"},
		Rows:    rows,
	}))

	if snap.Landing != nil {
		fmt.Printf("  Lowest before next income: %s on %s (%s)\n\n",
			cli.FormatMoney(snap.Landing.Balance, code),
			cli.FormatDate(snap.Landing.Date),
			cli.FormatDays(snap.Landing.DaysFromNow))
	} else {
		fmt.Println("  No income events on the horizon.")
		fmt.Println()
	}

	return nil
}
