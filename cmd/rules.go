package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
)

var (
	flagRuleAccount  string
	flagRuleName     string
	flagRuleAmount   string
	flagRuleIncome   bool
	flagRuleFreq     string
	flagRuleWeekday  int
	flagRuleMonthday int
	flagRuleInterval int
	flagRuleAuto     bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List recurring income and expense rules",
	RunE:  runRules,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring rule",
	RunE:  runRulesAdd,
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a recurring rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesRm,
}

func init() {
	rulesAddCmd.Flags().StringVar(&flagRuleAccount, "account", "", "Account ID")
	rulesAddCmd.Flags().StringVar(&flagRuleName, "name", "", "Rule name (e.g. Rent, Salary)")
	rulesAddCmd.Flags().StringVar(&flagRuleAmount, "amount", "", "Amount (always positive)")
	rulesAddCmd.Flags().BoolVar(&flagRuleIncome, "income", false, "Income instead of expense")
	rulesAddCmd.Flags().StringVar(&flagRuleFreq, "freq", "monthly", "Frequency: daily, weekly, monthly, yearly, custom")
	rulesAddCmd.Flags().IntVar(&flagRuleWeekday, "day-of-week", 0, "Weekly: 0=Sunday..6")
	rulesAddCmd.Flags().IntVar(&flagRuleMonthday, "day-of-month", 1, "Monthly: 1-31")
	rulesAddCmd.Flags().IntVar(&flagRuleInterval, "interval", 1, "Custom: every N days")
	rulesAddCmd.Flags().BoolVar(&flagRuleAuto, "auto-confirm", true, "Count as a fixed obligation")
	_ = rulesAddCmd.MarkFlagRequired("account")
	_ = rulesAddCmd.MarkFlagRequired("name")
	_ = rulesAddCmd.MarkFlagRequired("amount")

	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRmCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	if len(snap.Rules) == 0 {
		fmt.Println("  No recurring rules. Add one with `lifeline rules add`")
		return nil
	}

	code := snap.Settings.Currency
	rows := make([][]string, 0, len(snap.Rules))
	for _, r := range snap.Rules {
		sign := "-"
		if r.Direction == model.Income {
			sign = "+"
		}
		next := ""
		if !r.NextOccurrence.IsZero() {
			next = cli.FormatDate(r.NextOccurrence)
		}
		rows = append(rows, []string{
			r.ID,
			r.Name,
			sign + cli.FormatMoney(r.Amount, code),
			describeFrequency(r),
			next,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recurring Rules",
		Headers: []string{"ID", "Name", "Amount", "Schedule", "Next"},
		Rows:    rows,
	}))
	return nil
}

func describeFrequency(r model.RecurringRule) string {
	switch r.Frequency {
	case model.Daily:
		return "daily"
	case model.Weekly:
		return "weekly (" + time.Weekday(r.DayOfWeek).String()[:3] + ")"
	case model.Monthly:
		return fmt.Sprintf("monthly (day %d)", r.DayOfMonth)
	case model.Yearly:
		return "yearly"
	case model.Custom:
		return fmt.Sprintf("every %d days", r.IntervalDays)
	}
	return string(r.Frequency)
}

func runRulesAdd(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	dir := model.Expense
	if flagRuleIncome {
		dir = model.Income
	}

	id, err := coord.AddRule(model.RecurringRule{
		AccountID:    flagRuleAccount,
		Name:         flagRuleName,
		Amount:       currency.ParseInput(flagRuleAmount),
		Direction:    dir,
		Frequency:    model.Frequency(flagRuleFreq),
		DayOfWeek:    flagRuleWeekday,
		DayOfMonth:   flagRuleMonthday,
		IntervalDays: flagRuleInterval,
		StartDate:    time.Now(),
		AutoConfirm:  flagRuleAuto,
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Added rule %s (%s)\n", flagRuleName, id)
	return nil
}

func runRulesRm(_ *cobra.Command, args []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := coord.DeleteRule(args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted rule %s\n", args[0])
	return nil
}
