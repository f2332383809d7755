package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/config"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
)

var (
	flagSetCurrency string
	flagSetPayday   int
	flagSetMode     string
	flagSetBudget   string
	flagSetLocale   string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show current settings and configuration",
	RunE:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagSetCurrency, "currency", "", "Currency code (CNY, USD, ...)")
	settingsSetCmd.Flags().IntVar(&flagSetPayday, "payday", 0, "Payday day of month (1-31)")
	settingsSetCmd.Flags().StringVar(&flagSetMode, "budget-mode", "", "Budget mode: auto or manual")
	settingsSetCmd.Flags().StringVar(&flagSetBudget, "daily-budget", "", "Manual daily budget amount")
	settingsSetCmd.Flags().StringVar(&flagSetLocale, "locale", "", "Locale (en, zh)")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	s := coord.Snapshot().Settings
	cur := currency.ByCode(s.Currency)

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Backend:        %s\n", cfg.General.Backend)
	fmt.Printf("    Horizon:        %d days\n", cfg.General.HorizonDays)
	fmt.Printf("    Average window: %d days\n", cfg.General.WindowDays)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Currency:    %s (%s %s)\n", cur.Code, cur.Symbol, cur.Name)
	fmt.Printf("    Payday:      day %d of month\n", s.PaydayOfMonth)
	fmt.Printf("    Budget mode: %s\n", s.BudgetMode)
	if s.BudgetMode == model.BudgetManual {
		fmt.Printf("    Daily budget: %s\n", cli.FormatMoney(s.ManualDailyBudget, s.Currency))
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Daemon.PollInterval)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `lifeline setup` to reconfigure interactively.")
	return nil
}

func runSettingsSet(_ *cobra.Command, _ []string) error {
	var p model.SettingsPatch

	if flagSetCurrency != "" {
		p.Currency = &flagSetCurrency
	}
	if flagSetPayday > 0 {
		p.PaydayOfMonth = &flagSetPayday
	}
	if flagSetMode != "" {
		mode := model.BudgetMode(flagSetMode)
		if mode != model.BudgetAuto && mode != model.BudgetManual {
			return fmt.Errorf("unknown budget mode %q (want auto or manual)", flagSetMode)
		}
		p.BudgetMode = &mode
	}
	if flagSetBudget != "" {
		budget := currency.ParseInput(flagSetBudget)
		p.ManualDailyBudget = &budget
	}
	if flagSetLocale != "" {
		p.Locale = &flagSetLocale
	}

	if p == (model.SettingsPatch{}) {
		return fmt.Errorf("nothing to change; see `lifeline settings set --help`")
	}

	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := coord.UpdateSettings(p); err != nil {
		return err
	}

	fmt.Println("  Settings updated.")
	return nil
}
