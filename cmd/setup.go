package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/config"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to lifeline!")
	fmt.Println()

	// 1. Currency
	fmt.Println("  1. Currency")
	for i, c := range currency.Supported {
		fmt.Printf("     (%d) %s %s %s\n", i+1, c.Code, c.Symbol, c.Name)
	}
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	code := ""
	if n, err := strconv.Atoi(strings.TrimSpace(choice)); err == nil && n >= 1 && n <= len(currency.Supported) {
		code = currency.Supported[n-1].Code
	}
	fmt.Println()

	// 2. Payday
	fmt.Println("  2. Payday (day of month, 1-31) [15]")
	fmt.Print("     > ")
	paydayIn, _ := reader.ReadString('\n')
	payday := 0
	if n, err := strconv.Atoi(strings.TrimSpace(paydayIn)); err == nil && n >= 1 && n <= 31 {
		payday = n
	}
	fmt.Println()

	// 3. Storage backend
	fmt.Println("  3. Storage backend")
	fmt.Println("     (1) SQLite [default]")
	fmt.Println("     (2) Key-value file (msgpack)")
	fmt.Print("     > ")
	backendChoice, _ := reader.ReadString('\n')
	if strings.TrimSpace(backendChoice) == "2" {
		cfg.General.Backend = "kv"
	} else {
		cfg.General.Backend = "sqlite"
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Flexoki Light")
	fmt.Println("     (3) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "flexoki-light"
	case "3":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Push budget preferences into the store (the backend choice above
	// must be saved first so we open the right one).
	var p model.SettingsPatch
	if code != "" {
		p.Currency = &code
	}
	if payday > 0 {
		p.PaydayOfMonth = &payday
	}
	if p != (model.SettingsPatch{}) {
		coord, closeStore, err := openCoordinator()
		if err != nil {
			return err
		}
		defer closeStore()
		if err := coord.UpdateSettings(p); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `lifeline setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
