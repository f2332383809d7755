package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/lifeline/internal/config"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

// setupValues collects first-run choices from the huh form.
type setupValues struct {
	currency string
	payday   string
	backend  string
	theme    string
}

func defaultSetupValues(s model.Settings) setupValues {
	return setupValues{
		currency: s.Currency,
		payday:   strconv.Itoa(s.PaydayOfMonth),
		backend:  "sqlite",
		theme:    theme.Active.Name,
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	currencyOpts := make([]huh.Option[string], len(currency.Supported))
	for i, c := range currency.Supported {
		currencyOpts[i] = huh.NewOption(fmt.Sprintf("%s %s (%s)", c.Code, c.Symbol, c.Name), c.Code)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to lifeline!").
				Description("A couple of questions and you're set."),
			huh.NewSelect[string]().
				Title("Currency").
				Options(currencyOpts...).
				Value(&vals.currency),
			huh.NewInput().
				Title("Payday (day of month, 1-31)").
				Validate(validatePayday).
				Value(&vals.payday),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("sqlite (recommended)", "sqlite"),
					huh.NewOption("kv (single file)", "kv"),
				).
				Value(&vals.backend),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	)
}

func validatePayday(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < 1 || n > 31 {
		return fmt.Errorf("must be between 1 and 31")
	}
	return nil
}

// saveSetupConfig persists the wizard's answers to both the config
// file and the stored settings.
func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()
	cfg.General.Backend = a.setupVals.backend
	cfg.Appearance.Theme = a.setupVals.theme
	theme.SetActive(a.setupVals.theme)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	payday, err := strconv.Atoi(a.setupVals.payday)
	if err != nil {
		payday = a.snap.Settings.PaydayOfMonth
	}
	patch := model.SettingsPatch{
		Currency:      &a.setupVals.currency,
		PaydayOfMonth: &payday,
	}
	if err := a.coord.UpdateSettings(patch); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
