package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/forecast"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/tui/components"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	snap := a.snap
	code := snap.Settings.Currency
	var b strings.Builder

	// Row 1: Metric cards
	safetySub := "vs daily average " + cli.FormatMoney(snap.DailyExpenseAverage, code)
	cards := []struct{ Label, Value, Sub string }{
		{"Total Balance", cli.FormatMoney(snap.TotalBalance, code), fmt.Sprintf("%d accounts", len(snap.Accounts))},
		{"Daily Allowance", cli.FormatMoney(snap.DailyAllowance, code), safetySub},
		{"Payday", cli.FormatDays(snap.DaysUntilPayday), fmt.Sprintf("day %d of month", snap.Settings.PaydayOfMonth)},
		{"Safety", string(snap.SafetyLevel), ""},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Forecast sparkline
	if len(snap.Forecast) > 0 {
		vals := make([]float64, len(snap.Forecast))
		for i, p := range snap.Forecast {
			vals[i], _ = p.Balance.Float64()
		}
		color := t.Accent
		if snap.SafetyLevel == forecast.Danger {
			color = t.Red
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Next %d Days", len(snap.Forecast)-1),
			components.Sparkline(vals, color),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Landing point + upcoming events
	halves := components.LayoutRow(cw, 2)

	var landingBody string
	if snap.Landing != nil {
		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
		dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		landingBody = style.Render(cli.FormatMoney(snap.Landing.Balance, code)) + "\n" +
			dateStyle.Render(fmt.Sprintf("%s (%s)",
				cli.FormatDate(snap.Landing.Date),
				cli.FormatDays(snap.Landing.DaysFromNow)))
	} else {
		landingBody = lipgloss.NewStyle().Foreground(t.TextDim).
			Render("no income events on the horizon")
	}
	landingCard := components.ContentCard("Lowest Before Income", landingBody, halves[0])

	eventsCard := components.ContentCard("Upcoming", a.upcomingEvents(5), halves[1])
	b.WriteString(components.CardRow([]string{landingCard, eventsCard}))

	return b.String()
}

// upcomingEvents lists the next rule firings from the forecast.
func (a App) upcomingEvents(limit int) string {
	t := theme.Active
	code := a.snap.Settings.Currency

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	inStyle := lipgloss.NewStyle().Foreground(t.Green)
	outStyle := lipgloss.NewStyle().Foreground(t.Orange)

	var b strings.Builder
	count := 0
	for _, p := range a.snap.Forecast {
		for _, ev := range p.Events {
			if count >= limit {
				return b.String()
			}
			amount := cli.FormatMoney(ev.Amount, code)
			style := outStyle
			sign := "-"
			if ev.Direction == model.Income {
				style = inStyle
				sign = "+"
			}
			fmt.Fprintf(&b, "%s %s %s\n",
				dateStyle.Render(p.Date.Format("Jan 02")),
				nameStyle.Render(fmt.Sprintf("%-14.14s", ev.Name)),
				style.Render(sign+amount))
			count++
		}
	}
	if count == 0 {
		return dateStyle.Render("no recurring rules")
	}
	return b.String()
}
