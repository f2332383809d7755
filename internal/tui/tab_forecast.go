package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/tui/components"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	snap := a.snap
	code := snap.Settings.Currency
	var b strings.Builder

	if len(snap.Forecast) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("  no forecast available")
	}

	vals := make([]float64, len(snap.Forecast))
	labels := make([]string, len(snap.Forecast))
	for i, p := range snap.Forecast {
		vals[i], _ = p.Balance.Float64()
		labels[i] = p.Date.Format("01/02")
	}

	chartInnerW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Balance Forecast (%d days)", len(snap.Forecast)-1),
		components.BalanceChart(vals, labels, chartInnerW, 12),
		cw,
	))
	b.WriteString("\n")

	// End-of-horizon summary plus every scheduled event.
	last := snap.Forecast[len(snap.Forecast)-1]
	endStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	summary := labelStyle.Render("Projected balance on "+cli.FormatDate(last.Date)+": ") +
		endStyle.Render(cli.FormatMoney(last.Balance, code))
	if snap.DailyExpenseAverage.IsPositive() {
		summary += "\n" + labelStyle.Render(
			"Assumes "+cli.FormatMoney(snap.DailyExpenseAverage, code)+"/day from your recent spending")
	}

	halves := components.LayoutRow(cw, 2)
	summaryCard := components.ContentCard("Projection", summary, halves[0])
	eventsCard := components.ContentCard("Scheduled", a.upcomingEvents(8), halves[1])
	b.WriteString(components.CardRow([]string{summaryCard, eventsCard}))

	return b.String()
}
