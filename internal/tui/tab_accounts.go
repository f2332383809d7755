package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/tui/components"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

func (a App) renderAccountsTab(cw, _ int) string {
	t := theme.Active
	snap := a.snap
	code := snap.Settings.Currency

	if len(snap.Accounts) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("  no accounts")
	}

	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	typeStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	posStyle := lipgloss.NewStyle().Foreground(t.Green)
	negStyle := lipgloss.NewStyle().Foreground(t.Red)

	var b strings.Builder
	for i, acc := range snap.Accounts {
		balStyle := posStyle
		if acc.Balance.IsNegative() {
			balStyle = negStyle
		}
		line := fmt.Sprintf(" %-20.20s %-8s %14s ",
			acc.Name, acc.Type, cli.FormatMoney(acc.Balance, code))
		if i == a.acctCursor {
			b.WriteString(selStyle.Render("▸" + line))
		} else {
			b.WriteString(" " + nameStyle.Render(fmt.Sprintf("%-20.20s ", acc.Name)) +
				typeStyle.Render(fmt.Sprintf("%-8s ", acc.Type)) +
				balStyle.Render(fmt.Sprintf("%14s ", cli.FormatMoney(acc.Balance, code))))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	totalStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	b.WriteString(totalStyle.Render(fmt.Sprintf("  Total: %s", cli.FormatMoney(snap.TotalBalance, code))))

	return components.ContentCard("Accounts", b.String(), cw)
}
