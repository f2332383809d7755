package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/tui/components"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

func (a App) renderHistoryTab(cw, contentH int) string {
	t := theme.Active
	snap := a.snap
	code := snap.Settings.Currency

	if len(snap.Transactions) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("  no transactions yet")
	}

	// Most recent first.
	txs := make([]model.Transaction, len(snap.Transactions))
	copy(txs, snap.Transactions)
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})

	visible := contentH - 4 // card border + title
	if visible < 3 {
		visible = 3
	}
	cursor := clamp(a.histCursor, 0, len(txs)-1)
	offset := a.histOffset
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	end := offset + visible
	if end > len(txs) {
		end = len(txs)
	}

	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	srcStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	inStyle := lipgloss.NewStyle().Foreground(t.Green)
	outStyle := lipgloss.NewStyle().Foreground(t.Orange)

	var b strings.Builder
	for i := offset; i < end; i++ {
		tx := txs[i]
		desc := tx.Merchant
		if desc == "" {
			desc = tx.Description
		}
		if desc == "" {
			desc = tx.Category
		}

		amtStyle := outStyle
		sign := "-"
		if tx.Direction == model.Income {
			amtStyle = inStyle
			sign = "+"
		}
		amount := sign + cli.FormatMoney(tx.Amount, code)

		if i == cursor {
			line := fmt.Sprintf("▸ %s %-24.24s %12s %s",
				cli.FormatDate(tx.Date), desc, amount, tx.Source)
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(dateStyle.Render(cli.FormatDate(tx.Date)))
			b.WriteString(" ")
			b.WriteString(descStyle.Render(fmt.Sprintf("%-24.24s", desc)))
			b.WriteString(" ")
			b.WriteString(amtStyle.Render(fmt.Sprintf("%12s", amount)))
			b.WriteString(" ")
			b.WriteString(srcStyle.Render(string(tx.Source)))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("History (%d of %d)", cursor+1, len(txs))
	return components.ContentCard(title, b.String(), cw)
}
