// Package tui provides the interactive Bubble Tea dashboard for lifeline.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lifeline/internal/app"
	"github.com/theirongolddev/lifeline/internal/config"
	"github.com/theirongolddev/lifeline/internal/tui/components"
	"github.com/theirongolddev/lifeline/internal/tui/theme"
)

// refreshDoneMsg is sent when a background snapshot refresh completes.
type refreshDoneMsg struct {
	err error
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshCmd(coord *app.Coordinator) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: coord.Refresh()}
	}
}

// App is the root Bubble Tea model.
type App struct {
	coord *app.Coordinator
	snap  app.Snapshot

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Refresh state
	refreshing  bool
	lastRefresh time.Time
	lastErr     error
	spin        spinner.Model

	// Per-tab cursors
	acctCursor int
	histCursor int
	histOffset int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	refreshInterval  = 30 * time.Second

	minContentHeight = 5
)

// NewApp creates a new TUI app model around a loaded coordinator.
func NewApp(coord *app.Coordinator) App {
	a := App{
		coord:       coord,
		snap:        coord.Snapshot(),
		lastRefresh: time.Now(),
		needSetup:   !config.Exists(),
	}
	a.spin = spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Active.Accent)),
	)
	if a.needSetup {
		a.setupVals = defaultSetupValues(a.snap.Settings)
		a.setupForm = newSetupForm(&a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.needSetup && a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, tea.Batch(refreshCmd(a.coord), a.spin.Tick)
			}
			return a, nil
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "j", "down":
			a.moveCursor(1)
			return a, nil
		case "k", "up":
			a.moveCursor(-1)
			return a, nil
		case "g":
			a.setCursor(0)
			return a, nil
		case "G":
			a.setCursor(1 << 30)
			return a, nil
		}

		if idx := components.TabIdxByKey(firstRune(key)); idx >= 0 {
			a.activeTab = idx
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if !a.refreshing && time.Since(a.lastRefresh) >= refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshCmd(a.coord), a.spin.Tick)
		}
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !a.refreshing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case refreshDoneMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.lastErr = msg.err
		if msg.err == nil {
			a.snap = a.coord.Snapshot()
			a.clampCursors()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case 2:
		a.acctCursor = clamp(a.acctCursor+delta, 0, len(a.snap.Accounts)-1)
	case 3:
		a.histCursor = clamp(a.histCursor+delta, 0, len(a.snap.Transactions)-1)
	}
}

func (a *App) setCursor(pos int) {
	switch a.activeTab {
	case 2:
		a.acctCursor = clamp(pos, 0, len(a.snap.Accounts)-1)
	case 3:
		a.histCursor = clamp(pos, 0, len(a.snap.Transactions)-1)
	}
}

func (a *App) clampCursors() {
	a.acctCursor = clamp(a.acctCursor, 0, len(a.snap.Accounts)-1)
	a.histCursor = clamp(a.histCursor, 0, len(a.snap.Transactions)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetupConfig(); err != nil {
			a.lastErr = err
		}
		a.snap = a.coord.Snapshot()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	return fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  lifeline needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
}

func (a App) viewHelp() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"o f a h", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
		{"g G", "First / Last entry"},
		{"r", "Refresh now"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	ago := time.Since(a.lastRefresh).Round(time.Second)
	status := fmt.Sprintf("%s ago", ago)
	if a.refreshing {
		status = a.spin.View() + " refreshing"
	}
	if a.lastErr != nil {
		status = "refresh failed"
	}
	statusBar := components.RenderStatusBar(w, status)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderForecastTab(cw)
	case 2:
		content = a.renderAccountsTab(cw, contentH)
	case 3:
		content = a.renderHistoryTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func truncateHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}

func padHeight(s string, minLines int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= minLines {
		return s
	}
	return s + strings.Repeat("\n", minLines-lines)
}
