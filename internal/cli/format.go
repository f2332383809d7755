// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/forecast"
)

// FormatMoney renders an amount with its currency symbol and separators.
func FormatMoney(amount decimal.Decimal, currencyCode string) string {
	return currency.Format(amount, currencyCode)
}

// FormatCompact formats a money amount with human-readable suffixes for
// chart axes. e.g., 12345 -> "12.3K", 1234567 -> "1.2M"
func FormatCompact(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	abs := f
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	default:
		return amount.Round(0).String()
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDays renders a day count for countdowns.
// e.g., 0 -> "today", 1 -> "tomorrow", 12 -> "12 days"
func FormatDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// FormatDate renders a date for list output.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatSafety renders a colored safety level label.
func FormatSafety(level forecast.Level) string {
	switch level {
	case forecast.Safe:
		return costStyle.Render("● safe")
	case forecast.Warning:
		return warnStyle.Render("● warning")
	default:
		return dangerStyle.Render("● danger")
	}
}

// FormatDelta formats a signed money change.
func FormatDelta(d decimal.Decimal, currencyCode string) string {
	if d.IsNegative() {
		return FormatMoney(d, currencyCode)
	}
	return "+" + FormatMoney(d, currencyCode)
}
