package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// DefaultWindowDays is the standard trailing-average window.
const DefaultWindowDays = 30

// DailyAverage sums expense transactions dated within [now-windowDays,
// now] and divides by the window length, not by the count of active
// days: zero-expense days deliberately dilute the average. Returns zero
// when nothing qualifies.
func DailyAverage(txs []model.Transaction, windowDays int, now time.Time) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}

	start := now.AddDate(0, 0, -windowDays)
	total := decimal.Zero
	for _, t := range txs {
		if t.Direction != model.Expense {
			continue
		}
		if t.Date.Before(start) || t.Date.After(now) {
			continue
		}
		total = total.Add(t.Amount)
	}

	if total.IsZero() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(windowDays)))
}
