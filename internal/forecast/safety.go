package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// Level classifies how comfortably the daily allowance covers typical spend.
type Level string

const (
	Safe    Level = "safe"
	Warning Level = "warning"
	Danger  Level = "danger"
)

var (
	safeRatio = decimal.RequireFromString("1.2")
	warnRatio = decimal.RequireFromString("0.8")
)

// DaysUntilPayday returns the whole days from now until the next payday
// of the month, crossing month and year boundaries as needed. Always >= 1.
func DaysUntilPayday(paydayOfMonth int, now time.Time) int {
	year, month, day := now.Date()

	var next time.Time
	if day < paydayOfMonth {
		next = time.Date(year, month, paydayOfMonth, 0, 0, 0, 0, now.Location())
	} else {
		// time.Date normalizes month 13 into January of next year
		next = time.Date(year, month+1, paydayOfMonth, 0, 0, 0, 0, now.Location())
	}

	return int(math.Ceil(next.Sub(now).Hours() / 24))
}

// DailyAllowance is the discretionary amount safely spendable per day:
// (balance - fixed obligations) spread over the days until payday,
// floored at zero. With payday today or overdue the free balance is
// returned as-is.
func DailyAllowance(balance, fixedExpenses decimal.Decimal, daysUntilPayday int) decimal.Decimal {
	free := balance.Sub(fixedExpenses)
	if daysUntilPayday <= 0 {
		return free
	}
	allowance := free.Div(decimal.NewFromInt(int64(daysUntilPayday)))
	if allowance.IsNegative() {
		return decimal.Zero
	}
	return allowance
}

// SafetyLevel classifies the allowance against the trailing daily
// expense average. The caller must pass a non-zero average; the
// coordinator substitutes a floor of 100 currency units beforehand.
func SafetyLevel(dailyAllowance, averageDailyExpense decimal.Decimal) Level {
	ratio := dailyAllowance.Div(averageDailyExpense)
	switch {
	case ratio.GreaterThanOrEqual(safeRatio):
		return Safe
	case ratio.GreaterThanOrEqual(warnRatio):
		return Warning
	default:
		return Danger
	}
}

// Landing is the lowest projected balance before the next income event.
type Landing struct {
	Date        time.Time
	Balance     decimal.Decimal
	DaysFromNow int
}

// LandingPoint scans the forecast strictly before the first point with
// an income event (or the whole forecast when none fires) and returns
// the minimum-balance point, first occurrence winning ties. ok is false
// when no point precedes the boundary.
func LandingPoint(points []Point) (Landing, bool) {
	boundary := len(points)
	for i, p := range points {
		if hasIncomeEvent(p) {
			boundary = i
			break
		}
	}

	found := false
	var landing Landing
	for i := 0; i < boundary; i++ {
		if !found || points[i].Balance.LessThan(landing.Balance) {
			landing = Landing{
				Date:        points[i].Date,
				Balance:     points[i].Balance,
				DaysFromNow: i,
			}
			found = true
		}
	}
	return landing, found
}

func hasIncomeEvent(p Point) bool {
	for _, e := range p.Events {
		if e.Direction == model.Income {
			return true
		}
	}
	return false
}
