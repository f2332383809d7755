package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

func expenseOn(t *testing.T, date string, amount int64) model.Transaction {
	t.Helper()
	return model.Transaction{
		Amount:    decimal.NewFromInt(amount),
		Direction: model.Expense,
		Date:      mustDate(t, date),
	}
}

func TestDailyAverage_DividesByWindowNotActiveDays(t *testing.T) {
	now := mustDate(t, "2025-05-30")
	txs := []model.Transaction{
		expenseOn(t, "2025-05-10", 150),
		expenseOn(t, "2025-05-20", 150),
	}

	got := DailyAverage(txs, 30, now)
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("DailyAverage = %s, want 10 (300 over 30 days)", got)
	}
}

func TestDailyAverage_IgnoresIncomeAndOutOfWindow(t *testing.T) {
	now := mustDate(t, "2025-05-30")
	txs := []model.Transaction{
		expenseOn(t, "2025-05-15", 60),
		expenseOn(t, "2025-03-01", 900), // outside the window
		{
			Amount:    decimal.NewFromInt(5000),
			Direction: model.Income,
			Date:      mustDate(t, "2025-05-15"),
		},
	}

	got := DailyAverage(txs, 30, now)
	if !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("DailyAverage = %s, want 2", got)
	}
}

func TestDailyAverage_WindowBoundsInclusive(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{Amount: decimal.NewFromInt(30), Direction: model.Expense, Date: now},                    // right edge
		{Amount: decimal.NewFromInt(30), Direction: model.Expense, Date: now.AddDate(0, 0, -30)}, // left edge
	}

	got := DailyAverage(txs, 30, now)
	if !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("DailyAverage = %s, want 2 (both edges included)", got)
	}
}

func TestDailyAverage_NoQualifyingTransactions(t *testing.T) {
	got := DailyAverage(nil, 30, mustDate(t, "2025-05-30"))
	if !got.IsZero() {
		t.Fatalf("DailyAverage = %s, want 0", got)
	}
}
