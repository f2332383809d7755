package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

func TestDaysUntilPayday_BeforePayday(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	got := DaysUntilPayday(15, now)
	// Midnight of the 15th is 4.5 days out, ceil to 5.
	if got != 5 {
		t.Fatalf("DaysUntilPayday = %d, want 5", got)
	}
}

func TestDaysUntilPayday_AfterPaydayCrossesMonth(t *testing.T) {
	// 20th of a 31-day month, payday on the 15th of the next month.
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	got := DaysUntilPayday(15, now)
	if got != 26 {
		t.Fatalf("DaysUntilPayday = %d, want 26", got)
	}
}

func TestDaysUntilPayday_DecemberWrapsToJanuary(t *testing.T) {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	got := DaysUntilPayday(15, now)
	// Dec 20 -> Jan 15 is 26 days, landing in the next year.
	if got != 26 {
		t.Fatalf("DaysUntilPayday = %d, want 26", got)
	}
}

func TestDailyAllowance(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		fixed   int64
		days    int
		want    string
	}{
		{"basic split", 1000, 200, 10, "80"},
		{"negative free balance floors at zero", 500, 600, 5, "0"},
		{"payday today returns free balance unmodified", 500, 600, 0, "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyAllowance(decimal.NewFromInt(tt.balance), decimal.NewFromInt(tt.fixed), tt.days)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("DailyAllowance(%d, %d, %d) = %s, want %s", tt.balance, tt.fixed, tt.days, got, tt.want)
			}
		})
	}
}

func TestSafetyLevel(t *testing.T) {
	avg := decimal.NewFromInt(100)

	if got := SafetyLevel(decimal.NewFromInt(120), avg); got != Safe {
		t.Fatalf("SafetyLevel(120, 100) = %s, want safe", got)
	}
	if got := SafetyLevel(decimal.NewFromInt(90), avg); got != Warning {
		t.Fatalf("SafetyLevel(90, 100) = %s, want warning", got)
	}
	if got := SafetyLevel(decimal.NewFromInt(50), avg); got != Danger {
		t.Fatalf("SafetyLevel(50, 100) = %s, want danger", got)
	}
}

func TestLandingPoint_StopsAtFirstIncome(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	income := Event{RuleID: "pay", Name: "salary", Amount: decimal.NewFromInt(100), Direction: model.Income}

	points := make([]Point, 10)
	for i := range points {
		points[i] = Point{
			Date:    today.AddDate(0, 0, i),
			Balance: decimal.NewFromInt(int64(100 - i*10)),
		}
	}
	points[3].Balance = decimal.NewFromInt(-50) // minimum before the income
	points[5].Events = []Event{income}
	points[7].Balance = decimal.NewFromInt(-500) // lower, but past the boundary

	landing, ok := LandingPoint(points)
	if !ok {
		t.Fatal("LandingPoint returned !ok for a populated forecast")
	}
	if landing.DaysFromNow != 3 {
		t.Fatalf("DaysFromNow = %d, want 3", landing.DaysFromNow)
	}
	if !landing.Balance.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("Balance = %s, want -50", landing.Balance)
	}
}

func TestLandingPoint_NoIncomeScansWholeForecast(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	points := []Point{
		{Date: today, Balance: decimal.NewFromInt(100)},
		{Date: today.AddDate(0, 0, 1), Balance: decimal.NewFromInt(40)},
		{Date: today.AddDate(0, 0, 2), Balance: decimal.NewFromInt(70)},
	}

	landing, ok := LandingPoint(points)
	if !ok {
		t.Fatal("LandingPoint returned !ok")
	}
	if landing.DaysFromNow != 1 {
		t.Fatalf("DaysFromNow = %d, want 1", landing.DaysFromNow)
	}
}

func TestLandingPoint_FirstMinimumWinsTies(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	points := []Point{
		{Date: today, Balance: decimal.NewFromInt(30)},
		{Date: today.AddDate(0, 0, 1), Balance: decimal.NewFromInt(10)},
		{Date: today.AddDate(0, 0, 2), Balance: decimal.NewFromInt(10)},
	}

	landing, _ := LandingPoint(points)
	if landing.DaysFromNow != 1 {
		t.Fatalf("DaysFromNow = %d, want 1 (first occurrence)", landing.DaysFromNow)
	}
}

func TestLandingPoint_IncomeTodayYieldsNoLanding(t *testing.T) {
	points := []Point{{
		Date:    mustDate(t, "2025-04-01"),
		Balance: decimal.NewFromInt(100),
		Events:  []Event{{Direction: model.Income}},
	}}

	if _, ok := LandingPoint(points); ok {
		t.Fatal("LandingPoint returned ok with the boundary at index 0")
	}
}
