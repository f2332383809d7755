package forecast

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

func TestGenerate_NoRulesErodesByAverage(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	balance := decimal.NewFromInt(1000)
	avg := decimal.RequireFromString("12.5")

	points := Generate(balance, nil, avg, 10, today)

	if len(points) != 11 {
		t.Fatalf("len(points) = %d, want 11", len(points))
	}
	if !points[0].Balance.Equal(balance) {
		t.Fatalf("day 0 balance = %s, want %s", points[0].Balance, balance)
	}
	if !points[0].IsToday {
		t.Fatal("day 0 not marked as today")
	}

	for i := 1; i < len(points); i++ {
		want := balance.Sub(avg.Mul(decimal.NewFromInt(int64(i))))
		if !points[i].Balance.Equal(want) {
			t.Fatalf("day %d balance = %s, want %s", i, points[i].Balance, want)
		}
		if points[i].IsToday {
			t.Fatalf("day %d marked as today", i)
		}
	}
}

func TestGenerate_RuleEventsAdjustBalance(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	rules := []model.RecurringRule{
		{
			ID:         "salary",
			Name:       "salary",
			Amount:     decimal.NewFromInt(5000),
			Direction:  model.Income,
			Frequency:  model.Monthly,
			DayOfMonth: 5,
			StartDate:  mustDate(t, "2025-01-05"),
		},
		{
			ID:         "rent",
			Name:       "rent",
			Amount:     decimal.NewFromInt(1500),
			Direction:  model.Expense,
			Frequency:  model.Monthly,
			DayOfMonth: 5,
			StartDate:  mustDate(t, "2025-01-05"),
		},
	}

	points := Generate(decimal.NewFromInt(100), rules, decimal.Zero, 7, today)

	day5 := points[4] // 2025-04-05 is offset 4
	if len(day5.Events) != 2 {
		t.Fatalf("events on the 5th = %d, want 2", len(day5.Events))
	}
	// Events keep input order
	if day5.Events[0].RuleID != "salary" || day5.Events[1].RuleID != "rent" {
		t.Fatalf("event order = [%s, %s], want [salary, rent]", day5.Events[0].RuleID, day5.Events[1].RuleID)
	}
	want := decimal.NewFromInt(100 + 5000 - 1500)
	if !day5.Balance.Equal(want) {
		t.Fatalf("balance on the 5th = %s, want %s", day5.Balance, want)
	}
}

func TestGenerate_BalancesRoundedToCents(t *testing.T) {
	avg := decimal.RequireFromString("0.333")
	points := Generate(decimal.NewFromInt(10), nil, avg, 3, mustDate(t, "2025-04-01"))

	for i, p := range points {
		if p.Balance.Exponent() < -2 {
			t.Fatalf("day %d balance %s carries more than 2 decimal places", i, p.Balance)
		}
	}
	// 10 - 0.333 = 9.667, rounds half away from zero to 9.67
	if got := points[1].Balance; !got.Equal(decimal.RequireFromString("9.67")) {
		t.Fatalf("day 1 balance = %s, want 9.67", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	today := mustDate(t, "2025-04-01")
	rules := []model.RecurringRule{{
		ID:        "daily",
		Name:      "coffee",
		Amount:    decimal.RequireFromString("4.50"),
		Direction: model.Expense,
		Frequency: model.Daily,
		StartDate: mustDate(t, "2025-01-01"),
	}}

	a := Generate(decimal.NewFromInt(500), rules, decimal.NewFromInt(20), 30, today)
	b := Generate(decimal.NewFromInt(500), rules, decimal.NewFromInt(20), 30, today)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Balance.Equal(b[i].Balance) || !a[i].Date.Equal(b[i].Date) || len(a[i].Events) != len(b[i].Events) {
			t.Fatalf("point %d differs between identical runs", i)
		}
	}
}

func TestGenerate_ZeroHorizon(t *testing.T) {
	points := Generate(decimal.NewFromInt(42), nil, decimal.NewFromInt(5), 0, mustDate(t, "2025-04-01"))
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if !points[0].Balance.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("day 0 balance = %s, want 42", points[0].Balance)
	}
}
