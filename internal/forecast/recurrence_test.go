package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func weeklyRule(t *testing.T, dayOfWeek int, start string) model.RecurringRule {
	t.Helper()
	return model.RecurringRule{
		ID:        "r-weekly",
		Name:      "gym",
		Amount:    decimal.NewFromInt(50),
		Direction: model.Expense,
		Frequency: model.Weekly,
		DayOfWeek: dayOfWeek,
		StartDate: mustDate(t, start),
	}
}

func TestOccursOn_Weekly(t *testing.T) {
	// 2025-01-06 is a Monday
	r := weeklyRule(t, 1, "2025-01-01")

	for offset := 0; offset < 28; offset++ {
		day := mustDate(t, "2025-01-01").AddDate(0, 0, offset)
		want := int(day.Weekday()) == 1
		if got := OccursOn(r, day); got != want {
			t.Fatalf("OccursOn(%s) = %v, want %v", day.Format("2006-01-02"), got, want)
		}
	}
}

func TestOccursOn_OutsideWindow(t *testing.T) {
	r := weeklyRule(t, 1, "2025-01-06")
	r.EndDate = mustDate(t, "2025-01-20")

	if OccursOn(r, mustDate(t, "2024-12-30")) {
		t.Fatal("rule fired before its start date")
	}
	if !OccursOn(r, mustDate(t, "2025-01-20")) {
		t.Fatal("rule did not fire on its end date (inclusive)")
	}
	if OccursOn(r, mustDate(t, "2025-01-27")) {
		t.Fatal("rule fired after its end date")
	}
}

func TestOccursOn_MonthlyDay31SkipsShortMonths(t *testing.T) {
	r := model.RecurringRule{
		Frequency:  model.Monthly,
		DayOfMonth: 31,
		StartDate:  mustDate(t, "2024-12-31"),
	}

	// No clamping at match time: every day of February misses.
	for day := mustDate(t, "2025-02-01"); day.Month() == time.February; day = day.AddDate(0, 0, 1) {
		if OccursOn(r, day) {
			t.Fatalf("day-31 rule fired on %s", day.Format("2006-01-02"))
		}
	}

	if !OccursOn(r, mustDate(t, "2025-01-31")) {
		t.Fatal("day-31 rule did not fire on Jan 31")
	}
	if !OccursOn(r, mustDate(t, "2025-03-31")) {
		t.Fatal("day-31 rule did not fire on Mar 31")
	}
}

func TestOccursOn_Yearly(t *testing.T) {
	r := model.RecurringRule{
		Frequency: model.Yearly,
		StartDate: mustDate(t, "2023-06-15"),
	}

	if !OccursOn(r, mustDate(t, "2025-06-15")) {
		t.Fatal("yearly rule did not fire on its anniversary")
	}
	if OccursOn(r, mustDate(t, "2025-06-14")) {
		t.Fatal("yearly rule fired a day early")
	}
	if OccursOn(r, mustDate(t, "2025-07-15")) {
		t.Fatal("yearly rule fired in the wrong month")
	}
}

func TestOccursOn_CustomInterval(t *testing.T) {
	r := model.RecurringRule{
		Frequency:    model.Custom,
		IntervalDays: 14,
		StartDate:    mustDate(t, "2025-01-01"),
	}

	if !OccursOn(r, mustDate(t, "2025-01-01")) {
		t.Fatal("custom rule did not fire on its start date")
	}
	if !OccursOn(r, mustDate(t, "2025-01-15")) {
		t.Fatal("custom rule did not fire 14 days after start")
	}
	if OccursOn(r, mustDate(t, "2025-01-08")) {
		t.Fatal("custom rule fired off-cycle")
	}
}

func TestOccursOn_IgnoresTimeOfDay(t *testing.T) {
	r := model.RecurringRule{
		Frequency: model.Daily,
		StartDate: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
	}

	target := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
	if !OccursOn(r, target) {
		t.Fatal("daily rule did not fire on its start day at an earlier clock time")
	}
}

func TestNextOccurrence_MonthlyClampsToShortMonth(t *testing.T) {
	r := model.RecurringRule{
		Frequency:  model.Monthly,
		DayOfMonth: 31,
		StartDate:  mustDate(t, "2025-01-31"),
	}

	next := NextOccurrence(r, mustDate(t, "2025-01-31"))
	want := mustDate(t, "2025-02-28")
	if !next.Equal(want) {
		t.Fatalf("NextOccurrence = %s, want %s", next.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestNextOccurrence_WeeklySameDayAdvancesFullWeek(t *testing.T) {
	r := weeklyRule(t, 1, "2025-01-01")

	// 2025-01-06 is a Monday; the next Monday is a week out, not today.
	next := NextOccurrence(r, mustDate(t, "2025-01-06"))
	want := mustDate(t, "2025-01-13")
	if !next.Equal(want) {
		t.Fatalf("NextOccurrence = %s, want %s", next.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestNextOccurrence_YearlyAndCustom(t *testing.T) {
	yearly := model.RecurringRule{Frequency: model.Yearly, StartDate: mustDate(t, "2024-05-01")}
	if got := NextOccurrence(yearly, mustDate(t, "2025-05-01")); !got.Equal(mustDate(t, "2026-05-01")) {
		t.Fatalf("yearly NextOccurrence = %s, want 2026-05-01", got.Format("2006-01-02"))
	}

	custom := model.RecurringRule{Frequency: model.Custom, IntervalDays: 10, StartDate: mustDate(t, "2025-01-01")}
	if got := NextOccurrence(custom, mustDate(t, "2025-01-01")); !got.Equal(mustDate(t, "2025-01-11")) {
		t.Fatalf("custom NextOccurrence = %s, want 2025-01-11", got.Format("2006-01-02"))
	}
}
