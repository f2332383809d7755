// Package forecast implements the projection core: recurrence matching,
// the day-by-day balance simulator, and the safety metrics derived from it.
// Everything here is pure; callers supply the clock.
package forecast

import (
	"time"

	"github.com/theirongolddev/lifeline/internal/model"
)

// DateOnly truncates t to its calendar day at UTC midnight. All
// recurrence arithmetic runs on these normalized dates so day diffs
// are exact regardless of time zone or DST.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// OccursOn reports whether the rule fires on the given calendar date.
// This is the authoritative match used by the simulator.
//
// Monthly rules match on the exact configured day-of-month with no
// clamping: a rule for the 31st never fires in a 30-day month. Only
// NextOccurrence clamps. The asymmetry is deliberate and covered by
// regression tests.
func OccursOn(r model.RecurringRule, date time.Time) bool {
	target := DateOnly(date)
	start := DateOnly(r.StartDate)

	if target.Before(start) {
		return false
	}
	if !r.EndDate.IsZero() && target.After(DateOnly(r.EndDate)) {
		return false
	}

	switch r.Frequency {
	case model.Daily:
		return true
	case model.Weekly:
		return int(target.Weekday()) == r.DayOfWeek
	case model.Monthly:
		return target.Day() == r.DayOfMonth
	case model.Yearly:
		return target.Month() == start.Month() && target.Day() == start.Day()
	case model.Custom:
		interval := r.IntervalDays
		if interval < 1 {
			interval = 1
		}
		days := int(target.Sub(start) / (24 * time.Hour))
		return days%interval == 0
	}
	return false
}

// NextOccurrence returns the next date strictly after from on which the
// rule's pattern lands. The result is advisory (cached on the rule for
// display); the simulator always re-derives firing days via OccursOn.
func NextOccurrence(r model.RecurringRule, from time.Time) time.Time {
	next := DateOnly(from)

	switch r.Frequency {
	case model.Weekly:
		daysUntil := (r.DayOfWeek - int(next.Weekday()) + 7) % 7
		if daysUntil == 0 {
			daysUntil = 7
		}
		return next.AddDate(0, 0, daysUntil)
	case model.Monthly:
		year, month, _ := next.Date()
		// first day of the following month, then clamp the target day
		first := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		day := r.DayOfMonth
		if day < 1 {
			day = 1
		}
		if last := daysInMonth(first.Year(), first.Month()); day > last {
			day = last
		}
		return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
	case model.Yearly:
		return next.AddDate(1, 0, 0)
	case model.Custom:
		interval := r.IntervalDays
		if interval < 1 {
			interval = 1
		}
		return next.AddDate(0, 0, interval)
	default: // daily
		return next.AddDate(0, 0, 1)
	}
}
