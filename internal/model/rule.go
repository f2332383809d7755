package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is a recurrence pattern kind.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
	Custom  Frequency = "custom"
)

// RecurringRule is a periodic income or expense. Exactly one of
// DayOfWeek, DayOfMonth, or IntervalDays is meaningful, selected by
// Frequency. EndDate zero means the rule never expires.
type RecurringRule struct {
	ID             string
	AccountID      string
	Name           string
	Amount         decimal.Decimal
	Direction      Direction
	Frequency      Frequency
	DayOfWeek      int // 0=Sunday..6, weekly only
	DayOfMonth     int // 1-31, monthly only
	IntervalDays   int // >=1, custom only
	StartDate      time.Time
	EndDate        time.Time // zero = open-ended
	AutoConfirm    bool
	NextOccurrence time.Time // advisory cache, recomputed on write
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Normalize clamps frequency parameters into their valid ranges and
// zeroes the parameters the frequency does not use. Matches the UI
// behavior of silently correcting input rather than rejecting it.
func (r *RecurringRule) Normalize() {
	switch r.Frequency {
	case Weekly:
		if r.DayOfWeek < 0 {
			r.DayOfWeek = 0
		}
		if r.DayOfWeek > 6 {
			r.DayOfWeek = 6
		}
		r.DayOfMonth, r.IntervalDays = 0, 0
	case Monthly:
		if r.DayOfMonth < 1 {
			r.DayOfMonth = 1
		}
		if r.DayOfMonth > 31 {
			r.DayOfMonth = 31
		}
		r.DayOfWeek, r.IntervalDays = 0, 0
	case Custom:
		if r.IntervalDays < 1 {
			r.IntervalDays = 1
		}
		r.DayOfWeek, r.DayOfMonth = 0, 0
	default: // daily, yearly carry no extra parameter
		r.DayOfWeek, r.DayOfMonth, r.IntervalDays = 0, 0, 0
	}
}
