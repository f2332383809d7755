package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patches replace dynamic partial-update maps with explicit optional
// fields. A nil field leaves the target value untouched.

// AccountPatch is a partial account update.
type AccountPatch struct {
	Name     *string
	Type     *AccountType
	Balance  *decimal.Decimal // explicit correction only
	Currency *string
}

// Apply merges the patch into a, field by field.
func (p AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	a.UpdatedAt = time.Now()
}

// RulePatch is a partial recurring-rule update.
type RulePatch struct {
	Name         *string
	Amount       *decimal.Decimal
	Direction    *Direction
	Frequency    *Frequency
	DayOfWeek    *int
	DayOfMonth   *int
	IntervalDays *int
	StartDate    *time.Time
	EndDate      *time.Time // pointer to zero time clears the end date
	AutoConfirm  *bool
}

// Apply merges the patch into r and re-normalizes the parameters.
func (p RulePatch) Apply(r *RecurringRule) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Direction != nil {
		r.Direction = *p.Direction
	}
	if p.Frequency != nil {
		r.Frequency = *p.Frequency
	}
	if p.DayOfWeek != nil {
		r.DayOfWeek = *p.DayOfWeek
	}
	if p.DayOfMonth != nil {
		r.DayOfMonth = *p.DayOfMonth
	}
	if p.IntervalDays != nil {
		r.IntervalDays = *p.IntervalDays
	}
	if p.StartDate != nil {
		r.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		r.EndDate = *p.EndDate
	}
	if p.AutoConfirm != nil {
		r.AutoConfirm = *p.AutoConfirm
	}
	r.Normalize()
	r.UpdatedAt = time.Now()
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Locale             *string
	Currency           *string
	PaydayOfMonth      *int
	BudgetMode         *BudgetMode
	ManualDailyBudget  *decimal.Decimal
	EnableNotification *bool
	EnableSMSParser    *bool
	NotificationApps   *[]string
}

// Apply merges the patch into s and clamps payday.
func (p SettingsPatch) Apply(s *Settings) {
	if p.Locale != nil {
		s.Locale = *p.Locale
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.PaydayOfMonth != nil {
		s.PaydayOfMonth = *p.PaydayOfMonth
	}
	if p.BudgetMode != nil {
		s.BudgetMode = *p.BudgetMode
	}
	if p.ManualDailyBudget != nil {
		s.ManualDailyBudget = *p.ManualDailyBudget
	}
	if p.EnableNotification != nil {
		s.EnableNotification = *p.EnableNotification
	}
	if p.EnableSMSParser != nil {
		s.EnableSMSParser = *p.EnableSMSParser
	}
	if p.NotificationApps != nil {
		s.NotificationApps = *p.NotificationApps
	}
	s.Normalize()
}
