package model

import "github.com/shopspring/decimal"

// BudgetMode selects between the computed daily allowance and a
// user-fixed daily budget.
type BudgetMode string

const (
	BudgetAuto   BudgetMode = "auto"
	BudgetManual BudgetMode = "manual"
)

// Settings is the singleton user configuration, mutated via partial updates.
type Settings struct {
	Locale             string
	Currency           string
	PaydayOfMonth      int // 1-31
	BudgetMode         BudgetMode
	ManualDailyBudget  decimal.Decimal
	EnableNotification bool // ingest payment notifications
	EnableSMSParser    bool // ingest bank SMS
	NotificationApps   []string
}

// DefaultSettings mirrors the first-run defaults.
func DefaultSettings() Settings {
	return Settings{
		Locale:        "en",
		Currency:      "CNY",
		PaydayOfMonth: 15,
		BudgetMode:    BudgetAuto,
	}
}

// Normalize clamps payday into 1-31.
func (s *Settings) Normalize() {
	if s.PaydayOfMonth < 1 {
		s.PaydayOfMonth = 1
	}
	if s.PaydayOfMonth > 31 {
		s.PaydayOfMonth = 31
	}
}
