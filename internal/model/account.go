// Package model defines domain types for lifeline accounts, transactions,
// recurring rules, and settings.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of supported account kinds.
type AccountType string

const (
	AccountCash   AccountType = "cash"
	AccountBank   AccountType = "bank"
	AccountCredit AccountType = "credit"
	AccountWallet AccountType = "wallet"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCash, AccountBank, AccountCredit, AccountWallet:
		return true
	}
	return false
}

// Account is a user cash/bank/credit/wallet account. Balance is only
// mutated through transaction insert/delete, never edited directly.
type Account struct {
	ID        string
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
