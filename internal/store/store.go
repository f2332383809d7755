// Package store provides persistence for accounts, transactions,
// recurring rules, and settings, with interchangeable SQLite and
// file-backed key-value implementations.
package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the single persistence capability set the core depends on.
// Inserting or deleting a transaction atomically adjusts the owning
// account's balance.
type Store interface {
	Accounts() ([]model.Account, error)
	InsertAccount(a model.Account) (string, error)
	UpdateAccount(id string, p model.AccountPatch) error
	DeleteAccount(id string) error

	Transactions() ([]model.Transaction, error)
	TransactionsBetween(start, end time.Time) ([]model.Transaction, error)
	InsertTransaction(t model.Transaction) (string, error)
	DeleteTransaction(id string) error
	ExpenseSumBetween(start, end time.Time) (decimal.Decimal, error)

	Rules() ([]model.RecurringRule, error)
	InsertRule(r model.RecurringRule) (string, error)
	UpdateRule(id string, p model.RulePatch) error
	DeleteRule(id string) error

	Settings() (model.Settings, error)
	UpdateSettings(p model.SettingsPatch) error

	Close() error
}
