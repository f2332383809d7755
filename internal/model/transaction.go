package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tags a transaction or rule as money in or money out.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Signed applies the direction's sign to a positive amount.
func (d Direction) Signed(amount decimal.Decimal) decimal.Decimal {
	if d == Expense {
		return amount.Neg()
	}
	return amount
}

// Source records where a transaction came from.
type Source string

const (
	SourceManual       Source = "manual"
	SourceNotification Source = "notification"
	SourceSMS          Source = "sms"
	SourceImport       Source = "import"
)

// ErrNonPositiveAmount is returned when a transaction amount is zero or negative.
var ErrNonPositiveAmount = errors.New("transaction amount must be positive")

// Transaction is a single recorded income or expense. Immutable once
// created; deletion reverses its balance effect on the owning account.
type Transaction struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal // always positive, sign comes from Direction
	Direction   Direction
	Category    string
	Description string
	Merchant    string
	Source      Source
	RawData     string // original text for imported/parsed entries
	Date        time.Time
	CreatedAt   time.Time
}

// BalanceEffect returns the signed amount this transaction applies to
// its account balance.
func (t Transaction) BalanceEffect() decimal.Decimal {
	return t.Direction.Signed(t.Amount)
}

// Validate checks the amount invariant.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}
