package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// Both backends must behave identically through the Store interface, so
// every test runs against each of them.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "lifeline.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })

	kv, err := OpenKV(filepath.Join(dir, "lifeline.msgpack"))
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	return map[string]Store{"sqlite": sq, "kv": kv}
}

func insertAccount(t *testing.T, s Store, name string, balance int64) string {
	t.Helper()
	id, err := s.InsertAccount(model.Account{
		Name:     name,
		Type:     model.AccountBank,
		Balance:  decimal.NewFromInt(balance),
		Currency: "CNY",
	})
	if err != nil {
		t.Fatalf("InsertAccount: %v", err)
	}
	return id
}

func accountBalance(t *testing.T, s Store, id string) decimal.Decimal {
	t.Helper()
	accounts, err := s.Accounts()
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	for _, a := range accounts {
		if a.ID == id {
			return a.Balance
		}
	}
	t.Fatalf("account %s not found", id)
	return decimal.Zero
}

func TestSeedsDefaults(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			accounts, err := s.Accounts()
			if err != nil {
				t.Fatalf("Accounts: %v", err)
			}
			if len(accounts) != 1 || accounts[0].Type != model.AccountCash {
				t.Fatalf("seeded accounts = %+v, want one cash account", accounts)
			}

			set, err := s.Settings()
			if err != nil {
				t.Fatalf("Settings: %v", err)
			}
			if set.PaydayOfMonth != 15 {
				t.Fatalf("seeded payday = %d, want 15", set.PaydayOfMonth)
			}
		})
	}
}

func TestInsertTransactionAdjustsBalance(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := insertAccount(t, s, "checking", 1000)

			_, err := s.InsertTransaction(model.Transaction{
				AccountID: id,
				Amount:    decimal.RequireFromString("49.99"),
				Direction: model.Expense,
				Category:  "food",
				Source:    model.SourceManual,
				Date:      time.Now(),
			})
			if err != nil {
				t.Fatalf("InsertTransaction: %v", err)
			}

			if got := accountBalance(t, s, id); !got.Equal(decimal.RequireFromString("950.01")) {
				t.Fatalf("balance = %s, want 950.01", got)
			}
		})
	}
}

func TestDeleteTransactionReversesOnlyItsOwnEffect(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := insertAccount(t, s, "a", 100)
			b := insertAccount(t, s, "b", 100)

			txID, err := s.InsertTransaction(model.Transaction{
				AccountID: a,
				Amount:    decimal.NewFromInt(30),
				Direction: model.Expense,
				Source:    model.SourceManual,
				Date:      time.Now(),
			})
			if err != nil {
				t.Fatalf("InsertTransaction: %v", err)
			}
			if _, err := s.InsertTransaction(model.Transaction{
				AccountID: a,
				Amount:    decimal.NewFromInt(10),
				Direction: model.Income,
				Source:    model.SourceManual,
				Date:      time.Now(),
			}); err != nil {
				t.Fatalf("InsertTransaction: %v", err)
			}

			if err := s.DeleteTransaction(txID); err != nil {
				t.Fatalf("DeleteTransaction: %v", err)
			}

			if got := accountBalance(t, s, a); !got.Equal(decimal.NewFromInt(110)) {
				t.Fatalf("account a balance = %s, want 110 (only the deleted expense reversed)", got)
			}
			if got := accountBalance(t, s, b); !got.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("account b balance = %s, want 100 (untouched)", got)
			}
		})
	}
}

func TestInsertTransactionUnknownAccount(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.InsertTransaction(model.Transaction{
				AccountID: "missing",
				Amount:    decimal.NewFromInt(5),
				Direction: model.Expense,
				Date:      time.Now(),
			})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestExpenseSumBetween(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := insertAccount(t, s, "checking", 0)
			now := time.Now()

			amounts := []struct {
				amount    string
				direction model.Direction
				daysAgo   int
			}{
				{"10.50", model.Expense, 1},
				{"20.00", model.Expense, 5},
				{"99.99", model.Expense, 60}, // outside range
				{"500.00", model.Income, 1},  // wrong direction
			}
			for _, in := range amounts {
				if _, err := s.InsertTransaction(model.Transaction{
					AccountID: id,
					Amount:    decimal.RequireFromString(in.amount),
					Direction: in.direction,
					Source:    model.SourceManual,
					Date:      now.AddDate(0, 0, -in.daysAgo),
				}); err != nil {
					t.Fatalf("InsertTransaction: %v", err)
				}
			}

			sum, err := s.ExpenseSumBetween(now.AddDate(0, 0, -30), now)
			if err != nil {
				t.Fatalf("ExpenseSumBetween: %v", err)
			}
			if !sum.Equal(decimal.RequireFromString("30.50")) {
				t.Fatalf("sum = %s, want 30.50", sum)
			}
		})
	}
}

func TestDeleteAccountRejectedWhileReferenced(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := insertAccount(t, s, "checking", 0)
			txID, err := s.InsertTransaction(model.Transaction{
				AccountID: id,
				Amount:    decimal.NewFromInt(5),
				Direction: model.Expense,
				Source:    model.SourceManual,
				Date:      time.Now(),
			})
			if err != nil {
				t.Fatalf("InsertTransaction: %v", err)
			}

			if err := s.DeleteAccount(id); !errors.Is(err, ErrAccountInUse) {
				t.Fatalf("DeleteAccount = %v, want ErrAccountInUse", err)
			}

			if err := s.DeleteTransaction(txID); err != nil {
				t.Fatalf("DeleteTransaction: %v", err)
			}
			if err := s.DeleteAccount(id); err != nil {
				t.Fatalf("DeleteAccount after clearing references: %v", err)
			}
		})
	}
}

func TestRuleRoundTripAndPatch(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			accID := insertAccount(t, s, "checking", 0)
			start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

			id, err := s.InsertRule(model.RecurringRule{
				AccountID:   accID,
				Name:        "salary",
				Amount:      decimal.NewFromInt(5000),
				Direction:   model.Income,
				Frequency:   model.Monthly,
				DayOfMonth:  5,
				StartDate:   start,
				AutoConfirm: true,
			})
			if err != nil {
				t.Fatalf("InsertRule: %v", err)
			}

			newAmount := decimal.NewFromInt(5500)
			if err := s.UpdateRule(id, model.RulePatch{Amount: &newAmount}); err != nil {
				t.Fatalf("UpdateRule: %v", err)
			}

			rules, err := s.Rules()
			if err != nil {
				t.Fatalf("Rules: %v", err)
			}
			if len(rules) != 1 {
				t.Fatalf("len(rules) = %d, want 1", len(rules))
			}
			r := rules[0]
			if !r.Amount.Equal(newAmount) {
				t.Fatalf("amount = %s, want 5500", r.Amount)
			}
			if r.DayOfMonth != 5 || !r.StartDate.Equal(start) || !r.AutoConfirm {
				t.Fatalf("rule fields lost in round trip: %+v", r)
			}
			if !r.EndDate.IsZero() {
				t.Fatalf("end date = %v, want zero (open-ended)", r.EndDate)
			}

			if err := s.DeleteRule(id); err != nil {
				t.Fatalf("DeleteRule: %v", err)
			}
			if err := s.DeleteRule(id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("second DeleteRule = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSettingsPatch(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			payday := 28
			currency := "USD"
			if err := s.UpdateSettings(model.SettingsPatch{
				PaydayOfMonth: &payday,
				Currency:      &currency,
			}); err != nil {
				t.Fatalf("UpdateSettings: %v", err)
			}

			set, err := s.Settings()
			if err != nil {
				t.Fatalf("Settings: %v", err)
			}
			if set.PaydayOfMonth != 28 || set.Currency != "USD" {
				t.Fatalf("settings = %+v, want payday 28 currency USD", set)
			}
			// Untouched fields keep defaults
			if set.BudgetMode != model.BudgetAuto {
				t.Fatalf("budget mode = %s, want auto", set.BudgetMode)
			}
		})
	}
}

func TestSettingsPatchClampsPayday(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			payday := 99
			if err := s.UpdateSettings(model.SettingsPatch{PaydayOfMonth: &payday}); err != nil {
				t.Fatalf("UpdateSettings: %v", err)
			}
			set, err := s.Settings()
			if err != nil {
				t.Fatalf("Settings: %v", err)
			}
			if set.PaydayOfMonth != 31 {
				t.Fatalf("payday = %d, want clamped 31", set.PaydayOfMonth)
			}
		})
	}
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifeline.msgpack")

	kv, err := OpenKV(path)
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	id := insertAccount(t, kv, "wallet", 77)
	_ = kv.Close()

	reopened, err := OpenKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if got := accountBalance(t, reopened, id); !got.Equal(decimal.NewFromInt(77)) {
		t.Fatalf("balance after reopen = %s, want 77", got)
	}
}
