package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/forecast"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/store"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	kv, err := store.OpenKV(filepath.Join(t.TempDir(), "lifeline.msgpack"))
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	c, err := New(kv, Options{
		Now:    func() time.Time { return testNow },
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func seededAccountID(t *testing.T, c *Coordinator) string {
	t.Helper()
	accounts := c.Snapshot().Accounts
	if len(accounts) == 0 {
		t.Fatal("no seeded account")
	}
	return accounts[0].ID
}

func TestAddTransactionRecomputesDerivedState(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	if _, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.NewFromInt(300),
		Direction: model.Income,
		Date:      testNow,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	snap := c.Snapshot()
	if !snap.TotalBalance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("TotalBalance = %s, want 300", snap.TotalBalance)
	}
	if len(snap.Forecast) != forecast.DefaultHorizonDays+1 {
		t.Fatalf("forecast length = %d, want %d", len(snap.Forecast), forecast.DefaultHorizonDays+1)
	}
	if !snap.Forecast[0].Balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("forecast day 0 = %s, want 300", snap.Forecast[0].Balance)
	}
}

func TestDeleteTransactionRestoresBalance(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	id, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.RequireFromString("42.50"),
		Direction: model.Expense,
		Date:      testNow,
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := c.DeleteTransaction(id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if got := c.Snapshot().TotalBalance; !got.IsZero() {
		t.Fatalf("TotalBalance after delete = %s, want 0", got)
	}
}

func TestAddTransactionRejectsNonPositiveAmount(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	_, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.Zero,
		Direction: model.Expense,
		Date:      testNow,
	})
	if !errors.Is(err, model.ErrNonPositiveAmount) {
		t.Fatalf("err = %v, want ErrNonPositiveAmount", err)
	}
}

func TestSafetyLevelUsesAverageFloorWhenNoExpenses(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	// Big balance, no expense history: average floors at 100, allowance
	// is large, so the level must come out safe rather than dividing by
	// zero.
	if _, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.NewFromInt(100000),
		Direction: model.Income,
		Date:      testNow,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if got := c.Snapshot().SafetyLevel; got != forecast.Safe {
		t.Fatalf("SafetyLevel = %s, want safe", got)
	}
}

func TestSimulateExpenseDoesNotMutateSnapshot(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	if _, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.NewFromInt(1000),
		Direction: model.Income,
		Date:      testNow,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	before := c.Snapshot()

	sim := c.SimulateExpense(decimal.NewFromInt(400))
	if !sim[0].Balance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("simulated day 0 = %s, want 600", sim[0].Balance)
	}

	after := c.Snapshot()
	if !after.TotalBalance.Equal(before.TotalBalance) {
		t.Fatalf("TotalBalance changed from %s to %s", before.TotalBalance, after.TotalBalance)
	}
	if !after.Forecast[0].Balance.Equal(before.Forecast[0].Balance) {
		t.Fatal("stored forecast mutated by simulation")
	}
}

func TestAddRuleCachesNextOccurrenceAndShowsInForecast(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	id, err := c.AddRule(model.RecurringRule{
		AccountID:   accID,
		Name:        "salary",
		Amount:      decimal.NewFromInt(8000),
		Direction:   model.Income,
		Frequency:   model.Monthly,
		DayOfMonth:  15,
		StartDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		AutoConfirm: true,
	})
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Rules) != 1 || snap.Rules[0].ID != id {
		t.Fatalf("rules = %+v, want one rule %s", snap.Rules, id)
	}
	if snap.Rules[0].NextOccurrence.IsZero() {
		t.Fatal("NextOccurrence not cached on insert")
	}

	// testNow is June 10; the rule fires June 15, offset 5.
	day := snap.Forecast[5]
	if len(day.Events) != 1 || day.Events[0].RuleID != id {
		t.Fatalf("forecast day 5 events = %+v, want the salary rule", day.Events)
	}
}

func TestAddRuleClampsParameters(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	if _, err := c.AddRule(model.RecurringRule{
		AccountID:  accID,
		Name:       "rent",
		Amount:     decimal.NewFromInt(1500),
		Direction:  model.Expense,
		Frequency:  model.Monthly,
		DayOfMonth: 45,
		StartDate:  testNow,
	}); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	if got := c.Snapshot().Rules[0].DayOfMonth; got != 31 {
		t.Fatalf("DayOfMonth = %d, want clamped 31", got)
	}
}

func TestDeleteAccountRejectedWhileReferenced(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	if _, err := c.AddTransaction(model.Transaction{
		AccountID: accID,
		Amount:    decimal.NewFromInt(10),
		Direction: model.Expense,
		Date:      testNow,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := c.DeleteAccount(accID); !errors.Is(err, store.ErrAccountInUse) {
		t.Fatalf("DeleteAccount = %v, want ErrAccountInUse", err)
	}
}

func TestBatchInsertRefreshesOnce(t *testing.T) {
	c := newCoordinator(t)
	accID := seededAccountID(t, c)

	txs := []model.Transaction{
		{AccountID: accID, Amount: decimal.NewFromInt(20), Direction: model.Expense, Date: testNow},
		{AccountID: accID, Amount: decimal.NewFromInt(30), Direction: model.Expense, Date: testNow},
	}
	ids, err := c.AddTransactionBatch(txs)
	if err != nil {
		t.Fatalf("AddTransactionBatch: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
	if got := c.Snapshot().TotalBalance; !got.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("TotalBalance = %s, want -50", got)
	}
}
