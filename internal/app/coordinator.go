// Package app wires the persistence layer to the forecasting core. The
// Coordinator owns the in-memory snapshot and recomputes every derived
// value from scratch after each mutation — at this data scale
// correctness beats incremental bookkeeping.
package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/forecast"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/store"
)

// averageFloor substitutes for a zero trailing average so the safety
// ratio never divides by zero.
var averageFloor = decimal.NewFromInt(100)

// Snapshot is the authoritative state plus everything derived from it.
type Snapshot struct {
	Accounts     []model.Account
	Transactions []model.Transaction
	Rules        []model.RecurringRule
	Settings     model.Settings

	TotalBalance        decimal.Decimal
	DailyExpenseAverage decimal.Decimal
	DaysUntilPayday     int
	DailyAllowance      decimal.Decimal
	SafetyLevel         forecast.Level
	Forecast            []forecast.Point
	Landing             *forecast.Landing

	RefreshedAt time.Time
}

// Options tunes the coordinator; zero values pick the defaults.
type Options struct {
	HorizonDays int
	WindowDays  int
	Now         func() time.Time // test clock
	Logger      zerolog.Logger
}

// Coordinator is the explicit state object handed to UI collaborators.
// Operations are expected to arrive sequentially from a single event
// loop; it does no internal locking.
type Coordinator struct {
	store   store.Store
	log     zerolog.Logger
	horizon int
	window  int
	now     func() time.Time

	snap Snapshot
}

// New builds a coordinator and loads the initial snapshot.
func New(s store.Store, opts Options) (*Coordinator, error) {
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = forecast.DefaultHorizonDays
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = forecast.DefaultWindowDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Coordinator{
		store:   s,
		log:     opts.Logger,
		horizon: opts.HorizonDays,
		window:  opts.WindowDays,
		now:     opts.Now,
	}
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshot returns the last successfully computed state.
func (c *Coordinator) Snapshot() Snapshot {
	return c.snap
}

// Refresh re-reads the full snapshot and recomputes all derived values.
// On failure the previous snapshot stays in place.
func (c *Coordinator) Refresh() error {
	now := c.now()

	accounts, err := c.store.Accounts()
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	transactions, err := c.store.Transactions()
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}
	rules, err := c.store.Rules()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	settings, err := c.store.Settings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	expenseSum, err := c.store.ExpenseSumBetween(now.AddDate(0, 0, -c.window), now)
	if err != nil {
		return fmt.Errorf("loading expense sum: %w", err)
	}
	average := decimal.Zero
	if !expenseSum.IsZero() {
		average = expenseSum.Div(decimal.NewFromInt(int64(c.window)))
	}

	days := forecast.DaysUntilPayday(settings.PaydayOfMonth, now)

	// Fixed obligations: each auto-confirmed expense rule counts once.
	fixed := decimal.Zero
	for _, r := range rules {
		if r.Direction == model.Expense && r.AutoConfirm {
			fixed = fixed.Add(r.Amount)
		}
	}

	allowance := forecast.DailyAllowance(total, fixed, days)

	levelAverage := average
	if levelAverage.IsZero() {
		levelAverage = averageFloor
	}
	level := forecast.SafetyLevel(allowance, levelAverage)

	points := forecast.Generate(total, rules, average, c.horizon, now)

	var landing *forecast.Landing
	if l, ok := forecast.LandingPoint(points); ok {
		landing = &l
	}

	c.snap = Snapshot{
		Accounts:            accounts,
		Transactions:        transactions,
		Rules:               rules,
		Settings:            settings,
		TotalBalance:        total,
		DailyExpenseAverage: average,
		DaysUntilPayday:     days,
		DailyAllowance:      allowance,
		SafetyLevel:         level,
		Forecast:            points,
		Landing:             landing,
		RefreshedAt:         now,
	}

	c.log.Debug().
		Int("accounts", len(accounts)).
		Int("rules", len(rules)).
		Str("safety", string(level)).
		Msg("snapshot refreshed")

	return nil
}

// AddAccount validates, persists, and recomputes.
func (c *Coordinator) AddAccount(a model.Account) (string, error) {
	if !model.ValidAccountType(a.Type) {
		return "", fmt.Errorf("unknown account type %q", a.Type)
	}
	id, err := c.store.InsertAccount(a)
	if err != nil {
		return "", fmt.Errorf("inserting account: %w", err)
	}
	return id, c.Refresh()
}

// UpdateAccount applies a typed patch to an account.
func (c *Coordinator) UpdateAccount(id string, p model.AccountPatch) error {
	if p.Type != nil && !model.ValidAccountType(*p.Type) {
		return fmt.Errorf("unknown account type %q", *p.Type)
	}
	if err := c.store.UpdateAccount(id, p); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return c.Refresh()
}

// DeleteAccount removes an account. Accounts still referenced by
// transactions or rules are rejected rather than cascaded or orphaned.
func (c *Coordinator) DeleteAccount(id string) error {
	if err := c.store.DeleteAccount(id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return c.Refresh()
}

// AddTransaction validates, persists (adjusting the account balance
// atomically), and recomputes.
func (c *Coordinator) AddTransaction(t model.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.Source == "" {
		t.Source = model.SourceManual
	}
	if t.Date.IsZero() {
		t.Date = c.now()
	}
	id, err := c.store.InsertTransaction(t)
	if err != nil {
		return "", fmt.Errorf("inserting transaction: %w", err)
	}
	return id, c.Refresh()
}

// AddTransactionBatch persists a batch (imports, parsed bills) and
// recomputes once at the end.
func (c *Coordinator) AddTransactionBatch(txs []model.Transaction) ([]string, error) {
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return ids, err
		}
		if t.Source == "" {
			t.Source = model.SourceImport
		}
		id, err := c.store.InsertTransaction(t)
		if err != nil {
			return ids, fmt.Errorf("inserting transaction: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, c.Refresh()
}

// DeleteTransaction reverses exactly the transaction's own balance
// contribution and recomputes.
func (c *Coordinator) DeleteTransaction(id string) error {
	if err := c.store.DeleteTransaction(id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return c.Refresh()
}

// AddRule normalizes the rule, caches its advisory next occurrence,
// persists, and recomputes.
func (c *Coordinator) AddRule(r model.RecurringRule) (string, error) {
	if !r.Amount.IsPositive() {
		return "", model.ErrNonPositiveAmount
	}
	r.Normalize()
	r.NextOccurrence = forecast.NextOccurrence(r, c.now())
	id, err := c.store.InsertRule(r)
	if err != nil {
		return "", fmt.Errorf("inserting rule: %w", err)
	}
	return id, c.Refresh()
}

// UpdateRule applies a typed patch to a rule.
func (c *Coordinator) UpdateRule(id string, p model.RulePatch) error {
	if p.Amount != nil && !p.Amount.IsPositive() {
		return model.ErrNonPositiveAmount
	}
	if err := c.store.UpdateRule(id, p); err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}
	return c.Refresh()
}

// DeleteRule removes a rule and recomputes.
func (c *Coordinator) DeleteRule(id string) error {
	if err := c.store.DeleteRule(id); err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}
	return c.Refresh()
}

// UpdateSettings applies a typed partial update and recomputes.
func (c *Coordinator) UpdateSettings(p model.SettingsPatch) error {
	if err := c.store.UpdateSettings(p); err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return c.Refresh()
}

// SimulateExpense answers "what if I spend this today": the current
// forecast rerun with the amount deducted up front. Pure — nothing is
// persisted and the snapshot is untouched.
func (c *Coordinator) SimulateExpense(amount decimal.Decimal) []forecast.Point {
	return forecast.Generate(
		c.snap.TotalBalance.Sub(amount),
		c.snap.Rules,
		c.snap.DailyExpenseAverage,
		c.horizon,
		c.now(),
	)
}
