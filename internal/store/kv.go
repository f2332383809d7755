package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/theirongolddev/lifeline/internal/model"
)

// KV is a single-file key-value Store implementation: one msgpack blob
// holding a bucket per entity kind. The portable counterpart of the
// SQLite backend for environments without an embedded database.
type KV struct {
	path string

	mu    sync.Mutex
	state kvState
}

// Amounts travel as decimal strings so both backends round-trip money
// identically.
type kvState struct {
	Accounts     []kvAccount     `msgpack:"accounts"`
	Transactions []kvTransaction `msgpack:"transactions"`
	Rules        []kvRule        `msgpack:"rules"`
	Settings     kvSettings      `msgpack:"settings"`
}

type kvAccount struct {
	ID        string    `msgpack:"id"`
	Name      string    `msgpack:"name"`
	Type      string    `msgpack:"type"`
	Balance   string    `msgpack:"balance"`
	Currency  string    `msgpack:"currency"`
	CreatedAt time.Time `msgpack:"created_at"`
	UpdatedAt time.Time `msgpack:"updated_at"`
}

type kvTransaction struct {
	ID          string    `msgpack:"id"`
	AccountID   string    `msgpack:"account_id"`
	Amount      string    `msgpack:"amount"`
	Direction   string    `msgpack:"direction"`
	Category    string    `msgpack:"category"`
	Description string    `msgpack:"description"`
	Merchant    string    `msgpack:"merchant"`
	Source      string    `msgpack:"source"`
	RawData     string    `msgpack:"raw_data"`
	Date        time.Time `msgpack:"date"`
	CreatedAt   time.Time `msgpack:"created_at"`
}

type kvRule struct {
	ID             string    `msgpack:"id"`
	AccountID      string    `msgpack:"account_id"`
	Name           string    `msgpack:"name"`
	Amount         string    `msgpack:"amount"`
	Direction      string    `msgpack:"direction"`
	Frequency      string    `msgpack:"frequency"`
	DayOfWeek      int       `msgpack:"day_of_week"`
	DayOfMonth     int       `msgpack:"day_of_month"`
	IntervalDays   int       `msgpack:"interval_days"`
	StartDate      time.Time `msgpack:"start_date"`
	EndDate        time.Time `msgpack:"end_date"`
	AutoConfirm    bool      `msgpack:"auto_confirm"`
	NextOccurrence time.Time `msgpack:"next_occurrence"`
	CreatedAt      time.Time `msgpack:"created_at"`
	UpdatedAt      time.Time `msgpack:"updated_at"`
}

type kvSettings struct {
	Locale             string   `msgpack:"locale"`
	Currency           string   `msgpack:"currency"`
	PaydayOfMonth      int      `msgpack:"payday_of_month"`
	BudgetMode         string   `msgpack:"budget_mode"`
	ManualDailyBudget  string   `msgpack:"manual_daily_budget"`
	EnableNotification bool     `msgpack:"enable_notification"`
	EnableSMSParser    bool     `msgpack:"enable_sms_parser"`
	NotificationApps   []string `msgpack:"notification_apps"`
}

// OpenKV opens or creates the key-value file at the given path and
// seeds the same defaults as the SQLite backend on first run.
func OpenKV(path string) (*KV, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	k := &KV{path: path}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from user config
	switch {
	case os.IsNotExist(err):
		now := time.Now()
		k.state = kvState{
			Accounts: []kvAccount{{
				ID:        uuid.NewString(),
				Name:      "Cash",
				Type:      string(model.AccountCash),
				Balance:   "0",
				Currency:  "CNY",
				CreatedAt: now,
				UpdatedAt: now,
			}},
			Settings: settingsToKV(model.DefaultSettings()),
		}
		if err := k.persist(k.state); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading kv file: %w", err)
	default:
		if err := msgpack.Unmarshal(data, &k.state); err != nil {
			return nil, fmt.Errorf("decoding kv file: %w", err)
		}
	}

	return k, nil
}

// Close is a no-op; every mutation is flushed synchronously.
func (k *KV) Close() error {
	return nil
}

// persist writes the state atomically: temp file then rename.
func (k *KV) persist(state kvState) error {
	data, err := msgpack.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding kv state: %w", err)
	}
	tmp := k.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing kv file: %w", err)
	}
	return os.Rename(tmp, k.path)
}

// commit persists the mutated copy and only then installs it in memory,
// so a failed write leaves the prior state untouched.
func (k *KV) commit(state kvState) error {
	if err := k.persist(state); err != nil {
		return err
	}
	k.state = state
	return nil
}

func (k *KV) cloneState() kvState {
	s := k.state
	s.Accounts = append([]kvAccount(nil), k.state.Accounts...)
	s.Transactions = append([]kvTransaction(nil), k.state.Transactions...)
	s.Rules = append([]kvRule(nil), k.state.Rules...)
	return s
}

// Accounts returns all accounts, newest first.
func (k *KV) Accounts() ([]model.Account, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	accounts := make([]model.Account, 0, len(k.state.Accounts))
	for _, a := range k.state.Accounts {
		accounts = append(accounts, accountFromKV(a))
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// InsertAccount stores a new account, assigning an ID when absent.
func (k *KV) InsertAccount(a model.Account) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	state := k.cloneState()
	state.Accounts = append(state.Accounts, accountToKV(a))
	if err := k.commit(state); err != nil {
		return "", err
	}
	return a.ID, nil
}

// UpdateAccount applies a typed patch to the stored account.
func (k *KV) UpdateAccount(id string, p model.AccountPatch) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := k.cloneState()
	for i, rec := range state.Accounts {
		if rec.ID != id {
			continue
		}
		a := accountFromKV(rec)
		p.Apply(&a)
		state.Accounts[i] = accountToKV(a)
		return k.commit(state)
	}
	return ErrNotFound
}

// DeleteAccount removes an account with no remaining references.
func (k *KV) DeleteAccount(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, t := range k.state.Transactions {
		if t.AccountID == id {
			return ErrAccountInUse
		}
	}
	for _, r := range k.state.Rules {
		if r.AccountID == id {
			return ErrAccountInUse
		}
	}

	state := k.cloneState()
	for i, a := range state.Accounts {
		if a.ID != id {
			continue
		}
		state.Accounts = append(state.Accounts[:i], state.Accounts[i+1:]...)
		return k.commit(state)
	}
	return ErrNotFound
}

// Transactions returns all transactions, newest first.
func (k *KV) Transactions() ([]model.Transaction, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	txs := make([]model.Transaction, 0, len(k.state.Transactions))
	for _, t := range k.state.Transactions {
		txs = append(txs, transactionFromKV(t))
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// TransactionsBetween returns transactions dated within [start, end].
func (k *KV) TransactionsBetween(start, end time.Time) ([]model.Transaction, error) {
	all, err := k.Transactions()
	if err != nil {
		return nil, err
	}
	var txs []model.Transaction
	for _, t := range all {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// InsertTransaction stores the transaction and adjusts the owning
// account's balance in the same commit.
func (k *KV) InsertTransaction(t model.Transaction) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	state := k.cloneState()
	idx := -1
	for i, a := range state.Accounts {
		if a.ID == t.AccountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ErrNotFound
	}

	account := accountFromKV(state.Accounts[idx])
	account.Balance = account.Balance.Add(t.BalanceEffect())
	account.UpdatedAt = time.Now()
	state.Accounts[idx] = accountToKV(account)
	state.Transactions = append(state.Transactions, transactionToKV(t))

	if err := k.commit(state); err != nil {
		return "", err
	}
	return t.ID, nil
}

// DeleteTransaction removes the transaction and reverses its balance
// effect on the owning account.
func (k *KV) DeleteTransaction(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := k.cloneState()
	for i, rec := range state.Transactions {
		if rec.ID != id {
			continue
		}
		t := transactionFromKV(rec)
		state.Transactions = append(state.Transactions[:i], state.Transactions[i+1:]...)

		for j, a := range state.Accounts {
			if a.ID != t.AccountID {
				continue
			}
			account := accountFromKV(a)
			account.Balance = account.Balance.Sub(t.BalanceEffect())
			account.UpdatedAt = time.Now()
			state.Accounts[j] = accountToKV(account)
			break
		}
		return k.commit(state)
	}
	return ErrNotFound
}

// ExpenseSumBetween totals expense amounts dated within [start, end].
func (k *KV) ExpenseSumBetween(start, end time.Time) (decimal.Decimal, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	total := decimal.Zero
	for _, rec := range k.state.Transactions {
		if rec.Direction != string(model.Expense) {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		total = total.Add(parseAmount(rec.Amount))
	}
	return total, nil
}

// Rules returns all recurring rules, newest first.
func (k *KV) Rules() ([]model.RecurringRule, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	rules := make([]model.RecurringRule, 0, len(k.state.Rules))
	for _, r := range k.state.Rules {
		rules = append(rules, ruleFromKV(r))
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].CreatedAt.After(rules[j].CreatedAt)
	})
	return rules, nil
}

// InsertRule stores a new recurring rule, assigning an ID when absent.
func (k *KV) InsertRule(r model.RecurringRule) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	state := k.cloneState()
	state.Rules = append(state.Rules, ruleToKV(r))
	if err := k.commit(state); err != nil {
		return "", err
	}
	return r.ID, nil
}

// UpdateRule applies a typed patch to the stored rule.
func (k *KV) UpdateRule(id string, p model.RulePatch) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := k.cloneState()
	for i, rec := range state.Rules {
		if rec.ID != id {
			continue
		}
		r := ruleFromKV(rec)
		p.Apply(&r)
		state.Rules[i] = ruleToKV(r)
		return k.commit(state)
	}
	return ErrNotFound
}

// DeleteRule removes a recurring rule.
func (k *KV) DeleteRule(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := k.cloneState()
	for i, r := range state.Rules {
		if r.ID != id {
			continue
		}
		state.Rules = append(state.Rules[:i], state.Rules[i+1:]...)
		return k.commit(state)
	}
	return ErrNotFound
}

// Settings reads the singleton settings.
func (k *KV) Settings() (model.Settings, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return settingsFromKV(k.state.Settings), nil
}

// UpdateSettings applies a typed patch to the settings.
func (k *KV) UpdateSettings(p model.SettingsPatch) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := k.cloneState()
	set := settingsFromKV(state.Settings)
	p.Apply(&set)
	state.Settings = settingsToKV(set)
	return k.commit(state)
}

func accountToKV(a model.Account) kvAccount {
	return kvAccount{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   a.Balance.String(),
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func accountFromKV(a kvAccount) model.Account {
	return model.Account{
		ID:        a.ID,
		Name:      a.Name,
		Type:      model.AccountType(a.Type),
		Balance:   parseAmount(a.Balance),
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func transactionToKV(t model.Transaction) kvTransaction {
	return kvTransaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Amount:      t.Amount.String(),
		Direction:   string(t.Direction),
		Category:    t.Category,
		Description: t.Description,
		Merchant:    t.Merchant,
		Source:      string(t.Source),
		RawData:     t.RawData,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

func transactionFromKV(t kvTransaction) model.Transaction {
	return model.Transaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Amount:      parseAmount(t.Amount),
		Direction:   model.Direction(t.Direction),
		Category:    t.Category,
		Description: t.Description,
		Merchant:    t.Merchant,
		Source:      model.Source(t.Source),
		RawData:     t.RawData,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

func ruleToKV(r model.RecurringRule) kvRule {
	return kvRule{
		ID:             r.ID,
		AccountID:      r.AccountID,
		Name:           r.Name,
		Amount:         r.Amount.String(),
		Direction:      string(r.Direction),
		Frequency:      string(r.Frequency),
		DayOfWeek:      r.DayOfWeek,
		DayOfMonth:     r.DayOfMonth,
		IntervalDays:   r.IntervalDays,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AutoConfirm:    r.AutoConfirm,
		NextOccurrence: r.NextOccurrence,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ruleFromKV(r kvRule) model.RecurringRule {
	return model.RecurringRule{
		ID:             r.ID,
		AccountID:      r.AccountID,
		Name:           r.Name,
		Amount:         parseAmount(r.Amount),
		Direction:      model.Direction(r.Direction),
		Frequency:      model.Frequency(r.Frequency),
		DayOfWeek:      r.DayOfWeek,
		DayOfMonth:     r.DayOfMonth,
		IntervalDays:   r.IntervalDays,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AutoConfirm:    r.AutoConfirm,
		NextOccurrence: r.NextOccurrence,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func settingsToKV(s model.Settings) kvSettings {
	return kvSettings{
		Locale:             s.Locale,
		Currency:           s.Currency,
		PaydayOfMonth:      s.PaydayOfMonth,
		BudgetMode:         string(s.BudgetMode),
		ManualDailyBudget:  s.ManualDailyBudget.String(),
		EnableNotification: s.EnableNotification,
		EnableSMSParser:    s.EnableSMSParser,
		NotificationApps:   s.NotificationApps,
	}
}

func settingsFromKV(s kvSettings) model.Settings {
	return model.Settings{
		Locale:             s.Locale,
		Currency:           s.Currency,
		PaydayOfMonth:      s.PaydayOfMonth,
		BudgetMode:         model.BudgetMode(s.BudgetMode),
		ManualDailyBudget:  parseAmount(s.ManualDailyBudget),
		EnableNotification: s.EnableNotification,
		EnableSMSParser:    s.EnableSMSParser,
		NotificationApps:   s.NotificationApps,
	}
}
