package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrAccountInUse is returned when deleting an account that still has
// transactions or rules referencing it.
var ErrAccountInUse = errors.New("store: account has transactions or rules")

// SQLite is the embedded relational Store implementation.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at the given path and seeds
// default settings and a cash account on first run.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.seedDefaults(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding defaults: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) seedDefaults() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		def := model.DefaultSettings()
		_, err := s.db.Exec(
			`INSERT INTO settings (id, locale, currency, payday_of_month, budget_mode) VALUES (1, ?, ?, ?, ?)`,
			def.Locale, def.Currency, def.PaydayOfMonth, string(def.BudgetMode),
		)
		if err != nil {
			return err
		}
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		now := fmtTime(time.Now())
		_, err := s.db.Exec(
			`INSERT INTO accounts (id, name, type, balance, currency, created_at, updated_at)
			 VALUES (?, 'Cash', ?, '0', 'CNY', ?, ?)`,
			uuid.NewString(), string(model.AccountCash), now, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Accounts returns all accounts, newest first.
func (s *SQLite) Accounts() ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT id, name, type, balance, currency, created_at, updated_at
		FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var typ, balance, created, updated string
		if err := rows.Scan(&a.ID, &a.Name, &typ, &balance, &a.Currency, &created, &updated); err != nil {
			return nil, err
		}
		a.Type = model.AccountType(typ)
		a.Balance = parseAmount(balance)
		a.CreatedAt = parseTime(created)
		a.UpdatedAt = parseTime(updated)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// InsertAccount stores a new account, assigning an ID when absent.
func (s *SQLite) InsertAccount(a model.Account) (string, error) {
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

	_, err := s.db.Exec(
		`INSERT INTO accounts (id, name, type, balance, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Balance.String(), a.Currency,
		fmtTime(a.CreatedAt), fmtTime(a.UpdatedAt),
	)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// UpdateAccount applies a typed patch to the stored account.
func (s *SQLite) UpdateAccount(id string, p model.AccountPatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := accountByID(tx, id)
	if err != nil {
		return err
	}
	p.Apply(&a)

	_, err = tx.Exec(
		`UPDATE accounts SET name = ?, type = ?, balance = ?, currency = ?, updated_at = ? WHERE id = ?`,
		a.Name, string(a.Type), a.Balance.String(), a.Currency, fmtTime(a.UpdatedAt), id,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteAccount removes an account with no remaining references.
func (s *SQLite) DeleteAccount(id string) error {
	var refs int
	err := s.db.QueryRow(
		`SELECT (SELECT COUNT(*) FROM transactions WHERE account_id = ?) +
		        (SELECT COUNT(*) FROM recurring_rules WHERE account_id = ?)`,
		id, id,
	).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrAccountInUse
	}

	res, err := s.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func accountByID(q execer, id string) (model.Account, error) {
	var a model.Account
	var typ, balance, created, updated string
	err := q.QueryRow(
		`SELECT id, name, type, balance, currency, created_at, updated_at FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &typ, &balance, &a.Currency, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	a.Type = model.AccountType(typ)
	a.Balance = parseAmount(balance)
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}

const txColumns = `id, account_id, amount, direction, category, description, merchant, source, raw_data, date, created_at`

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var amount, direction, source, date, created string
	var category, description, merchant, rawData sql.NullString
	err := rows.Scan(&t.ID, &t.AccountID, &amount, &direction, &category,
		&description, &merchant, &source, &rawData, &date, &created)
	if err != nil {
		return t, err
	}
	t.Amount = parseAmount(amount)
	t.Direction = model.Direction(direction)
	t.Category = category.String
	t.Description = description.String
	t.Merchant = merchant.String
	t.Source = model.Source(source)
	t.RawData = rawData.String
	t.Date = parseTime(date)
	t.CreatedAt = parseTime(created)
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	defer func() { _ = rows.Close() }()
	var txs []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Transactions returns all transactions, newest first.
func (s *SQLite) Transactions() ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT ` + txColumns + ` FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// TransactionsBetween returns transactions dated within [start, end].
func (s *SQLite) TransactionsBetween(start, end time.Time) ([]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txColumns+` FROM transactions WHERE date BETWEEN ? AND ? ORDER BY date DESC`,
		fmtTime(start), fmtTime(end),
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// InsertTransaction stores the transaction and adjusts the owning
// account's balance in the same database transaction.
func (s *SQLite) InsertTransaction(t model.Transaction) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	account, err := accountByID(tx, t.AccountID)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(
		`INSERT INTO transactions (`+txColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Amount.String(), string(t.Direction), t.Category,
		t.Description, t.Merchant, string(t.Source), t.RawData,
		fmtTime(t.Date), fmtTime(t.CreatedAt),
	)
	if err != nil {
		return "", err
	}

	newBalance := account.Balance.Add(t.BalanceEffect())
	_, err = tx.Exec(
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		newBalance.String(), fmtTime(time.Now()), t.AccountID,
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return t.ID, nil
}

// DeleteTransaction removes the transaction and reverses its balance
// effect on the owning account.
func (s *SQLite) DeleteTransaction(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var accountID, amount, direction string
	err = tx.QueryRow(
		`SELECT account_id, amount, direction FROM transactions WHERE id = ?`, id,
	).Scan(&accountID, &amount, &direction)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	account, err := accountByID(tx, accountID)
	if err != nil {
		return err
	}

	effect := model.Direction(direction).Signed(parseAmount(amount))
	newBalance := account.Balance.Sub(effect)

	if _, err := tx.Exec("DELETE FROM transactions WHERE id = ?", id); err != nil {
		return err
	}
	_, err = tx.Exec(
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		newBalance.String(), fmtTime(time.Now()), accountID,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ExpenseSumBetween totals expense amounts dated within [start, end].
// Amounts are stored as exact decimal strings, so the sum happens here
// rather than in SQL.
func (s *SQLite) ExpenseSumBetween(start, end time.Time) (decimal.Decimal, error) {
	rows, err := s.db.Query(
		`SELECT amount FROM transactions WHERE direction = 'expense' AND date BETWEEN ? AND ?`,
		fmtTime(start), fmtTime(end),
	)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(parseAmount(amount))
	}
	return total, rows.Err()
}

const ruleColumns = `id, account_id, name, amount, direction, frequency, day_of_week, day_of_month, interval_days, start_date, end_date, auto_confirm, next_occurrence, created_at, updated_at`

// Rules returns all recurring rules, newest first.
func (s *SQLite) Rules() ([]model.RecurringRule, error) {
	rows, err := s.db.Query(`SELECT ` + ruleColumns + ` FROM recurring_rules ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var rules []model.RecurringRule
	for rows.Next() {
		var r model.RecurringRule
		var amount, direction, frequency, start, created, updated string
		var end, next sql.NullString
		var autoConfirm int
		err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &amount, &direction, &frequency,
			&r.DayOfWeek, &r.DayOfMonth, &r.IntervalDays, &start, &end, &autoConfirm,
			&next, &created, &updated)
		if err != nil {
			return nil, err
		}
		r.Amount = parseAmount(amount)
		r.Direction = model.Direction(direction)
		r.Frequency = model.Frequency(frequency)
		r.StartDate = parseTime(start)
		if end.Valid {
			r.EndDate = parseTime(end.String)
		}
		r.AutoConfirm = autoConfirm != 0
		if next.Valid {
			r.NextOccurrence = parseTime(next.String)
		}
		r.CreatedAt = parseTime(created)
		r.UpdatedAt = parseTime(updated)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *SQLite) writeRule(q execer, r model.RecurringRule, insert bool) error {
	endDate := sql.NullString{}
	if !r.EndDate.IsZero() {
		endDate = sql.NullString{String: fmtTime(r.EndDate), Valid: true}
	}
	nextOcc := sql.NullString{}
	if !r.NextOccurrence.IsZero() {
		nextOcc = sql.NullString{String: fmtTime(r.NextOccurrence), Valid: true}
	}
	autoConfirm := 0
	if r.AutoConfirm {
		autoConfirm = 1
	}

	if insert {
		_, err := q.Exec(
			`INSERT INTO recurring_rules (`+ruleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.AccountID, r.Name, r.Amount.String(), string(r.Direction), string(r.Frequency),
			r.DayOfWeek, r.DayOfMonth, r.IntervalDays, fmtTime(r.StartDate), endDate, autoConfirm,
			nextOcc, fmtTime(r.CreatedAt), fmtTime(r.UpdatedAt),
		)
		return err
	}

	_, err := q.Exec(
		`UPDATE recurring_rules SET name = ?, amount = ?, direction = ?, frequency = ?,
		 day_of_week = ?, day_of_month = ?, interval_days = ?, start_date = ?, end_date = ?,
		 auto_confirm = ?, next_occurrence = ?, updated_at = ? WHERE id = ?`,
		r.Name, r.Amount.String(), string(r.Direction), string(r.Frequency),
		r.DayOfWeek, r.DayOfMonth, r.IntervalDays, fmtTime(r.StartDate), endDate,
		autoConfirm, nextOcc, fmtTime(r.UpdatedAt), r.ID,
	)
	return err
}

// InsertRule stores a new recurring rule, assigning an ID when absent.
func (s *SQLite) InsertRule(r model.RecurringRule) (string, error) {
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
	if err := s.writeRule(s.db, r, true); err != nil {
		return "", err
	}
	return r.ID, nil
}

// UpdateRule applies a typed patch to the stored rule.
func (s *SQLite) UpdateRule(id string, p model.RulePatch) error {
	rules, err := s.Rules()
	if err != nil {
		return err
	}
	for _, r := range rules {
		if r.ID != id {
			continue
		}
		p.Apply(&r)
		return s.writeRule(s.db, r, false)
	}
	return ErrNotFound
}

// DeleteRule removes a recurring rule.
func (s *SQLite) DeleteRule(id string) error {
	res, err := s.db.Exec("DELETE FROM recurring_rules WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Settings reads the singleton settings row.
func (s *SQLite) Settings() (model.Settings, error) {
	var set model.Settings
	var budgetMode, manualBudget, apps string
	var notif, sms int
	err := s.db.QueryRow(
		`SELECT locale, currency, payday_of_month, budget_mode, manual_daily_budget,
		 enable_notification, enable_sms_parser, notification_apps FROM settings WHERE id = 1`,
	).Scan(&set.Locale, &set.Currency, &set.PaydayOfMonth, &budgetMode, &manualBudget, &notif, &sms, &apps)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return set, err
	}
	set.BudgetMode = model.BudgetMode(budgetMode)
	set.ManualDailyBudget = parseAmount(manualBudget)
	set.EnableNotification = notif != 0
	set.EnableSMSParser = sms != 0
	_ = json.Unmarshal([]byte(apps), &set.NotificationApps)
	return set, nil
}

// UpdateSettings applies a typed patch to the settings row.
func (s *SQLite) UpdateSettings(p model.SettingsPatch) error {
	set, err := s.Settings()
	if err != nil {
		return err
	}
	p.Apply(&set)

	apps, err := json.Marshal(set.NotificationApps)
	if err != nil {
		return err
	}
	notif, sms := 0, 0
	if set.EnableNotification {
		notif = 1
	}
	if set.EnableSMSParser {
		sms = 1
	}

	_, err = s.db.Exec(
		`UPDATE settings SET locale = ?, currency = ?, payday_of_month = ?, budget_mode = ?,
		 manual_daily_budget = ?, enable_notification = ?, enable_sms_parser = ?, notification_apps = ?
		 WHERE id = 1`,
		set.Locale, set.Currency, set.PaydayOfMonth, string(set.BudgetMode),
		set.ManualDailyBudget.String(), notif, sms, string(apps),
	)
	return err
}
