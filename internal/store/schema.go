package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    type        TEXT NOT NULL,
    balance     TEXT NOT NULL DEFAULT '0',
    currency    TEXT NOT NULL DEFAULT 'CNY',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    account_id  TEXT NOT NULL REFERENCES accounts(id),
    amount      TEXT NOT NULL,
    direction   TEXT NOT NULL,
    category    TEXT,
    description TEXT,
    merchant    TEXT,
    source      TEXT NOT NULL DEFAULT 'manual',
    raw_data    TEXT,
    date        TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recurring_rules (
    id              TEXT PRIMARY KEY,
    account_id      TEXT NOT NULL REFERENCES accounts(id),
    name            TEXT NOT NULL,
    amount          TEXT NOT NULL,
    direction       TEXT NOT NULL,
    frequency       TEXT NOT NULL,
    day_of_week     INTEGER NOT NULL DEFAULT 0,
    day_of_month    INTEGER NOT NULL DEFAULT 0,
    interval_days   INTEGER NOT NULL DEFAULT 0,
    start_date      TEXT NOT NULL,
    end_date        TEXT,
    auto_confirm    INTEGER NOT NULL DEFAULT 1,
    next_occurrence TEXT,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    id                  INTEGER PRIMARY KEY CHECK (id = 1),
    locale              TEXT NOT NULL DEFAULT 'en',
    currency            TEXT NOT NULL DEFAULT 'CNY',
    payday_of_month     INTEGER NOT NULL DEFAULT 15,
    budget_mode         TEXT NOT NULL DEFAULT 'auto',
    manual_daily_budget TEXT NOT NULL DEFAULT '0',
    enable_notification INTEGER NOT NULL DEFAULT 0,
    enable_sms_parser   INTEGER NOT NULL DEFAULT 0,
    notification_apps   TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_rules_account ON recurring_rules(account_id);
`
