package sqlite

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'User',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	account_number TEXT NOT NULL UNIQUE,
	balance NUMERIC NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	amount NUMERIC NOT NULL,
	type TEXT NOT NULL,
	country TEXT NOT NULL,
	device TEXT NOT NULL,
	recipient_rib TEXT,
	description TEXT,
	timestamp DATETIME NOT NULL,
	is_fraud INTEGER NOT NULL DEFAULT 0,
	fraud_reason TEXT
);

CREATE TABLE IF NOT EXISTS fraud_alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_id INTEGER NOT NULL UNIQUE REFERENCES transactions(id) ON DELETE CASCADE,
	risk_score REAL NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Pending',
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);
CREATE INDEX IF NOT EXISTS idx_transactions_is_fraud ON transactions(is_fraud);
CREATE INDEX IF NOT EXISTS idx_transactions_country ON transactions(country);
CREATE INDEX IF NOT EXISTS idx_fraud_alerts_status ON fraud_alerts(status);
CREATE INDEX IF NOT EXISTS idx_fraud_alerts_risk_score ON fraud_alerts(risk_score);
`

// initSchema creates missing tables and indexes; it is safe to run on every start.
func (s *SQLiteStorage) initSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}
