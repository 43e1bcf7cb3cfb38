package ledger

// Timestamps are stored as ISO-8601 (RFC 3339) strings. The portfolio
// table holds exactly one row; holdings keep their row when shares reach
// zero so the average cost history stays queryable.
const Schema = `
CREATE TABLE IF NOT EXISTS portfolio (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	cash_balance REAL NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS holdings (
	symbol TEXT PRIMARY KEY,
	shares REAL NOT NULL DEFAULT 0,
	avg_cost REAL NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('BUY', 'SELL')),
	shares REAL NOT NULL,
	price REAL NOT NULL,
	amount REAL NOT NULL,
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);

CREATE TABLE IF NOT EXISTS daily_snapshots (
	snapshot_date TEXT PRIMARY KEY,
	total_value REAL NOT NULL,
	cash_balance REAL NOT NULL,
	market_value REAL NOT NULL,
	daily_pnl REAL NOT NULL DEFAULT 0,
	daily_pnl_pct REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
`
