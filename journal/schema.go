package journal

// The journal lives in the same SQLite file as the ledger but is a
// parallel narrative log, not the source of truth for cash. Rows are
// keyed by ULID so creation order matches key order.
const Schema = `
CREATE TABLE IF NOT EXISTS trade_journal (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('BUY', 'SELL')),
	entry_price REAL,
	entry_date TEXT,
	exit_price REAL,
	exit_date TEXT,
	shares REAL NOT NULL DEFAULT 0,
	amount REAL NOT NULL DEFAULT 0,
	reasoning TEXT,
	strategy TEXT DEFAULT 'composite',
	signals_at_entry TEXT,
	outcome TEXT,
	lessons TEXT,
	pnl REAL DEFAULT 0,
	pnl_pct REAL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'CLOSED', 'STOPPED_OUT')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_journal_symbol_status ON trade_journal(symbol, status);
`
