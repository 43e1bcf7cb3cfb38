// Package journal records why each trade was entered and how it worked
// out. It is deliberately decoupled from the ledger: a journal write can
// never be blocked by a ledger failure, and the two are reconciled by the
// caller, not here.
package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/setquant/advisor/pkg/id"
)

// Entry statuses.
const (
	StatusOpen       = "OPEN"
	StatusClosed     = "CLOSED"
	StatusStoppedOut = "STOPPED_OUT"
)

// ErrNoOpenTrade is returned by CloseTrade when no OPEN row matches the
// given id or symbol. Nothing is mutated in that case.
var ErrNoOpenTrade = errors.New("no open trade found")

const timeLayout = time.RFC3339Nano

// Journal is a SQLite-backed trade journal.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if necessary) the journal tables at path. The
// path may be the same file the ledger uses.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// SetClock overrides the journal's time source for tests.
func (j *Journal) SetClock(now func() time.Time) {
	j.now = now
}

// Entry is one journal row.
type Entry struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	Action         string    `json:"action"`
	EntryPrice     float64   `json:"entry_price"`
	EntryDate      time.Time `json:"entry_date"`
	ExitPrice      float64   `json:"exit_price,omitempty"`
	ExitDate       time.Time `json:"exit_date,omitzero"`
	Shares         float64   `json:"shares"`
	Amount         float64   `json:"amount"`
	Reasoning      string    `json:"reasoning,omitempty"`
	Strategy       string    `json:"strategy"`
	SignalsAtEntry string    `json:"signals_at_entry,omitempty"` // opaque JSON snapshot of signals at entry
	Outcome        string    `json:"outcome,omitempty"`
	Lessons        string    `json:"lessons,omitempty"`
	PnL            float64   `json:"pnl"`
	PnLPct         float64   `json:"pnl_pct"`
	Status         string    `json:"status"`
}

// OpenParams describes a new journal entry.
type OpenParams struct {
	Symbol    string
	Action    string // BUY or SELL
	Price     float64
	Shares    float64
	Amount    float64
	Reasoning string
	Strategy  string // defaults to "composite"
	Signals   any    // snapshot of signal values at entry, stored as JSON
}

// OpenTrade inserts a new entry in status OPEN. It touches no ledger
// state.
func (j *Journal) OpenTrade(p OpenParams) (Entry, error) {
	if p.Action != "BUY" && p.Action != "SELL" {
		return Entry{}, fmt.Errorf("open trade: unknown action %q", p.Action)
	}

	strategy := p.Strategy
	if strategy == "" {
		strategy = "composite"
	}

	signals := "{}"
	if p.Signals != nil {
		b, err := json.Marshal(p.Signals)
		if err != nil {
			return Entry{}, fmt.Errorf("marshal signals: %w", err)
		}
		signals = string(b)
	}

	now := j.now().UTC()
	e := Entry{
		ID:             id.New(),
		Symbol:         p.Symbol,
		Action:         p.Action,
		EntryPrice:     p.Price,
		EntryDate:      now,
		Shares:         p.Shares,
		Amount:         p.Amount,
		Reasoning:      p.Reasoning,
		Strategy:       strategy,
		SignalsAtEntry: signals,
		Status:         StatusOpen,
	}

	ts := now.Format(timeLayout)
	_, err := j.db.Exec(`
		INSERT INTO trade_journal
			(id, symbol, action, entry_price, entry_date, shares, amount, reasoning, strategy, signals_at_entry, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'OPEN', ?, ?)`,
		e.ID, e.Symbol, e.Action, e.EntryPrice, ts, e.Shares, e.Amount,
		e.Reasoning, e.Strategy, e.SignalsAtEntry, ts, ts)
	if err != nil {
		return Entry{}, fmt.Errorf("insert journal entry: %w", err)
	}
	return e, nil
}

// CloseParams describes closing an open entry. TradeID takes precedence;
// with only a symbol, the most recent OPEN entry for that symbol is
// closed.
type CloseParams struct {
	TradeID   string
	Symbol    string
	ExitPrice float64
	Outcome   string
	Lessons   string
	Status    string // CLOSED (default) or STOPPED_OUT
}

// CloseTrade records the exit and realized P&L of an open entry.
// P&L runs with the trade direction: long entries profit when the exit
// is above the entry, short entries the other way around.
func (j *Journal) CloseTrade(p CloseParams) (Entry, error) {
	status := p.Status
	if status == "" {
		status = StatusClosed
	}
	if status != StatusClosed && status != StatusStoppedOut {
		return Entry{}, fmt.Errorf("close trade: invalid status %q", status)
	}

	var row *sql.Row
	switch {
	case p.TradeID != "":
		row = j.db.QueryRow(`
			SELECT id, symbol, action, entry_price, entry_date, shares, amount, reasoning, strategy, signals_at_entry
			FROM trade_journal WHERE id = ? AND status = 'OPEN'`, p.TradeID)
	case p.Symbol != "":
		row = j.db.QueryRow(`
			SELECT id, symbol, action, entry_price, entry_date, shares, amount, reasoning, strategy, signals_at_entry
			FROM trade_journal WHERE symbol = ? AND status = 'OPEN'
			ORDER BY created_at DESC LIMIT 1`, p.Symbol)
	default:
		return Entry{}, errors.New("close trade: provide a trade id or symbol")
	}

	var e Entry
	var entryDate string
	err := row.Scan(&e.ID, &e.Symbol, &e.Action, &e.EntryPrice, &entryDate,
		&e.Shares, &e.Amount, &e.Reasoning, &e.Strategy, &e.SignalsAtEntry)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNoOpenTrade
	}
	if err != nil {
		return Entry{}, fmt.Errorf("find open trade: %w", err)
	}
	e.EntryDate, _ = time.Parse(timeLayout, entryDate)

	var pnl float64
	if e.Action == "BUY" {
		pnl = (p.ExitPrice - e.EntryPrice) * e.Shares
	} else {
		pnl = (e.EntryPrice - p.ExitPrice) * e.Shares
	}
	pnlPct := 0.0
	if basis := e.EntryPrice * e.Shares; basis > 0 {
		pnlPct = pnl / basis
	}

	now := j.now().UTC()
	ts := now.Format(timeLayout)
	_, err = j.db.Exec(`
		UPDATE trade_journal
		SET exit_price = ?, exit_date = ?, pnl = ?, pnl_pct = ?,
			outcome = ?, lessons = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		p.ExitPrice, ts, round2(pnl), round4(pnlPct),
		p.Outcome, p.Lessons, status, ts, e.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("update journal entry: %w", err)
	}

	e.ExitPrice = p.ExitPrice
	e.ExitDate = now
	e.PnL = round2(pnl)
	e.PnLPct = round4(pnlPct)
	e.Outcome = p.Outcome
	e.Lessons = p.Lessons
	e.Status = status
	return e, nil
}

// OpenTrades returns all OPEN entries, newest first.
func (j *Journal) OpenTrades() ([]Entry, error) {
	return j.list(`SELECT id, symbol, action, entry_price, entry_date, exit_price, exit_date,
		shares, amount, reasoning, strategy, signals_at_entry, outcome, lessons, pnl, pnl_pct, status
		FROM trade_journal WHERE status = 'OPEN' ORDER BY created_at DESC`)
}

// History returns up to limit closed entries, most recently updated
// first.
func (j *Journal) History(limit int) ([]Entry, error) {
	return j.list(`SELECT id, symbol, action, entry_price, entry_date, exit_price, exit_date,
		shares, amount, reasoning, strategy, signals_at_entry, outcome, lessons, pnl, pnl_pct, status
		FROM trade_journal WHERE status != 'OPEN' ORDER BY updated_at DESC LIMIT ?`, limit)
}

func (j *Journal) list(query string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var entryDate, exitDate, reasoning, signals, outcome, lessons sql.NullString
		var exitPriceF sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Symbol, &e.Action, &e.EntryPrice, &entryDate,
			&exitPriceF, &exitDate, &e.Shares, &e.Amount, &reasoning, &e.Strategy,
			&signals, &outcome, &lessons, &e.PnL, &e.PnLPct, &e.Status); err != nil {
			return nil, err
		}
		if entryDate.Valid {
			e.EntryDate, _ = time.Parse(timeLayout, entryDate.String)
		}
		if exitDate.Valid {
			e.ExitDate, _ = time.Parse(timeLayout, exitDate.String)
		}
		e.ExitPrice = exitPriceF.Float64
		e.Reasoning = reasoning.String
		e.SignalsAtEntry = signals.String
		e.Outcome = outcome.String
		e.Lessons = lessons.String
		out = append(out, e)
	}
	return out, rows.Err()
}
