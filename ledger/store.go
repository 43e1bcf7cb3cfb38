// Package ledger is the single source of truth for cash and holdings,
// with an append-only transaction history and daily valuation snapshots.
//
// The engine assumes exclusive access during a decision cycle; concurrent
// writers against the same database are the deployment's problem, not
// handled here.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/setquant/advisor/pkg/id"
)

// Trade actions recorded in the transactions table.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

const timeLayout = time.RFC3339Nano

// Store is a SQLite-backed portfolio ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if necessary) the ledger database at path and
// seeds the singleton portfolio row with initialCash on first use.
func Open(path string, initialCash float64) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}

	_, err = db.Exec(
		`INSERT OR IGNORE INTO portfolio (id, cash_balance, updated_at) VALUES (1, ?, ?)`,
		initialCash, s.timestamp(),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed portfolio: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// Transaction is one immutable trade record.
type Transaction struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Holding is one open position.
type Holding struct {
	Symbol    string    `json:"symbol"`
	Shares    float64   `json:"shares"`
	AvgCost   float64   `json:"avg_cost"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CashBalance returns the current cash balance.
func (s *Store) CashBalance() (float64, error) {
	var cash float64
	err := s.db.QueryRow(`SELECT cash_balance FROM portfolio WHERE id = 1`).Scan(&cash)
	if err != nil {
		return 0, fmt.Errorf("read cash balance: %w", err)
	}
	return cash, nil
}

// Holdings returns all positions with shares > 0. Zero-share rows are
// kept in the table but excluded from valuation.
func (s *Store) Holdings() ([]Holding, error) {
	rows, err := s.db.Query(
		`SELECT symbol, shares, avg_cost, updated_at FROM holdings WHERE shares > 0 ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		var h Holding
		var updated string
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.AvgCost, &updated); err != nil {
			return nil, err
		}
		h.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, h)
	}
	return out, rows.Err()
}

// RecordTransaction applies one executed BUY or SELL to the ledger:
// cash update, holding upsert and transaction insert happen in a single
// SQL transaction, so a partial write can never be observed.
//
// Shares are derived as amount/price (zero when price is not positive).
// A BUY recomputes the holding's shares-weighted average cost. A SELL
// only decrements shares; over-selling is not rejected here and leaves
// negative shares for the caller to detect.
func (s *Store) RecordTransaction(symbol, action string, amount, price float64) (Transaction, error) {
	if action != ActionBuy && action != ActionSell {
		return Transaction{}, fmt.Errorf("record transaction: unknown action %q", action)
	}

	var shares float64
	if price > 0 {
		shares = amount / price
	}
	now := s.timestamp()

	tx, err := s.db.Begin()
	if err != nil {
		return Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	switch action {
	case ActionBuy:
		var cash float64
		if err := tx.QueryRow(`SELECT cash_balance FROM portfolio WHERE id = 1`).Scan(&cash); err != nil {
			return Transaction{}, fmt.Errorf("read cash balance: %w", err)
		}
		if amount > cash {
			return Transaction{}, fmt.Errorf("record transaction: BUY %s amount %.2f exceeds cash %.2f", symbol, amount, cash)
		}

		_, err = tx.Exec(
			`UPDATE portfolio SET cash_balance = cash_balance - ?, updated_at = ? WHERE id = 1`,
			amount, now)
		if err != nil {
			return Transaction{}, fmt.Errorf("debit cash: %w", err)
		}

		var oldShares, oldCost float64
		err = tx.QueryRow(`SELECT shares, avg_cost FROM holdings WHERE symbol = ?`, symbol).
			Scan(&oldShares, &oldCost)
		switch {
		case err == sql.ErrNoRows:
			_, err = tx.Exec(
				`INSERT INTO holdings (symbol, shares, avg_cost, updated_at) VALUES (?, ?, ?, ?)`,
				symbol, shares, price, now)
			if err != nil {
				return Transaction{}, fmt.Errorf("insert holding: %w", err)
			}
		case err != nil:
			return Transaction{}, fmt.Errorf("read holding: %w", err)
		default:
			newShares := oldShares + shares
			newAvgCost := 0.0
			if newShares > 0 {
				newAvgCost = (oldShares*oldCost + amount) / newShares
			}
			_, err = tx.Exec(
				`UPDATE holdings SET shares = ?, avg_cost = ?, updated_at = ? WHERE symbol = ?`,
				newShares, newAvgCost, now, symbol)
			if err != nil {
				return Transaction{}, fmt.Errorf("update holding: %w", err)
			}
		}

	case ActionSell:
		_, err = tx.Exec(
			`UPDATE portfolio SET cash_balance = cash_balance + ?, updated_at = ? WHERE id = 1`,
			amount, now)
		if err != nil {
			return Transaction{}, fmt.Errorf("credit cash: %w", err)
		}

		_, err = tx.Exec(
			`UPDATE holdings SET shares = shares - ?, updated_at = ? WHERE symbol = ?`,
			shares, now, symbol)
		if err != nil {
			return Transaction{}, fmt.Errorf("reduce holding: %w", err)
		}
	}

	rec := Transaction{
		ID:     id.New(),
		Symbol: symbol,
		Action: action,
		Shares: shares,
		Price:  price,
		Amount: amount,
	}
	rec.Timestamp, _ = time.Parse(timeLayout, now)

	_, err = tx.Exec(
		`INSERT INTO transactions (id, symbol, action, shares, price, amount, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Symbol, rec.Action, rec.Shares, rec.Price, rec.Amount, now)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}
	return rec, nil
}

// RecentTransactions returns the latest n transactions, newest first.
func (s *Store) RecentTransactions(n int) ([]Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, symbol, action, shares, price, amount, timestamp
		 FROM transactions ORDER BY timestamp DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var ts string
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Action, &t.Shares, &t.Price, &t.Amount, &ts); err != nil {
			return nil, err
		}
		t.Timestamp, _ = time.Parse(timeLayout, ts)
		out = append(out, t)
	}
	return out, rows.Err()
}
