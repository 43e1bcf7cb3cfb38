package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/setquant/advisor/market"
)

// Snapshot is one end-of-day portfolio valuation, keyed by calendar date.
type Snapshot struct {
	Date        string  `json:"snapshot_date"` // YYYY-MM-DD
	TotalValue  float64 `json:"total_value"`
	CashBalance float64 `json:"cash_balance"`
	MarketValue float64 `json:"market_value"`
	DailyPnL    float64 `json:"daily_pnl"`
	DailyPnLPct float64 `json:"daily_pnl_pct"`
}

const dateLayout = "2006-01-02"

// RecordDailySnapshot upserts today's valuation snapshot. Re-running it
// on the same date overwrites the earlier row, so the operation is
// idempotent. Daily P&L is computed against the most recent snapshot
// strictly before today; with no baseline it is zero.
func (s *Store) RecordDailySnapshot(prices market.PriceSource) (Snapshot, error) {
	total, cash, marketValue, err := s.TotalValue(prices)
	if err != nil {
		return Snapshot{}, err
	}

	today := s.now().UTC().Format(dateLayout)

	prev, ok, err := s.SnapshotBefore(today)
	if err != nil {
		return Snapshot{}, err
	}

	var dailyPnL, dailyPnLPct float64
	if ok {
		dailyPnL = total - prev.TotalValue
		if prev.TotalValue > 0 {
			dailyPnLPct = dailyPnL / prev.TotalValue
		}
	}

	snap := Snapshot{
		Date:        today,
		TotalValue:  round2(total),
		CashBalance: round2(cash),
		MarketValue: round2(marketValue),
		DailyPnL:    round2(dailyPnL),
		DailyPnLPct: round4(dailyPnLPct),
	}

	_, err = s.db.Exec(`
		INSERT INTO daily_snapshots (snapshot_date, total_value, cash_balance, market_value, daily_pnl, daily_pnl_pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_date) DO UPDATE SET
			total_value = excluded.total_value,
			cash_balance = excluded.cash_balance,
			market_value = excluded.market_value,
			daily_pnl = excluded.daily_pnl,
			daily_pnl_pct = excluded.daily_pnl_pct,
			created_at = excluded.created_at`,
		snap.Date, snap.TotalValue, snap.CashBalance, snap.MarketValue,
		snap.DailyPnL, snap.DailyPnLPct, s.timestamp())
	if err != nil {
		return Snapshot{}, fmt.Errorf("upsert snapshot: %w", err)
	}

	return snap, nil
}

// SnapshotBefore returns the most recent snapshot with a date strictly
// before the given YYYY-MM-DD date. ok is false when none exists.
func (s *Store) SnapshotBefore(date string) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.db.QueryRow(`
		SELECT snapshot_date, total_value, cash_balance, market_value, daily_pnl, daily_pnl_pct
		FROM daily_snapshots
		WHERE snapshot_date < ?
		ORDER BY snapshot_date DESC
		LIMIT 1`, date).
		Scan(&snap.Date, &snap.TotalValue, &snap.CashBalance, &snap.MarketValue,
			&snap.DailyPnL, &snap.DailyPnLPct)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("query snapshot: %w", err)
	}
	return snap, true, nil
}

// Today returns the store's current date in UTC, YYYY-MM-DD.
func (s *Store) Today() string {
	return s.now().UTC().Format(dateLayout)
}

// SetClock overrides the store's time source. Tests use this to control
// snapshot dates.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func round4(x float64) float64 {
	return round2(x*100) / 100
}
