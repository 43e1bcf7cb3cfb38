package journal

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/setquant/advisor/sizing"
)

// Stats aggregates all CLOSED and STOPPED_OUT entries.
type Stats struct {
	TotalTrades   int     `json:"total_trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	StoppedOut    int     `json:"stopped_out"`
	WinRate       float64 `json:"win_rate"`
	AvgWin        float64 `json:"avg_win"` // absolute
	AvgLoss       float64 `json:"avg_loss"` // absolute
	AvgWinPct     float64 `json:"avg_win_pct"`
	AvgLossPct    float64 `json:"avg_loss_pct"`
	TotalPnL      float64 `json:"total_pnl"`
	ProfitFactor  float64 `json:"-"` // +Inf when there are no losing trades
	KellyFraction float64 `json:"kelly_fraction"`
}

// MarshalJSON emits ProfitFactor as the string "inf" when there are no
// losing trades; encoding/json cannot represent +Inf.
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	out := struct {
		alias
		ProfitFactor any `json:"profit_factor"`
	}{alias: alias(s), ProfitFactor: s.ProfitFactor}
	if math.IsInf(s.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}

// WinRate computes win rate, average win/loss, profit factor and the
// half-Kelly fraction implied by the closed-trade history. A zero-trade
// history returns zero Stats.
func (j *Journal) WinRate() (Stats, error) {
	closed, err := j.closedEntries()
	if err != nil {
		return Stats{}, err
	}
	if len(closed) == 0 {
		return Stats{}, nil
	}

	var s Stats
	var grossProfit, grossLoss, winPct, lossPct float64

	for _, e := range closed {
		s.TotalTrades++
		s.TotalPnL += e.PnL
		if e.Status == StatusStoppedOut {
			s.StoppedOut++
		}
		if e.PnL > 0 {
			s.Wins++
			grossProfit += e.PnL
			winPct += e.PnLPct
		} else {
			s.Losses++
			grossLoss += -e.PnL
			lossPct += e.PnLPct
		}
	}

	s.WinRate = round4(float64(s.Wins) / float64(s.TotalTrades))
	if s.Wins > 0 {
		s.AvgWin = round2(grossProfit / float64(s.Wins))
		s.AvgWinPct = round4(winPct / float64(s.Wins))
	}
	if s.Losses > 0 {
		s.AvgLoss = round2(grossLoss / float64(s.Losses))
		s.AvgLossPct = round4(lossPct / float64(s.Losses))
	}
	if grossLoss > 0 {
		s.ProfitFactor = round2(grossProfit / grossLoss)
	} else {
		s.ProfitFactor = math.Inf(1)
	}
	s.TotalPnL = round2(s.TotalPnL)
	s.KellyFraction = round4(sizing.Kelly(s.WinRate, s.AvgWin, s.AvgLoss))

	return s, nil
}

// StrategyStats aggregates closed entries for one strategy label.
type StrategyStats struct {
	Strategy string  `json:"strategy"`
	Trades   int     `json:"trades"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinRate  float64 `json:"win_rate"`
	TotalPnL float64 `json:"total_pnl"`
}

// StrategyPerformance groups closed entries by strategy label, sorted by
// total P&L descending.
func (j *Journal) StrategyPerformance() ([]StrategyStats, error) {
	closed, err := j.closedEntries()
	if err != nil {
		return nil, err
	}

	byStrategy := map[string]*StrategyStats{}
	for _, e := range closed {
		name := e.Strategy
		if name == "" {
			name = "unknown"
		}
		st, ok := byStrategy[name]
		if !ok {
			st = &StrategyStats{Strategy: name}
			byStrategy[name] = st
		}
		st.Trades++
		st.TotalPnL += e.PnL
		if e.PnL > 0 {
			st.Wins++
		} else {
			st.Losses++
		}
	}

	out := make([]StrategyStats, 0, len(byStrategy))
	for _, st := range byStrategy {
		st.WinRate = round4(float64(st.Wins) / float64(st.Trades))
		st.TotalPnL = round2(st.TotalPnL)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].TotalPnL > out[k].TotalPnL })
	return out, nil
}

func (j *Journal) closedEntries() ([]Entry, error) {
	rows, err := j.list(`SELECT id, symbol, action, entry_price, entry_date, exit_price, exit_date,
		shares, amount, reasoning, strategy, signals_at_entry, outcome, lessons, pnl, pnl_pct, status
		FROM trade_journal WHERE status IN ('CLOSED', 'STOPPED_OUT') ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("closed entries: %w", err)
	}
	return rows, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
