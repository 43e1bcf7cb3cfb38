package journal

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closeRoundTrip(t *testing.T, j *Journal, symbol, strategy string, entry, exit float64) {
	t.Helper()

	_, err := j.OpenTrade(OpenParams{
		Symbol:   symbol,
		Action:   "BUY",
		Price:    entry,
		Shares:   100,
		Amount:   entry * 100,
		Strategy: strategy,
	})
	require.NoError(t, err)

	_, err = j.CloseTrade(CloseParams{Symbol: symbol, ExitPrice: exit})
	require.NoError(t, err)
}

func TestWinRate_EmptyJournal(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	stats, err := j.WinRate()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestWinRate(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	closeRoundTrip(t, j, "PTT", "", 50, 60)   // +1000
	closeRoundTrip(t, j, "AOT", "", 50, 55)   // +500
	closeRoundTrip(t, j, "KBANK", "", 50, 45) // -500

	stats, err := j.WinRate()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.InDelta(t, 2.0/3.0, stats.WinRate, 1e-4)
	assert.InDelta(t, 750.0, stats.AvgWin, 1e-9)
	assert.InDelta(t, 500.0, stats.AvgLoss, 1e-9)
	assert.InDelta(t, 1000.0, stats.TotalPnL, 1e-9)
	assert.InDelta(t, 3.0, stats.ProfitFactor, 1e-9)
	assert.Greater(t, stats.KellyFraction, 0.0)
	assert.LessOrEqual(t, stats.KellyFraction, 0.5)
}

func TestWinRate_CountsStoppedOut(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	_, err := j.OpenTrade(OpenParams{Symbol: "PTT", Action: "BUY", Price: 50, Shares: 100, Amount: 5000})
	require.NoError(t, err)
	_, err = j.CloseTrade(CloseParams{Symbol: "PTT", ExitPrice: 42, Status: StatusStoppedOut})
	require.NoError(t, err)

	stats, err := j.WinRate()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalTrades)
	assert.Equal(t, 1, stats.StoppedOut)
	assert.Equal(t, 1, stats.Losses)
}

func TestWinRate_NoLossesHasInfiniteProfitFactor(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	closeRoundTrip(t, j, "PTT", "", 50, 60)

	stats, err := j.WinRate()
	require.NoError(t, err)
	assert.True(t, math.IsInf(stats.ProfitFactor, 1))

	// encoding/json cannot carry +Inf; it goes out as the string "inf".
	data, err := json.Marshal(stats)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "inf", decoded["profit_factor"])
}

func TestStrategyPerformance(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	closeRoundTrip(t, j, "PTT", "composite", 50, 60)   // +1000
	closeRoundTrip(t, j, "AOT", "composite", 50, 45)   // -500
	closeRoundTrip(t, j, "KBANK", "breakout", 50, 70)  // +2000

	perf, err := j.StrategyPerformance()
	require.NoError(t, err)
	require.Len(t, perf, 2)

	// Sorted by total P&L descending.
	assert.Equal(t, "breakout", perf[0].Strategy)
	assert.InDelta(t, 2000.0, perf[0].TotalPnL, 1e-9)
	assert.InDelta(t, 1.0, perf[0].WinRate, 1e-9)

	assert.Equal(t, "composite", perf[1].Strategy)
	assert.Equal(t, 2, perf[1].Trades)
	assert.InDelta(t, 500.0, perf[1].TotalPnL, 1e-9)
	assert.InDelta(t, 0.5, perf[1].WinRate, 1e-9)
}

func TestStrategyPerformance_OpenTradesExcluded(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)

	_, err := j.OpenTrade(OpenParams{Symbol: "PTT", Action: "BUY", Price: 50, Shares: 100, Amount: 5000})
	require.NoError(t, err)

	perf, err := j.StrategyPerformance()
	require.NoError(t, err)
	assert.Empty(t, perf)
}
