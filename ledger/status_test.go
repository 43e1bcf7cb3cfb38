package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setquant/advisor/market"
)

func TestStatus_ValuesHoldingsAtQuote(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.RecordTransaction("PTT", ActionBuy, 15000, 50) // 300 shares
	require.NoError(t, err)

	prices := &market.StaticSource{Prices: map[string]float64{"PTT": 60}}

	status, err := s.Status(prices)
	require.NoError(t, err)

	assert.InDelta(t, 85000.0, status.CashBalance, 1e-9)
	assert.InDelta(t, 18000.0, status.TotalMarketValue, 1e-9)
	assert.InDelta(t, 103000.0, status.TotalValue, 1e-9)
	assert.InDelta(t, 3000.0, status.TotalPnL, 1e-9)

	require.Len(t, status.Holdings, 1)
	h := status.Holdings[0]
	assert.InDelta(t, 60.0, h.CurrentPrice, 1e-9)
	assert.InDelta(t, 3000.0, h.PnL, 1e-9)
	assert.InDelta(t, 20.0, h.PnLPct, 1e-9)

	require.Len(t, status.RecentTransactions, 1)
	assert.Equal(t, "PTT", status.RecentTransactions[0].Symbol)
}

func TestStatus_NoQuoteFallsBackToAvgCost(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.RecordTransaction("PTT", ActionBuy, 15000, 50)
	require.NoError(t, err)

	status, err := s.Status(nil)
	require.NoError(t, err)

	require.Len(t, status.Holdings, 1)
	h := status.Holdings[0]
	assert.InDelta(t, 50.0, h.CurrentPrice, 1e-9)
	assert.Zero(t, h.PnL)
	assert.Zero(t, h.PnLPct)
	assert.InDelta(t, 100000.0, status.TotalValue, 1e-9)
}

func TestStatus_EmptyPortfolio(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	status, err := s.Status(nil)
	require.NoError(t, err)

	assert.InDelta(t, 100000.0, status.CashBalance, 1e-9)
	assert.Zero(t, status.TotalMarketValue)
	assert.InDelta(t, 100000.0, status.TotalValue, 1e-9)
	assert.Empty(t, status.Holdings)
}

func TestTotalValue(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.RecordTransaction("PTT", ActionBuy, 15000, 50)
	require.NoError(t, err)
	_, err = s.RecordTransaction("AOT", ActionBuy, 10000, 100)
	require.NoError(t, err)

	prices := &market.StaticSource{Prices: map[string]float64{"PTT": 55}}

	total, cash, marketValue, err := s.TotalValue(prices)
	require.NoError(t, err)

	assert.InDelta(t, 75000.0, cash, 1e-9)
	// PTT at quote 55, AOT at avg cost 100.
	assert.InDelta(t, 300*55.0+10000.0, marketValue, 1e-9)
	assert.InDelta(t, cash+marketValue, total, 1e-9)
}
