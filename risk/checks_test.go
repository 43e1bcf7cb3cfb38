package risk

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setquant/advisor/config"
	"github.com/setquant/advisor/ledger"
	"github.com/setquant/advisor/market"
)

func newTestManager(t *testing.T, prices market.PriceSource) (*Manager, *ledger.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.Open(path, 100000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewManager(config.Default().Risk, store, prices), store
}

func TestCheckPositionLimits_WithinLimits(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, nil)

	check, err := m.CheckPositionLimits("PTT", 10000)
	require.NoError(t, err)

	assert.True(t, check.Allowed)
	assert.Empty(t, check.Warnings)
	assert.InDelta(t, 10000.0, check.AllowedAmount, 1e-9)
	assert.InDelta(t, 0.1, check.PositionPct, 1e-9)
}

func TestCheckPositionLimits_PositionCapShrinksAmount(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)

	// Existing 10000 PTT position; another 10000 would be 20% of 100k.
	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 10000, 50)
	require.NoError(t, err)

	check, err := m.CheckPositionLimits("PTT", 10000)
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	require.Len(t, check.Warnings, 1)
	assert.Contains(t, check.Warnings[0], "Position limit")
	// Max position is 15000, 10000 already held.
	assert.InDelta(t, 5000.0, check.AllowedAmount, 1e-9)
}

func TestCheckPositionLimits_DeploymentCap(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)

	// Deploy 45% across three symbols, then ask for 10% more.
	for _, sym := range []string{"PTT", "AOT", "KBANK"} {
		_, err := store.RecordTransaction(sym, ledger.ActionBuy, 15000, 50)
		require.NoError(t, err)
	}

	check, err := m.CheckPositionLimits("SCB", 10000)
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	require.Len(t, check.Warnings, 1)
	assert.Contains(t, check.Warnings[0], "Deployment cap")
	// Cap is 50000 total, 45000 deployed.
	assert.InDelta(t, 5000.0, check.AllowedAmount, 1e-9)
}

func TestCheckStopLosses(t *testing.T) {
	t.Parallel()

	prices := &market.StaticSource{Prices: map[string]float64{
		"PTT": 40,  // -20%, below the -15% threshold
		"AOT": 95,  // -5%
	}}
	m, store := newTestManager(t, prices)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 10000, 50)
	require.NoError(t, err)
	_, err = store.RecordTransaction("AOT", ledger.ActionBuy, 10000, 100)
	require.NoError(t, err)

	alerts, err := m.CheckStopLosses()
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byd := map[string]StopLossAlert{}
	for _, a := range alerts {
		byd[a.Symbol] = a
	}

	ptt := byd["PTT"]
	assert.True(t, ptt.Triggered)
	assert.InDelta(t, -0.2, ptt.PnLPct, 1e-9)
	assert.Contains(t, ptt.Message, "STOP-LOSS")

	aot := byd["AOT"]
	assert.False(t, aot.Triggered)
	assert.InDelta(t, -0.05, aot.PnLPct, 1e-9)
	assert.InDelta(t, 0.10, aot.DistanceToStop, 1e-9)
}

func TestCheckStopLosses_NoQuoteIsNeverTriggered(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 10000, 50)
	require.NoError(t, err)

	alerts, err := m.CheckStopLosses()
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// Valued at avg cost, P&L reads zero.
	assert.False(t, alerts[0].Triggered)
	assert.Zero(t, alerts[0].PnLPct)
}

func TestCheckDailyLossHalt_NoBaseline(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, nil)

	check, err := m.CheckDailyLossHalt()
	require.NoError(t, err)

	assert.False(t, check.Active)
	assert.True(t, check.NoBaseline)
	assert.Contains(t, check.Message, "No previous snapshot")
}

func TestCheckDailyLossHalt_Threshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		price      float64 // PTT quote on day two, entry at 50
		wantActive bool
	}{
		{"down 12 percent trips the breaker", 44, true},
		{"down exactly at threshold trips", 47.5, true},
		{"down 4 percent does not", 48, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prices := &market.StaticSource{Prices: map[string]float64{"PTT": tt.price}}
			m, store := newTestManager(t, prices)

			// Whole portfolio in PTT: value moves one-for-one with the quote.
			_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 100000, 50)
			require.NoError(t, err)

			store.SetClock(func() time.Time { return time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC) })
			_, err = store.RecordDailySnapshot(&market.StaticSource{Prices: map[string]float64{"PTT": 50}})
			require.NoError(t, err)

			store.SetClock(func() time.Time { return time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC) })
			check, err := m.CheckDailyLossHalt()
			require.NoError(t, err)

			assert.Equal(t, tt.wantActive, check.Active)
			assert.False(t, check.NoBaseline)
			if tt.wantActive {
				assert.Contains(t, check.Message, "HALT ACTIVE")
			}
		})
	}
}

func TestPortfolioHeat(t *testing.T) {
	t.Parallel()

	prices := &market.StaticSource{
		Prices: map[string]float64{"PTT": 50, "AOT": 100},
		Vols:   map[string]float64{"PTT": 0.40, "AOT": 0.20},
	}
	m, store := newTestManager(t, prices)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 30000, 50)
	require.NoError(t, err)
	_, err = store.RecordTransaction("AOT", ledger.ActionBuy, 20000, 100)
	require.NoError(t, err)

	report, err := m.PortfolioHeat()
	require.NoError(t, err)

	// 0.3*0.40 + 0.2*0.20 = 0.16 of a 100k portfolio.
	assert.InDelta(t, 0.16, report.TotalHeat, 1e-9)
	assert.Equal(t, HeatHigh, report.Level)
	require.Len(t, report.Positions, 2)
}

func TestPortfolioHeat_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vol  float64
		want string
	}{
		{"low", 0.10, HeatLow},        // 0.5 weight * 0.10 = 0.05
		{"medium", 0.20, HeatMedium},  // 0.10
		{"high", 0.40, HeatHigh},      // 0.20
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prices := &market.StaticSource{
				Prices: map[string]float64{"PTT": 50},
				Vols:   map[string]float64{"PTT": tt.vol},
			}
			m, store := newTestManager(t, prices)

			_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 50000, 50)
			require.NoError(t, err)

			report, err := m.PortfolioHeat()
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Level)
		})
	}
}

func TestPortfolioHeat_MissingVolContributesZero(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, &market.StaticSource{})

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 50000, 50)
	require.NoError(t, err)

	report, err := m.PortfolioHeat()
	require.NoError(t, err)
	assert.Zero(t, report.TotalHeat)
	assert.Equal(t, HeatLow, report.Level)
}

func TestCheckSectorConcentration(t *testing.T) {
	t.Parallel()

	prices := &market.StaticSource{
		Sectors: map[string]string{"PTT": "Energy", "TOP": "Energy", "KBANK": "Banking"},
	}
	m, store := newTestManager(t, prices)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 30000, 50)
	require.NoError(t, err)
	_, err = store.RecordTransaction("TOP", ledger.ActionBuy, 15000, 50)
	require.NoError(t, err)
	_, err = store.RecordTransaction("KBANK", ledger.ActionBuy, 10000, 100)
	require.NoError(t, err)

	report, err := m.CheckSectorConcentration()
	require.NoError(t, err)

	// Energy is 45% of the 100k portfolio, above the 40% limit.
	assert.False(t, report.WithinLimits)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Energy")

	require.Len(t, report.Sectors, 2)
	assert.Equal(t, "Energy", report.Sectors[0].Sector)
	assert.InDelta(t, 45000.0, report.Sectors[0].Value, 1e-9)
	assert.InDelta(t, 0.45, report.Sectors[0].Pct, 1e-9)
}

func TestCheckSectorConcentration_UnknownSectorGrouping(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 10000, 50)
	require.NoError(t, err)

	report, err := m.CheckSectorConcentration()
	require.NoError(t, err)

	require.Len(t, report.Sectors, 1)
	assert.Equal(t, "Unknown", report.Sectors[0].Sector)
	assert.True(t, report.WithinLimits)
}

func TestCheckPortfolioRisk_AggregatesWarnings(t *testing.T) {
	t.Parallel()

	prices := &market.StaticSource{Prices: map[string]float64{"PTT": 40}} // -20%
	m, store := newTestManager(t, prices)

	_, err := store.RecordTransaction("PTT", ledger.ActionBuy, 10000, 50)
	require.NoError(t, err)

	report, err := m.CheckPortfolioRisk()
	require.NoError(t, err)

	assert.Equal(t, "HIGH", report.RiskLevel)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "STOP-LOSS")
	assert.True(t, report.DailyHalt.NoBaseline)
}

func TestCheckPortfolioRisk_CleanPortfolio(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, nil)

	report, err := m.CheckPortfolioRisk()
	require.NoError(t, err)

	assert.Equal(t, "OK", report.RiskLevel)
	assert.Empty(t, report.Warnings)
	assert.InDelta(t, 100000.0, report.PortfolioValue, 1e-9)
	assert.Zero(t, report.DeploymentPct)
}
