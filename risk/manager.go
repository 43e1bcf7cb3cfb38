// Package risk runs the capital-preservation checks: per-position
// limits, the deployment cap, stop-losses, the daily-loss circuit
// breaker, portfolio heat and sector concentration.
//
// Checks read live ledger state plus externally supplied prices. A
// violated policy is reported as a warning inside the result struct,
// never as a Go error; errors are reserved for the ledger itself
// failing.
package risk

import (
	"math"

	"github.com/setquant/advisor/config"
	"github.com/setquant/advisor/ledger"
	"github.com/setquant/advisor/market"
)

// Manager evaluates risk policy against the ledger.
type Manager struct {
	cfg    config.RiskConfig
	store  *ledger.Store
	prices market.PriceSource
}

// NewManager wires the risk policy to a ledger and a price source.
func NewManager(cfg config.RiskConfig, store *ledger.Store, prices market.PriceSource) *Manager {
	return &Manager{cfg: cfg, store: store, prices: prices}
}

// priceFor returns the live price for a holding, falling back to its
// average cost when no quote is available.
func (m *Manager) priceFor(h ledger.Holding) float64 {
	if m.prices != nil {
		if p, ok := m.prices.CurrentPrice(h.Symbol); ok && p > 0 {
			return p
		}
	}
	return h.AvgCost
}

// valuation is the shared snapshot every check starts from.
type valuation struct {
	cash        float64
	totalMarket float64
	totalValue  float64
	holdings    []ledger.Holding
	values      map[string]float64 // symbol -> market value
}

func (m *Manager) value() (valuation, error) {
	cash, err := m.store.CashBalance()
	if err != nil {
		return valuation{}, err
	}
	holdings, err := m.store.Holdings()
	if err != nil {
		return valuation{}, err
	}

	v := valuation{cash: cash, holdings: holdings, values: map[string]float64{}}
	for _, h := range holdings {
		value := h.Shares * m.priceFor(h)
		v.values[h.Symbol] = value
		v.totalMarket += value
	}
	v.totalValue = cash + v.totalMarket
	return v, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
