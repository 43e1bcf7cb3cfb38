package ledger

import (
	"math"
	"time"

	"github.com/setquant/advisor/market"
)

// HoldingStatus is one valued position inside a PortfolioStatus.
type HoldingStatus struct {
	Symbol       string  `json:"symbol"`
	Shares       float64 `json:"shares"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
}

// PortfolioStatus is a read-only valuation of the whole portfolio.
type PortfolioStatus struct {
	AsOf               time.Time       `json:"as_of"`
	CashBalance        float64         `json:"cash_balance"`
	TotalMarketValue   float64         `json:"total_market_value"`
	TotalValue         float64         `json:"total_portfolio_value"`
	TotalPnL           float64         `json:"total_pnl"`
	Holdings           []HoldingStatus `json:"holdings"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
}

// Status values every open holding with the given price source and
// returns cash, market value, P&L and the most recent transactions.
//
// When the price source has no quote for a symbol, the holding is valued
// at its average cost, which makes its displayed P&L exactly zero. That
// is a documented approximation, not an error.
func (s *Store) Status(prices market.PriceSource) (PortfolioStatus, error) {
	cash, err := s.CashBalance()
	if err != nil {
		return PortfolioStatus{}, err
	}

	holdings, err := s.Holdings()
	if err != nil {
		return PortfolioStatus{}, err
	}

	status := PortfolioStatus{
		AsOf:        s.now(),
		CashBalance: round2(cash),
	}

	var totalMarket, totalCost float64
	for _, h := range holdings {
		price := quoteOrCost(prices, h)
		marketValue := h.Shares * price
		costBasis := h.Shares * h.AvgCost
		pnl := marketValue - costBasis

		pnlPct := 0.0
		if costBasis > 0 {
			pnlPct = pnl / costBasis * 100
		}

		status.Holdings = append(status.Holdings, HoldingStatus{
			Symbol:       h.Symbol,
			Shares:       h.Shares,
			AvgCost:      h.AvgCost,
			CurrentPrice: round2(price),
			MarketValue:  round2(marketValue),
			PnL:          round2(pnl),
			PnLPct:       round2(pnlPct),
		})
		totalMarket += marketValue
		totalCost += costBasis
	}

	status.TotalMarketValue = round2(totalMarket)
	status.TotalValue = round2(cash + totalMarket)
	status.TotalPnL = round2(totalMarket - totalCost)

	recent, err := s.RecentTransactions(20)
	if err != nil {
		return PortfolioStatus{}, err
	}
	status.RecentTransactions = recent

	return status, nil
}

// TotalValue computes cash plus the market value of every open holding,
// with the same avg-cost fallback as Status.
func (s *Store) TotalValue(prices market.PriceSource) (total, cash, marketValue float64, err error) {
	cash, err = s.CashBalance()
	if err != nil {
		return 0, 0, 0, err
	}

	holdings, err := s.Holdings()
	if err != nil {
		return 0, 0, 0, err
	}

	for _, h := range holdings {
		marketValue += h.Shares * quoteOrCost(prices, h)
	}
	return cash + marketValue, cash, marketValue, nil
}

// quoteOrCost returns the live price for a holding, falling back to its
// average cost when no quote is available.
func quoteOrCost(prices market.PriceSource, h Holding) float64 {
	if prices != nil {
		if p, ok := prices.CurrentPrice(h.Symbol); ok && p > 0 {
			return p
		}
	}
	return h.AvgCost
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
