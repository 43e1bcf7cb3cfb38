package risk

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// LimitCheck is the outcome of a position-limit check for one proposed
// BUY. A violation produces warnings and a reduced AllowedAmount; the
// caller decides whether to shrink or cancel.
type LimitCheck struct {
	Symbol          string   `json:"symbol"`
	RequestedAmount float64  `json:"requested_amount"`
	Allowed         bool     `json:"allowed"`
	AllowedAmount   float64  `json:"allowed_amount"`
	PositionPct     float64  `json:"position_pct"`
	DeploymentPct   float64  `json:"deployment_pct"`
	Warnings        []string `json:"warnings,omitempty"`
}

// CheckPositionLimits checks a proposed BUY amount against the
// per-symbol position cap and the total deployment cap.
func (m *Manager) CheckPositionLimits(symbol string, amount float64) (LimitCheck, error) {
	v, err := m.value()
	if err != nil {
		return LimitCheck{}, err
	}

	existing := v.values[symbol]
	check := LimitCheck{Symbol: symbol, RequestedAmount: amount}

	var positionPct, deploymentPct float64
	if v.totalValue > 0 {
		positionPct = (existing + amount) / v.totalValue
		deploymentPct = (v.totalMarket + amount) / v.totalValue
	}
	check.PositionPct = round4(positionPct)
	check.DeploymentPct = round4(deploymentPct)

	maxAllowedPosition := v.totalValue*m.cfg.MaxPositionPct - existing
	maxDeployAmount := v.totalValue*m.cfg.TotalDeploymentCap - v.totalMarket

	if positionPct > m.cfg.MaxPositionPct {
		check.Warnings = append(check.Warnings, fmt.Sprintf(
			"Position limit: %s would be %.1f%% of portfolio (max %.0f%%). Max additional: %.0f",
			symbol, positionPct*100, m.cfg.MaxPositionPct*100, math.Max(0, maxAllowedPosition)))
	}
	if deploymentPct > m.cfg.TotalDeploymentCap {
		check.Warnings = append(check.Warnings, fmt.Sprintf(
			"Deployment cap: portfolio would be %.1f%% deployed (max %.0f%%). Max additional: %.0f",
			deploymentPct*100, m.cfg.TotalDeploymentCap*100, math.Max(0, maxDeployAmount)))
	}

	check.Allowed = len(check.Warnings) == 0
	check.AllowedAmount = round2(math.Min(
		math.Min(math.Max(0, maxAllowedPosition), math.Max(0, maxDeployAmount)),
		amount))
	return check, nil
}

// StopLossAlert is the stop-loss state of one holding.
type StopLossAlert struct {
	Symbol         string  `json:"symbol"`
	Shares         float64 `json:"shares"`
	AvgCost        float64 `json:"avg_cost"`
	CurrentPrice   float64 `json:"current_price"`
	MarketValue    float64 `json:"market_value"`
	PnLPct         float64 `json:"pnl_pct"`
	Threshold      float64 `json:"stop_loss_threshold"`
	Triggered      bool    `json:"triggered"`
	DistanceToStop float64 `json:"distance_to_stop,omitempty"` // only meaningful when not triggered
	Message        string  `json:"message,omitempty"` // only set when triggered
}

// CheckStopLosses evaluates every open holding against the stop-loss
// threshold. A triggered alert is a recommendation to exit, not an
// automatic sell.
func (m *Manager) CheckStopLosses() ([]StopLossAlert, error) {
	holdings, err := m.store.Holdings()
	if err != nil {
		return nil, err
	}

	var alerts []StopLossAlert
	for _, h := range holdings {
		price := m.priceFor(h)

		pnlPct := 0.0
		if h.AvgCost > 0 {
			pnlPct = (price - h.AvgCost) / h.AvgCost
		}

		alert := StopLossAlert{
			Symbol:       h.Symbol,
			Shares:       h.Shares,
			AvgCost:      h.AvgCost,
			CurrentPrice: round2(price),
			MarketValue:  round2(h.Shares * price),
			PnLPct:       round4(pnlPct),
			Threshold:    m.cfg.StopLossPct,
		}
		if pnlPct <= m.cfg.StopLossPct {
			alert.Triggered = true
			alert.Message = fmt.Sprintf("STOP-LOSS: %s at %.1f%% (threshold %.0f%%)",
				h.Symbol, pnlPct*100, m.cfg.StopLossPct*100)
		} else {
			alert.DistanceToStop = round4(pnlPct - m.cfg.StopLossPct)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// HaltCheck is the daily-loss circuit breaker state. When Active, every
// BUY recommendation in the run must be downgraded to HOLD.
type HaltCheck struct {
	Active         bool    `json:"halt_active"`
	NoBaseline     bool    `json:"no_baseline,omitempty"` // no snapshot exists before today
	PreviousValue  float64 `json:"previous_value,omitempty"`
	CurrentValue   float64 `json:"current_value"`
	DailyChangePct float64 `json:"daily_change_pct"`
	Threshold      float64 `json:"halt_threshold"`
	Message        string  `json:"message"`
}

// CheckDailyLossHalt compares the live portfolio value against the most
// recent snapshot strictly before today. Without a baseline snapshot the
// halt is reported inactive with an explicit reason; run the snapshot
// operation first.
func (m *Manager) CheckDailyLossHalt() (HaltCheck, error) {
	v, err := m.value()
	if err != nil {
		return HaltCheck{}, err
	}

	prev, ok, err := m.store.SnapshotBefore(m.store.Today())
	if err != nil {
		return HaltCheck{}, err
	}
	if !ok {
		return HaltCheck{
			NoBaseline:   true,
			CurrentValue: round2(v.totalValue),
			Threshold:    m.cfg.DailyLossHaltPct,
			Message:      "No previous snapshot - record a snapshot first",
		}, nil
	}

	change := 0.0
	if prev.TotalValue > 0 {
		change = (v.totalValue - prev.TotalValue) / prev.TotalValue
	}

	check := HaltCheck{
		Active:         change <= m.cfg.DailyLossHaltPct,
		PreviousValue:  round2(prev.TotalValue),
		CurrentValue:   round2(v.totalValue),
		DailyChangePct: round4(change),
		Threshold:      m.cfg.DailyLossHaltPct,
	}
	if check.Active {
		check.Message = fmt.Sprintf(
			"HALT ACTIVE: portfolio down %.2f%% today (threshold %.0f%%). All BUY orders blocked.",
			change*100, m.cfg.DailyLossHaltPct*100)
	} else {
		check.Message = fmt.Sprintf("No halt. Daily change: %.2f%% (threshold %.0f%%)",
			change*100, m.cfg.DailyLossHaltPct*100)
	}
	return check, nil
}

// Portfolio heat levels.
const (
	HeatLow    = "LOW"
	HeatMedium = "MEDIUM"
	HeatHigh   = "HIGH"
)

// HeatPosition is one holding's contribution to portfolio heat.
type HeatPosition struct {
	Symbol       string  `json:"symbol"`
	MarketValue  float64 `json:"market_value"`
	Volatility   float64 `json:"volatility_20d"` // annualized; 0 when unavailable
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"heat_contribution"`
}

// HeatReport classifies volatility-weighted exposure.
type HeatReport struct {
	TotalHeat float64        `json:"total_heat"`
	Level     string         `json:"level"`
	Positions []HeatPosition `json:"positions,omitempty"`
}

// PortfolioHeat sums each holding's portfolio weight times its 20-day
// annualized volatility. Holdings without a volatility reading
// contribute zero.
func (m *Manager) PortfolioHeat() (HeatReport, error) {
	v, err := m.value()
	if err != nil {
		return HeatReport{}, err
	}

	report := HeatReport{Level: HeatLow}
	for _, h := range v.holdings {
		vol := 0.0
		if m.prices != nil {
			if x, ok := m.prices.Volatility20d(h.Symbol); ok {
				vol = x
			}
		}

		weight := 0.0
		if v.totalValue > 0 {
			weight = v.values[h.Symbol] / v.totalValue
		}
		contribution := weight * vol

		report.Positions = append(report.Positions, HeatPosition{
			Symbol:       h.Symbol,
			MarketValue:  round2(v.values[h.Symbol]),
			Volatility:   round4(vol),
			Weight:       round4(weight),
			Contribution: round4(contribution),
		})
		report.TotalHeat += contribution
	}

	report.TotalHeat = round4(report.TotalHeat)
	switch {
	case report.TotalHeat >= m.cfg.PortfolioHeatHigh:
		report.Level = HeatHigh
	case report.TotalHeat >= m.cfg.PortfolioHeatMedium:
		report.Level = HeatMedium
	}
	return report, nil
}

// SectorExposure is one sector's share of total portfolio value.
type SectorExposure struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Pct    float64 `json:"pct"`
}

// SectorReport lists sector exposures, largest first.
type SectorReport struct {
	Sectors      []SectorExposure `json:"sectors"`
	MaxSectorPct float64          `json:"max_sector_pct"`
	Warnings     []string         `json:"warnings,omitempty"`
	WithinLimits bool             `json:"within_limits"`
}

// CheckSectorConcentration warns when any single sector exceeds the
// configured share of total portfolio value. Symbols without a sector
// lookup group under "Unknown".
func (m *Manager) CheckSectorConcentration() (SectorReport, error) {
	v, err := m.value()
	if err != nil {
		return SectorReport{}, err
	}

	sectorValues := map[string]float64{}
	for _, h := range v.holdings {
		sector := "Unknown"
		if m.prices != nil {
			sector = m.prices.Sector(h.Symbol)
		}
		sectorValues[sector] += v.values[h.Symbol]
	}

	report := SectorReport{MaxSectorPct: m.cfg.MaxSectorPct}
	for sector, value := range sectorValues {
		pct := 0.0
		if v.totalValue > 0 {
			pct = value / v.totalValue
		}
		report.Sectors = append(report.Sectors, SectorExposure{
			Sector: sector,
			Value:  round2(value),
			Pct:    round4(pct),
		})
		if pct > m.cfg.MaxSectorPct {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"Sector %s at %.1f%% (max %.0f%%)", sector, pct*100, m.cfg.MaxSectorPct*100))
		}
	}
	sort.Slice(report.Sectors, func(i, k int) bool {
		return report.Sectors[i].Value > report.Sectors[k].Value
	})
	report.WithinLimits = len(report.Warnings) == 0
	return report, nil
}

// Report is the combined risk snapshot consumed before authorizing new
// BUYs.
type Report struct {
	AsOf           time.Time       `json:"as_of"`
	PortfolioValue float64         `json:"portfolio_value"`
	Cash           float64         `json:"cash"`
	DeploymentPct  float64         `json:"deployment_pct"`
	StopLosses     []StopLossAlert `json:"stop_losses"`
	DailyHalt      HaltCheck       `json:"daily_halt"`
	Heat           HeatReport      `json:"heat"`
	Sectors        SectorReport    `json:"sector_concentration"`
	Warnings       []string        `json:"warnings"`
	RiskLevel      string          `json:"risk_level"` // HIGH when any warning fired, else OK
}

// CheckPortfolioRisk runs every check and aggregates the warnings.
func (m *Manager) CheckPortfolioRisk() (Report, error) {
	stops, err := m.CheckStopLosses()
	if err != nil {
		return Report{}, err
	}
	halt, err := m.CheckDailyLossHalt()
	if err != nil {
		return Report{}, err
	}
	heat, err := m.PortfolioHeat()
	if err != nil {
		return Report{}, err
	}
	sectors, err := m.CheckSectorConcentration()
	if err != nil {
		return Report{}, err
	}
	v, err := m.value()
	if err != nil {
		return Report{}, err
	}

	deployment := 0.0
	if v.totalValue > 0 {
		deployment = v.totalMarket / v.totalValue
	}

	report := Report{
		AsOf:           time.Now(),
		PortfolioValue: round2(v.totalValue),
		Cash:           round2(v.cash),
		DeploymentPct:  round4(deployment),
		StopLosses:     stops,
		DailyHalt:      halt,
		Heat:           heat,
		Sectors:        sectors,
	}

	for _, s := range stops {
		if s.Triggered {
			report.Warnings = append(report.Warnings, s.Message)
		}
	}
	if halt.Active {
		report.Warnings = append(report.Warnings, halt.Message)
	}
	report.Warnings = append(report.Warnings, sectors.Warnings...)
	if heat.Level == HeatHigh {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Portfolio heat is HIGH (%.2f%%)", heat.TotalHeat*100))
	}

	report.RiskLevel = "OK"
	if len(report.Warnings) > 0 {
		report.RiskLevel = "HIGH"
	}
	return report, nil
}
