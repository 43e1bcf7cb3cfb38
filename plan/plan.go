// Package plan wires the full per-symbol decision pipeline: composite
// scoring, action thresholds, position sizing and risk checks, producing
// one bounded recommendation per watchlist symbol.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/setquant/advisor/config"
	"github.com/setquant/advisor/market"
	"github.com/setquant/advisor/risk"
	"github.com/setquant/advisor/scoring"
	"github.com/setquant/advisor/signal"
	"github.com/setquant/advisor/sizing"
)

// Action is the final recommendation for one symbol.
type Action struct {
	Symbol         string             `json:"symbol"`
	Name           string             `json:"name,omitempty"`
	Sector         string             `json:"sector,omitempty"`
	Action         string             `json:"action"` // BUY, SELL, HOLD or SKIP
	CompositeScore float64            `json:"composite_score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
	Amount         float64            `json:"amount"`
	Reasoning      string             `json:"reasoning,omitempty"`
	Err            string             `json:"error,omitempty"` // set when the symbol was skipped
}

// Summary counts the plan's actions.
type Summary struct {
	BuyCount       int     `json:"buy_count"`
	SellCount      int     `json:"sell_count"`
	HoldCount      int     `json:"hold_count"`
	SkipCount      int     `json:"skip_count"`
	TotalBuyAmount float64 `json:"total_buy_amount"`
}

// ActionPlan is the produced artifact of one decision run.
type ActionPlan struct {
	Date         string    `json:"date"`
	GeneratedAt  time.Time `json:"generated_at"`
	Budget       float64   `json:"budget"`
	Actions      []Action  `json:"actions"`
	Summary      Summary   `json:"summary"`
	RiskWarnings []string  `json:"risk_warnings"`
}

// Planner runs the decision pipeline. Construct one per process and pass
// it around; there is no package-level instance.
type Planner struct {
	cfg     *config.Config
	risk    *risk.Manager
	signals signal.Provider
}

// New wires a planner from its collaborators.
func New(cfg *config.Config, rm *risk.Manager, signals signal.Provider) *Planner {
	return &Planner{cfg: cfg, risk: rm, signals: signals}
}

// Generate walks the watchlist sequentially and assembles the action
// plan. The daily-loss halt is consulted once up front; while it is
// active every BUY in the run is downgraded to HOLD. Per-symbol failures
// degrade that symbol to SKIP without stopping the run.
func (p *Planner) Generate(budget float64, watchlist *market.Watchlist) (ActionPlan, error) {
	now := time.Now()
	out := ActionPlan{
		Date:        now.Format("2006-01-02"),
		GeneratedAt: now,
		Budget:      budget,
	}

	halt, err := p.risk.CheckDailyLossHalt()
	if err != nil {
		return ActionPlan{}, fmt.Errorf("daily loss halt check: %w", err)
	}
	if halt.Active {
		out.RiskWarnings = append(out.RiskWarnings, halt.Message)
	}

	for _, stock := range watchlist.Stocks {
		act := p.decide(budget, stock, halt.Active, &out.RiskWarnings)
		out.Actions = append(out.Actions, act)
	}

	out.Summary = summarize(out.Actions)
	return out, nil
}

func (p *Planner) decide(budget float64, stock market.Stock, haltActive bool, runWarnings *[]string) Action {
	set := p.signals.Analyze(stock.Symbol)

	act := Action{
		Symbol: stock.Symbol,
		Name:   stock.Name,
		Sector: stock.Sector,
	}

	if set.AllUnavailable() {
		act.Action = scoring.ActionSkip
		act.Err = set.Technical.Err
		return act
	}

	scores := signal.Scores(set)
	result := scoring.Compute(scores, p.cfg.Scoring.Weights)
	act.CompositeScore = result.Composite
	act.ScoreBreakdown = result.Breakdown
	act.Action = scoring.Action(result.Composite)

	var riskNotes []string

	if act.Action == scoring.ActionBuy {
		if haltActive {
			act.Action = scoring.ActionHold
			riskNotes = append(riskNotes, "Daily loss halt active - BUY overridden to HOLD")
		} else {
			sized := sizing.Calculate(sizing.Inputs{
				Budget:         budget,
				Conviction:     result.Composite,
				Price:          set.Technical.Value.Close,
				MaxPositionPct: p.cfg.Sizing.MaxPositionPct,
				MinPosition:    p.cfg.Sizing.MinPosition,
			})
			act.Amount = sized.Amount

			if act.Amount > 0 {
				check, err := p.risk.CheckPositionLimits(stock.Symbol, act.Amount)
				if err != nil {
					act.Action = scoring.ActionSkip
					act.Amount = 0
					act.Err = err.Error()
					return act
				}
				if !check.Allowed {
					riskNotes = append(riskNotes, check.Warnings...)
					if check.AllowedAmount > 0 {
						act.Amount = check.AllowedAmount
						riskNotes = append(riskNotes, fmt.Sprintf(
							"Amount reduced to %.0f due to position limits", act.Amount))
					} else {
						act.Action = scoring.ActionHold
						act.Amount = 0
						riskNotes = append(riskNotes, "BUY blocked - position limits exceeded")
					}
				}
			}
		}
	}

	act.Reasoning = buildReasoning(set)
	if len(riskNotes) > 0 {
		act.Reasoning += " | RISK: " + strings.Join(riskNotes, "; ")
		*runWarnings = append(*runWarnings, riskNotes...)
	}
	return act
}

func summarize(actions []Action) Summary {
	var s Summary
	for _, a := range actions {
		switch a.Action {
		case scoring.ActionBuy:
			s.BuyCount++
			s.TotalBuyAmount += a.Amount
		case scoring.ActionSell:
			s.SellCount++
		case scoring.ActionHold:
			s.HoldCount++
		case scoring.ActionSkip:
			s.SkipCount++
		}
	}
	return s
}
