// Package scoring combines per-signal scores into one bounded composite
// score and maps it onto trade actions.
package scoring

import "math"

// Actions derived from the composite score.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
	ActionSkip = "SKIP"
)

// Composite-score action thresholds.
const (
	BuyThreshold    = 30.0
	SellThreshold   = -30.0
	StrongThreshold = 60.0
)

// Result is one composite-score computation. Breakdown and Weights are
// retained so every recommendation can be audited after the fact.
type Result struct {
	Composite float64
	Signal    string
	Breakdown map[string]float64
	Weights   map[string]float64
}

// Compute produces the weighted composite score, clamped to [-100, +100].
// Signals without a configured weight contribute nothing; weights need
// not sum to 1.
func Compute(scores, weights map[string]float64) Result {
	composite := 0.0
	breakdown := make(map[string]float64, len(scores))

	for name, score := range scores {
		composite += score * weights[name]
		breakdown[name] = round2(score)
	}
	composite = clamp(composite, -100, 100)

	return Result{
		Composite: round2(composite),
		Signal:    FiveWaySignal(composite),
		Breakdown: breakdown,
		Weights:   weights,
	}
}

// Action maps a composite score onto BUY/SELL/HOLD.
func Action(composite float64) string {
	switch {
	case composite > BuyThreshold:
		return ActionBuy
	case composite < SellThreshold:
		return ActionSell
	default:
		return ActionHold
	}
}

// FiveWaySignal is the finer-grained scale with STRONG bands at ±60.
func FiveWaySignal(composite float64) string {
	switch {
	case composite > StrongThreshold:
		return "STRONG BUY"
	case composite > BuyThreshold:
		return "BUY"
	case composite > SellThreshold:
		return "HOLD"
	case composite > -StrongThreshold:
		return "SELL"
	default:
		return "STRONG SELL"
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
