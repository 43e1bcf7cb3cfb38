// Package sizing turns conviction and budget into a board-lot trade
// amount, and provides a Kelly-fraction estimator for retrospective
// calibration.
package sizing

import "math"

// BoardLot is the minimum tradable share increment on SET.
const BoardLot = 100

// Inputs are the parameters of one sizing computation.
type Inputs struct {
	Budget         float64 // available cash
	Conviction     float64 // composite score, 0..100
	Price          float64 // current share price
	MaxPositionPct float64 // cap as fraction of budget, e.g. 0.20
	MinPosition    float64 // minimum ticket; smaller trades are rejected
}

// Result is the sized trade.
type Result struct {
	Shares float64
	Amount float64
}

// Calculate sizes a position from conviction: the 30..100 score range
// maps to 30%..100% of the per-position cap, shares are floored to the
// board lot, and a trade below the minimum ticket is rejected outright
// rather than clamped up.
//
// Returns a zero Result when budget, conviction or price is not positive.
func Calculate(in Inputs) Result {
	if in.Budget <= 0 || in.Conviction <= 0 || in.Price <= 0 {
		return Result{}
	}

	maxPosition := in.Budget * in.MaxPositionPct

	convictionFactor := math.Max(0.3, math.Min(1.0, in.Conviction/100))
	raw := maxPosition * convictionFactor

	shares := math.Floor(raw/in.Price/BoardLot) * BoardLot
	amount := shares * in.Price

	if amount < in.MinPosition {
		return Result{}
	}

	return Result{
		Shares: shares,
		Amount: math.Round(amount*100) / 100,
	}
}

// Kelly computes the Kelly criterion f* = (p*b - q) / b with
// b = avgWin/avgLoss and q = 1-p, halved for safety and clamped to
// [0, 0.5]. Returns 0 when avgLoss or winRate is not positive.
//
// Advisory only; it is not wired into live sizing.
func Kelly(winRate, avgWin, avgLoss float64) float64 {
	if avgLoss <= 0 || winRate <= 0 {
		return 0
	}

	b := avgWin / avgLoss
	q := 1 - winRate
	kelly := (winRate*b - q) / b

	return math.Max(0, math.Min(0.5, kelly/2))
}
