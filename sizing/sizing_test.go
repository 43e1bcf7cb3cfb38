package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_ConvictionScalesLotAmount(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Budget:         100000,
		Conviction:     80,
		Price:          50,
		MaxPositionPct: 0.20,
		MinPosition:    5000,
	}

	got := Calculate(in)

	// 20000 cap * 0.8 conviction = 16000 raw, floored to 300 shares.
	assert.InDelta(t, 300.0, got.Shares, 1e-9)
	assert.InDelta(t, 15000.0, got.Amount, 1e-9)
}

func TestCalculate_ConvictionFactorClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		conviction float64
		wantShares float64
	}{
		{"floor at 0.3", 10, 100},    // 0.3 * 20000 = 6000 raw, 120 shares floored
		{"ceiling at 1.0", 250, 400}, // clamped to cap
		{"midrange", 50, 200},        // 0.5 * 20000 = 10000 raw
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Calculate(Inputs{
				Budget:         100000,
				Conviction:     tt.conviction,
				Price:          50,
				MaxPositionPct: 0.20,
				MinPosition:    1000,
			})
			assert.InDelta(t, tt.wantShares, got.Shares, 1e-9)
		})
	}
}

func TestCalculate_BoardLotFlooring(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{
		Budget:         100000,
		Conviction:     100,
		Price:          73,
		MaxPositionPct: 0.20,
		MinPosition:    1000,
	})

	// 20000 / 73 = 273.97 shares, floored to 200.
	assert.InDelta(t, 200.0, got.Shares, 1e-9)
	assert.InDelta(t, 14600.0, got.Amount, 1e-9)
	assert.Zero(t, math.Mod(got.Shares, BoardLot))
}

func TestCalculate_RejectsBelowMinimum(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{
		Budget:         10000,
		Conviction:     40,
		Price:          9,
		MaxPositionPct: 0.20,
		MinPosition:    5000,
	})

	assert.Zero(t, got.Shares)
	assert.Zero(t, got.Amount)
}

func TestCalculate_NonPositiveInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero budget", Inputs{Budget: 0, Conviction: 80, Price: 50, MaxPositionPct: 0.2}},
		{"zero conviction", Inputs{Budget: 100000, Conviction: 0, Price: 50, MaxPositionPct: 0.2}},
		{"negative conviction", Inputs{Budget: 100000, Conviction: -20, Price: 50, MaxPositionPct: 0.2}},
		{"zero price", Inputs{Budget: 100000, Conviction: 80, Price: 0, MaxPositionPct: 0.2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, Result{}, Calculate(tt.in))
		})
	}
}

func TestCalculate_AmountNeverExceedsCap(t *testing.T) {
	t.Parallel()

	for _, conviction := range []float64{30, 55, 80, 100, 180} {
		got := Calculate(Inputs{
			Budget:         200000,
			Conviction:     conviction,
			Price:          12.3,
			MaxPositionPct: 0.15,
			MinPosition:    1000,
		})
		assert.LessOrEqual(t, got.Amount, 200000*0.15+1e-9)
	}
}

func TestKelly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		winRate float64
		avgWin  float64
		avgLoss float64
		want    float64
	}{
		{"even odds coin flip", 0.5, 100, 100, 0},
		{"favorable", 0.6, 100, 100, 0.1},   // full kelly 0.2, halved
		{"asymmetric wins", 0.5, 200, 100, 0.125},
		{"zero loss", 0.6, 100, 0, 0},
		{"zero win rate", 0, 100, 100, 0},
		{"clamped to half", 0.99, 1000, 1, 0.5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Kelly(tt.winRate, tt.avgWin, tt.avgLoss), 1e-9)
		})
	}
}

func TestKelly_NeverNegativeNeverAboveHalf(t *testing.T) {
	t.Parallel()

	for _, wr := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		for _, b := range []float64{0.2, 1, 3, 10} {
			got := Kelly(wr, b*100, 100)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 0.5)
		}
	}
}
