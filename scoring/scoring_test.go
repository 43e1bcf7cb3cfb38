package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_WeightedSum(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{
		"technical":   60,
		"fundamental": 50, // F-Score 7 maps here
		"sentiment":   -20,
	}
	weights := map[string]float64{
		"technical":   0.25,
		"fundamental": 0.30,
		"sentiment":   0.15,
	}

	got := Compute(scores, weights)

	// 60*0.25 + 50*0.30 - 20*0.15 = 15 + 15 - 3
	assert.InDelta(t, 27.0, got.Composite, 1e-9)
	assert.Equal(t, "HOLD", got.Signal)
	assert.InDelta(t, 50.0, got.Breakdown["fundamental"], 1e-9)
	assert.Equal(t, weights, got.Weights)
}

func TestCompute_UnweightedSignalIgnored(t *testing.T) {
	t.Parallel()

	got := Compute(
		map[string]float64{"technical": 80, "mystery": 1000},
		map[string]float64{"technical": 0.5},
	)

	assert.InDelta(t, 40.0, got.Composite, 1e-9)
	assert.InDelta(t, 1000.0, got.Breakdown["mystery"], 1e-9)
}

func TestCompute_CompositeClamped(t *testing.T) {
	t.Parallel()

	got := Compute(
		map[string]float64{"a": 100, "b": 100, "c": 100},
		map[string]float64{"a": 1, "b": 1, "c": 1},
	)
	assert.InDelta(t, 100.0, got.Composite, 1e-9)

	got = Compute(
		map[string]float64{"a": -100, "b": -100},
		map[string]float64{"a": 1, "b": 1},
	)
	assert.InDelta(t, -100.0, got.Composite, 1e-9)
}

func TestCompute_EmptyInputs(t *testing.T) {
	t.Parallel()

	got := Compute(nil, nil)
	assert.Zero(t, got.Composite)
	assert.Equal(t, "HOLD", got.Signal)
	assert.Empty(t, got.Breakdown)
}

func TestAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		composite float64
		want      string
	}{
		{"strong positive", 75, ActionBuy},
		{"just above buy", 30.01, ActionBuy},
		{"at buy threshold", 30, ActionHold},
		{"neutral", 0, ActionHold},
		{"at sell threshold", -30, ActionHold},
		{"just below sell", -30.01, ActionSell},
		{"strong negative", -75, ActionSell},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Action(tt.composite))
		})
	}
}

func TestFiveWaySignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		composite float64
		want      string
	}{
		{"strong buy", 61, "STRONG BUY"},
		{"at strong boundary", 60, "BUY"},
		{"buy band", 45, "BUY"},
		{"at buy boundary", 30, "HOLD"},
		{"hold band", 0, "HOLD"},
		{"at sell boundary", -30, "SELL"},
		{"sell band", -45, "SELL"},
		{"at strong sell boundary", -60, "STRONG SELL"},
		{"strong sell", -61, "STRONG SELL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FiveWaySignal(tt.composite))
		})
	}
}
