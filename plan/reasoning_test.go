package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/setquant/advisor/signal"
)

func TestBuildReasoning_FullSet(t *testing.T) {
	t.Parallel()

	set := signal.Set{
		Technical: signal.TechnicalResult{Value: signal.Technical{
			Indicators:  map[string]float64{"rsi": 28.5, "macd_histogram": 0.12},
			Signals:     []string{"RSI oversold"},
			VolumeRatio: 2.1,
		}},
		Sentiment: signal.SentimentResult{Value: signal.Sentiment{
			Score: 0.42, Label: "positive", Confidence: "High", TotalMentions: 17,
		}},
		Fundamental: signal.FundamentalResult{Value: signal.Fundamental{
			FScore: 7,
			Ratios: map[string]float64{"roe": 0.142, "debt_to_equity": 0.8},
		}},
		News: signal.NewsResult{Value: signal.News{Count: 5, Positive: 3, Negative: 1}},
	}

	got := buildReasoning(set)

	assert.Contains(t, got, "RSI=28.5")
	assert.Contains(t, got, "MACD bullish")
	assert.Contains(t, got, "RSI oversold")
	assert.Contains(t, got, "Vol=2.1x avg")
	assert.Contains(t, got, "Sentiment=positive(+0.42, 17 mentions, High)")
	assert.Contains(t, got, "F-Score=7/9")
	assert.Contains(t, got, "ROE=14.2%")
	assert.Contains(t, got, "D/E=0.80")
	assert.Contains(t, got, "News=5 articles (pos=3, neg=1)")
	assert.Contains(t, got, "Sources: T/S/F/N")
}

func TestBuildReasoning_PartialSet(t *testing.T) {
	t.Parallel()

	set := signal.Set{
		Technical: signal.TechnicalResult{Value: signal.Technical{
			Indicators: map[string]float64{"macd_histogram": -0.3},
		}},
		Sentiment:   signal.SentimentResult{Err: "scrape failed"},
		Fundamental: signal.FundamentalResult{Err: "no filings"},
		News:        signal.NewsResult{Value: signal.News{}},
	}

	got := buildReasoning(set)

	assert.Contains(t, got, "MACD bearish")
	assert.NotContains(t, got, "Sentiment")
	assert.NotContains(t, got, "F-Score")
	// News with zero articles contributes neither a part nor a source.
	assert.Contains(t, got, "Sources: T")
	assert.NotContains(t, got, "/N")
}

func TestBuildReasoning_NothingUsable(t *testing.T) {
	t.Parallel()

	set := signal.Set{
		Technical:   signal.TechnicalResult{Err: "x"},
		Sentiment:   signal.SentimentResult{Err: "x"},
		Fundamental: signal.FundamentalResult{Err: "x"},
		News:        signal.NewsResult{Err: "x"},
	}

	assert.Equal(t, "Insufficient data", buildReasoning(set))
}
