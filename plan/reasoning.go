package plan

import (
	"fmt"
	"strings"

	"github.com/setquant/advisor/signal"
)

// buildReasoning condenses the collaborator payloads into one
// human-readable line, e.g.
// "RSI=28.5 | MACD bullish | Sentiment=positive(+0.42, 17 mentions, High) | F-Score=7/9 | Sources: T/S/F".
func buildReasoning(set signal.Set) string {
	var parts []string

	if !set.Technical.Unavailable() {
		t := set.Technical.Value
		if rsi, ok := t.Indicators["rsi"]; ok {
			parts = append(parts, fmt.Sprintf("RSI=%.1f", rsi))
		}
		if macd, ok := t.Indicators["macd_histogram"]; ok {
			direction := "bearish"
			if macd > 0 {
				direction = "bullish"
			}
			parts = append(parts, "MACD "+direction)
		}
		if len(t.Signals) > 0 {
			parts = append(parts, strings.Join(t.Signals, ", "))
		}
		if t.VolumeRatio > 1.5 {
			parts = append(parts, fmt.Sprintf("Vol=%.1fx avg", t.VolumeRatio))
		}
	}

	if !set.Sentiment.Unavailable() {
		s := set.Sentiment.Value
		if s.TotalMentions > 0 {
			parts = append(parts, fmt.Sprintf("Sentiment=%s(%+.2f, %d mentions, %s)",
				s.Label, s.Score, s.TotalMentions, s.Confidence))
		}
	}

	if !set.Fundamental.Unavailable() {
		f := set.Fundamental.Value
		parts = append(parts, fmt.Sprintf("F-Score=%d/9", f.FScore))
		if roe, ok := f.Ratios["roe"]; ok {
			parts = append(parts, fmt.Sprintf("ROE=%.1f%%", roe*100))
		}
		if de, ok := f.Ratios["debt_to_equity"]; ok {
			parts = append(parts, fmt.Sprintf("D/E=%.2f", de))
		}
	}

	if !set.News.Unavailable() {
		n := set.News.Value
		if n.Count > 0 {
			parts = append(parts, fmt.Sprintf("News=%d articles (pos=%d, neg=%d)",
				n.Count, n.Positive, n.Negative))
		}
	}

	var sources []string
	if !set.Technical.Unavailable() {
		sources = append(sources, "T")
	}
	if !set.Sentiment.Unavailable() && set.Sentiment.Value.TotalMentions > 0 {
		sources = append(sources, "S")
	}
	if !set.Fundamental.Unavailable() {
		sources = append(sources, "F")
	}
	if !set.News.Unavailable() && set.News.Value.Count > 0 {
		sources = append(sources, "N")
	}
	if len(sources) > 0 {
		parts = append(parts, "Sources: "+strings.Join(sources, "/"))
	}

	if len(parts) == 0 {
		return "Insufficient data"
	}
	return strings.Join(parts, " | ")
}
