package signal

// Signal names used as keys in score maps and composite weights.
const (
	NameTechnical   = "technical"
	NameSentiment   = "sentiment"
	NameVolume      = "volume"
	NameFundamental = "fundamental"
	NameNews        = "news"
	NameFundFlow    = "fund_flow"
)

// Scores maps a collaborator Set onto per-signal scores in [-100, +100].
// Unavailable signals score 0. The fund_flow signal has no collaborator
// wired and always scores 0.
func Scores(s Set) map[string]float64 {
	scores := map[string]float64{
		NameTechnical:   0,
		NameSentiment:   0,
		NameVolume:      0,
		NameFundamental: 0,
		NameNews:        0,
		NameFundFlow:    0,
	}

	if !s.Technical.Unavailable() {
		scores[NameTechnical] = technicalScore(s.Technical.Value)
		scores[NameVolume] = volumeScore(s.Technical.Value)
	}
	if !s.Sentiment.Unavailable() {
		scores[NameSentiment] = clamp(s.Sentiment.Value.Score*100, -100, 100)
	}
	if !s.Fundamental.Unavailable() {
		scores[NameFundamental] = fundamentalScore(s.Fundamental.Value)
	}
	if !s.News.Unavailable() {
		scores[NameNews] = newsScore(s.News.Value)
	}

	return scores
}

// technicalScore maps RSI to a score: oversold (RSI<30) is positive,
// overbought (RSI>70) negative. A payload without an RSI reading is
// neutral.
func technicalScore(t Technical) float64 {
	rsi, ok := t.Indicators["rsi"]
	if !ok {
		return 0
	}
	return clamp((50-rsi)*3, -100, 100)
}

// volumeScore amplifies the price move by relative volume: unusual volume
// behind a move makes it more meaningful in either direction.
func volumeScore(t Technical) float64 {
	ratio := t.VolumeRatio
	var amplifier float64
	if ratio > 1.5 {
		amplifier = min(ratio, 4.0) / 2 // cap at 2x amplification
	} else {
		amplifier = 0.5
	}
	return clamp(t.PriceChangePct*amplifier*10, -100, 100)
}

// fundamentalScore maps the Piotroski F-Score (0..9, 5 neutral) onto the
// common scale.
func fundamentalScore(f Fundamental) float64 {
	return clamp(float64(f.FScore-5)*25, -100, 100)
}

// newsScore scores the balance of positive vs negative coverage. No news
// is neutral.
func newsScore(n News) float64 {
	if n.Count <= 0 {
		return 0
	}
	return clamp(float64(n.Positive-n.Negative)/float64(n.Count)*100, -100, 100)
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
