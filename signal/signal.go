// Package signal defines the fixed record shapes exchanged with the
// analysis collaborators (technical, sentiment, fundamental, news) and
// maps their payloads onto the common [-100, +100] score scale.
//
// Every collaborator result is a tagged value: either a payload or an
// unavailability reason. An unavailable signal scores zero; the branch is
// explicit so the neutral-on-failure policy is visible at the call site.
package signal

// Technical is the payload of the technical-analysis collaborator.
type Technical struct {
	Close          float64
	Indicators     map[string]float64 // rsi, macd_histogram, ...
	Signals        []string
	VolumeRatio    float64 // latest volume / 20d average
	PriceChangePct float64 // latest close change, percent
}

// Sentiment is the payload of the social-sentiment collaborator.
type Sentiment struct {
	Score         float64 // [-1, 1]
	Label         string
	Confidence    string
	TotalMentions int
}

// Fundamental is the payload of the fundamental-analysis collaborator.
type Fundamental struct {
	FScore int                // Piotroski F-Score, 0..9
	Ratios map[string]float64 // roe, debt_to_equity, ...
}

// News is the payload of the news-analysis collaborator.
type News struct {
	Count    int
	Positive int
	Neutral  int
	Negative int
}

// TechnicalResult is Technical or an unavailability reason.
type TechnicalResult struct {
	Value Technical
	Err   string
}

// Unavailable reports whether the collaborator failed.
func (r TechnicalResult) Unavailable() bool { return r.Err != "" }

// SentimentResult is Sentiment or an unavailability reason.
type SentimentResult struct {
	Value Sentiment
	Err   string
}

func (r SentimentResult) Unavailable() bool { return r.Err != "" }

// FundamentalResult is Fundamental or an unavailability reason.
type FundamentalResult struct {
	Value Fundamental
	Err   string
}

func (r FundamentalResult) Unavailable() bool { return r.Err != "" }

// NewsResult is News or an unavailability reason.
type NewsResult struct {
	Value News
	Err   string
}

func (r NewsResult) Unavailable() bool { return r.Err != "" }

// Set is the full collaborator output for one symbol.
type Set struct {
	Symbol      string
	Technical   TechnicalResult
	Sentiment   SentimentResult
	Fundamental FundamentalResult
	News        NewsResult
}

// AllUnavailable reports whether every collaborator failed, in which case
// the orchestrator degrades the symbol to SKIP.
func (s Set) AllUnavailable() bool {
	return s.Technical.Unavailable() &&
		s.Sentiment.Unavailable() &&
		s.Fundamental.Unavailable() &&
		s.News.Unavailable()
}

// Provider runs the analysis collaborators for one symbol. A provider
// must always return a Set; per-collaborator failures are carried in the
// result tags, never as a Go error.
type Provider interface {
	Analyze(symbol string) Set
}
