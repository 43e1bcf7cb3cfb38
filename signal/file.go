package signal

import (
	"encoding/json"
	"fmt"
	"os"
)

// Wire shapes of the collaborator contract. Each block is either a
// payload or {"error": "..."}.
type wireTechnical struct {
	Err            string             `json:"error,omitempty"`
	Close          float64            `json:"close"`
	Indicators     map[string]float64 `json:"indicators"`
	Signals        []string           `json:"signals"`
	VolumeRatio    float64            `json:"volume_ratio"`
	PriceChangePct float64            `json:"price_change_pct"`
}

type wireSentiment struct {
	Err           string  `json:"error,omitempty"`
	Score         float64 `json:"sentiment_score"`
	Label         string  `json:"label"`
	Confidence    string  `json:"confidence"`
	TotalMentions int     `json:"total_mentions"`
}

type wireFundamental struct {
	Err    string `json:"error,omitempty"`
	FScore struct {
		Score int `json:"score"`
	} `json:"fscore"`
	Ratios map[string]float64 `json:"ratios"`
}

type wireNews struct {
	Err           string `json:"error,omitempty"`
	Count         int    `json:"news_count"`
	NewsSentiment struct {
		Positive int `json:"positive"`
		Neutral  int `json:"neutral"`
		Negative int `json:"negative"`
	} `json:"news_sentiment"`
}

type wireSet struct {
	Technical   *wireTechnical   `json:"technical"`
	Sentiment   *wireSentiment   `json:"sentiment"`
	Fundamental *wireFundamental `json:"fundamental"`
	News        *wireNews        `json:"news"`
}

// FileProvider serves precomputed collaborator results from a JSON file
// keyed by symbol. It exists so a decision run can be driven entirely
// offline: the scrapers and indicator pipelines live outside this
// module and hand their output over as a file.
type FileProvider struct {
	sets map[string]wireSet
}

// LoadFile reads a signals JSON file of the form
// {"PTT": {"technical": {...}, "sentiment": {...}, ...}, ...}.
func LoadFile(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signals file: %w", err)
	}

	sets := map[string]wireSet{}
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse signals file: %w", err)
	}
	return &FileProvider{sets: sets}, nil
}

// Analyze returns the stored Set for a symbol. A symbol absent from the
// file gets all-unavailable results.
func (p *FileProvider) Analyze(symbol string) Set {
	set := Set{Symbol: symbol}

	w, ok := p.sets[symbol]
	if !ok {
		reason := "no signal data for symbol"
		set.Technical.Err = reason
		set.Sentiment.Err = reason
		set.Fundamental.Err = reason
		set.News.Err = reason
		return set
	}

	set.Technical = convTechnical(w.Technical)
	set.Sentiment = convSentiment(w.Sentiment)
	set.Fundamental = convFundamental(w.Fundamental)
	set.News = convNews(w.News)
	return set
}

func convTechnical(w *wireTechnical) TechnicalResult {
	if w == nil {
		return TechnicalResult{Err: "technical signal missing"}
	}
	if w.Err != "" {
		return TechnicalResult{Err: w.Err}
	}
	return TechnicalResult{Value: Technical{
		Close:          w.Close,
		Indicators:     w.Indicators,
		Signals:        w.Signals,
		VolumeRatio:    w.VolumeRatio,
		PriceChangePct: w.PriceChangePct,
	}}
}

func convSentiment(w *wireSentiment) SentimentResult {
	if w == nil {
		return SentimentResult{Err: "sentiment signal missing"}
	}
	if w.Err != "" {
		return SentimentResult{Err: w.Err}
	}
	return SentimentResult{Value: Sentiment{
		Score:         w.Score,
		Label:         w.Label,
		Confidence:    w.Confidence,
		TotalMentions: w.TotalMentions,
	}}
}

func convFundamental(w *wireFundamental) FundamentalResult {
	if w == nil {
		return FundamentalResult{Err: "fundamental signal missing"}
	}
	if w.Err != "" {
		return FundamentalResult{Err: w.Err}
	}
	return FundamentalResult{Value: Fundamental{
		FScore: w.FScore.Score,
		Ratios: w.Ratios,
	}}
}

func convNews(w *wireNews) NewsResult {
	if w == nil {
		return NewsResult{Err: "news signal missing"}
	}
	if w.Err != "" {
		return NewsResult{Err: w.Err}
	}
	return NewsResult{Value: News{
		Count:    w.Count,
		Positive: w.NewsSentiment.Positive,
		Neutral:  w.NewsSentiment.Neutral,
		Negative: w.NewsSentiment.Negative,
	}}
}
