package market

import (
	"encoding/json"
	"fmt"
	"os"
)

// quoteEntry is one symbol's row in a quotes file.
type quoteEntry struct {
	Price         *float64 `json:"price"`
	Volatility20d *float64 `json:"volatility_20d"`
	Sector        string   `json:"sector"`
}

// FileSource is a PriceSource backed by a quotes JSON file of the form
// {"PTT": {"price": 35.5, "volatility_20d": 0.22, "sector": "Energy"}}.
// Missing fields are reported unavailable, so the usual avg-cost and
// zero-volatility fallbacks apply.
type FileSource struct {
	quotes map[string]quoteEntry
}

// LoadQuotes reads a quotes file into a FileSource.
func LoadQuotes(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quotes file: %w", err)
	}

	quotes := map[string]quoteEntry{}
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("parse quotes file: %w", err)
	}
	return &FileSource{quotes: quotes}, nil
}

func (f *FileSource) CurrentPrice(symbol string) (float64, bool) {
	q, ok := f.quotes[symbol]
	if !ok || q.Price == nil {
		return 0, false
	}
	return *q.Price, true
}

func (f *FileSource) Volatility20d(symbol string) (float64, bool) {
	q, ok := f.quotes[symbol]
	if !ok || q.Volatility20d == nil {
		return 0, false
	}
	return *q.Volatility20d, true
}

func (f *FileSource) Sector(symbol string) string {
	if q, ok := f.quotes[symbol]; ok && q.Sector != "" {
		return q.Sector
	}
	return "Unknown"
}
