package market

import (
	"encoding/json"
	"fmt"
	"os"
)

// Stock is one watchlist entry.
type Stock struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// Watchlist is the universe of symbols a decision run walks.
type Watchlist struct {
	Stocks []Stock `json:"watchlist"`
}

// LoadWatchlist reads a watchlist JSON file of the form
// {"watchlist": [{"symbol": ..., "name": ..., "sector": ...}, ...]}.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	w := &Watchlist{}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}
	return w, nil
}

// SectorOf returns the sector for a symbol, "Unknown" when the symbol is
// not on the watchlist or carries no sector.
func (w *Watchlist) SectorOf(symbol string) string {
	for _, s := range w.Stocks {
		if s.Symbol == symbol && s.Sector != "" {
			return s.Sector
		}
	}
	return "Unknown"
}
