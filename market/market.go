package market

// PriceSource is the quote collaborator the engine consumes. The engine
// never fetches market data itself; whoever drives it supplies prices,
// volatility and sector lookups through this interface.
type PriceSource interface {
	// CurrentPrice returns the latest price for a symbol. ok is false
	// when no quote is available; callers fall back to average cost.
	CurrentPrice(symbol string) (price float64, ok bool)

	// Volatility20d returns the 20-day annualized volatility. ok is
	// false when it cannot be computed; such holdings contribute zero
	// portfolio heat.
	Volatility20d(symbol string) (vol float64, ok bool)

	// Sector returns the sector label for a symbol, "Unknown" if not known.
	Sector(symbol string) string
}

// StaticSource is a map-backed PriceSource for offline runs and tests.
type StaticSource struct {
	Prices  map[string]float64
	Vols    map[string]float64
	Sectors map[string]string
}

func (s *StaticSource) CurrentPrice(symbol string) (float64, bool) {
	p, ok := s.Prices[symbol]
	return p, ok
}

func (s *StaticSource) Volatility20d(symbol string) (float64, bool) {
	v, ok := s.Vols[symbol]
	return v, ok
}

func (s *StaticSource) Sector(symbol string) string {
	if sec, ok := s.Sectors[symbol]; ok && sec != "" {
		return sec
	}
	return "Unknown"
}
