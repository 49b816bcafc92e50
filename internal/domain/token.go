package domain

// Token represents one entry of the top-25 market snapshot.
// Field names mirror the CoinGecko markets payload so the snapshot can be
// served to clients unchanged.
type Token struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Logo              string  `json:"logo,omitempty"`
	MarketCap         float64 `json:"market_cap"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
}
