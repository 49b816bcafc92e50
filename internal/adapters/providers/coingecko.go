package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/domain"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// CoinGecko fetches the top-N market snapshot. The markets endpoint is
// public, no credential required.
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewCoinGecko creates a CoinGecko client.
func NewCoinGecko(cfg config.ProviderConfig) *CoinGecko {
	return &CoinGecko{
		baseURL: strings.TrimRight(cfg.CoinGeckoBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.Get().With("provider", "coingecko"),
	}
}

type coinGeckoMarket struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Image             string  `json:"image"`
	MarketCap         float64 `json:"market_cap"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
}

// TopMarkets returns the top `limit` tokens by market cap with 24h change.
// Symbols are normalized to uppercase.
func (c *CoinGecko) TopMarkets(ctx context.Context, limit int) ([]domain.Token, error) {
	url := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false&price_change_percentage=24h",
		c.baseURL, limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create coingecko request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch coingecko markets")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Wrapf(errors.ErrExternal, "coingecko returned status %d: %s", resp.StatusCode, string(body))
	}

	var markets []coinGeckoMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedPayload, err.Error())
	}

	tokens := make([]domain.Token, 0, len(markets))
	for _, m := range markets {
		tokens = append(tokens, domain.Token{
			ID:                m.ID,
			Symbol:            strings.ToUpper(m.Symbol),
			Name:              m.Name,
			Logo:              m.Image,
			MarketCap:         m.MarketCap,
			CurrentPrice:      m.CurrentPrice,
			PriceChangePct24h: m.PriceChangePct24h,
		})
	}

	c.log.Debugw("fetched market snapshot", "tokens", len(tokens))
	return tokens, nil
}
