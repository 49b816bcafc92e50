package collectors

import (
	"fmt"
	"strings"

	"tokenpulse/internal/domain"
)

// mockSocialMetrics builds neutral social metrics for a symbol when the
// provider answered but could not serve data (quota, subscription tier).
func mockSocialMetrics(symbol string) *domain.SocialMetrics {
	return &domain.SocialMetrics{
		Symbol:          symbol,
		Name:            symbol,
		GalaxyScore:     50,
		SocialDominance: 0.5,
		SocialVolume:    1000,
		Sentiment:       50,
		TopPosts:        []domain.SocialPost{},
	}
}

// mockHeadlines builds deterministic placeholder headlines per symbol so the
// pipeline always has something to cite.
func mockHeadlines(symbol string) []domain.Headline {
	lower := strings.ToLower(symbol)
	return []domain.Headline{
		{
			Title: fmt.Sprintf("%s Price Analysis: Market Trends and Future Predictions", symbol),
			URL:   fmt.Sprintf("https://example.com/crypto/%s/analysis", lower),
		},
		{
			Title: fmt.Sprintf("Why %s Is Gaining Attention From Institutional Investors", symbol),
			URL:   fmt.Sprintf("https://example.com/crypto/%s/institutional", lower),
		},
		{
			Title: fmt.Sprintf("%s Development Update: New Features Coming Soon", symbol),
			URL:   fmt.Sprintf("https://example.com/crypto/%s/development", lower),
		},
	}
}
