package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenpulse/internal/adapters/ai"
	"tokenpulse/internal/domain"
	"tokenpulse/pkg/errors"
)

// fakeChat replays scripted responses in call order; errAt forces an error
// for specific call indices. Safe for concurrent callers.
type fakeChat struct {
	mu        sync.Mutex
	calls     int
	responses []string
	errAt     map[int]error
}

func (f *fakeChat) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if err, ok := f.errAt[idx]; ok {
		return "", err
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", errors.ErrUnavailable
}

func solToken() domain.Token {
	return domain.Token{
		ID:                "solana",
		Symbol:            "SOL",
		Name:              "Solana",
		MarketCap:         95_000_000_000,
		CurrentPrice:      210.5,
		PriceChangePct24h: 4.2,
	}
}

func pipelineInput(token domain.Token) Input {
	return Input{
		Token: token,
		Social: &domain.SocialMetrics{
			Symbol: token.Symbol, Name: token.Name, Sentiment: 72,
		},
		Sentiment: &domain.SentimentSummary{
			Symbol:         token.Symbol,
			SentimentScore: 0.7,
			PositivePct:    65,
			NegativePct:    35,
			TweetVolume24h: 12000,
		},
		Posts: []domain.SocialPost{
			{Text: "sol breakout", URL: "https://x.com/1", Author: "alice"},
		},
		Sources: []domain.Source{
			{Title: "SOL news", URL: "https://example.com/sol", Summary: "ETF inflows"},
		},
	}
}

func TestPipelineLivePath(t *testing.T) {
	chat := &fakeChat{responses: []string{
		"Solana rallied on ETF inflows and rising social chatter.",
		`{"drivers": ["ETF inflows", "Rising social volume", "Strong developer activity"]}`,
		"BUY - Momentum and sentiment both point up.",
	}}
	p := NewPipeline(chat)

	res := p.Analyze(context.Background(), pipelineInput(solToken()))

	assert.Equal(t, 3, chat.calls)
	assert.Equal(t, "Solana rallied on ETF inflows and rising social chatter.", res.Explanation)
	assert.Equal(t, []string{"ETF inflows", "Rising social volume", "Strong developer activity"}, res.Drivers)
	assert.Equal(t, domain.RecommendationBuy, res.Recommendation)
	assert.Equal(t, "BUY - Momentum and sentiment both point up.", res.Rationale)
	require.NotNil(t, res.TwitterSentiment)
	assert.InDelta(t, 0.7, res.TwitterSentiment.Score, 1e-9)
	require.Len(t, res.TopTweets, 1)
	assert.Equal(t, "alice", res.TopTweets[0].Author)
}

func TestPipelineAllStagesDegrade(t *testing.T) {
	chat := &fakeChat{errAt: map[int]error{0: errors.ErrUnavailable, 1: errors.ErrUnavailable, 2: errors.ErrUnavailable}}
	p := NewPipeline(chat)

	res := p.Analyze(context.Background(), pipelineInput(solToken()))

	assert.Equal(t, "Solana showed a positive price movement in the last 24 hours.", res.Explanation)
	require.Len(t, res.Drivers, 3)
	assert.Equal(t, "Market cap of $95.00B affects overall stability", res.Drivers[0])
	assert.Equal(t, "Current price: $210.5 with 4.20% gain in 24h", res.Drivers[1])
	assert.Equal(t, "Market sentiment: Positive based on social metrics", res.Drivers[2])
	assert.Equal(t, domain.RecommendationHold, res.Recommendation)
	assert.Equal(t, "HOLD - Insufficient data for a clear recommendation.", res.Rationale)
}

func TestPipelineAcceptsBareDriverArray(t *testing.T) {
	chat := &fakeChat{responses: []string{
		"Explanation text.",
		`["one", "two", "three", "four"]`,
		"SELL: overheated",
	}}
	p := NewPipeline(chat)

	res := p.Analyze(context.Background(), pipelineInput(solToken()))

	assert.Equal(t, []string{"one", "two", "three"}, res.Drivers)
	assert.Equal(t, domain.RecommendationSell, res.Recommendation)
	assert.Equal(t, "SELL - overheated", res.Rationale)
}

func TestPipelinePadsShortDriverList(t *testing.T) {
	chat := &fakeChat{responses: []string{
		"Explanation text.",
		`{"drivers": ["Only one driver"]}`,
		"HOLD - wait for confirmation",
	}}
	p := NewPipeline(chat)

	res := p.Analyze(context.Background(), pipelineInput(solToken()))

	require.Len(t, res.Drivers, 3)
	assert.Equal(t, "Only one driver", res.Drivers[0])
	assert.Equal(t, "Market cap of $95.00B affects overall stability", res.Drivers[1])
}

func TestPipelineUnparseableDriversFallBack(t *testing.T) {
	chat := &fakeChat{responses: []string{
		"Explanation text.",
		"not json at all",
		"HOLD",
	}}
	p := NewPipeline(chat)

	res := p.Analyze(context.Background(), pipelineInput(solToken()))

	require.Len(t, res.Drivers, 3)
	assert.Equal(t, "Market cap of $95.00B affects overall stability", res.Drivers[0])
	// Label with no rationale gets the default one
	assert.Equal(t, "HOLD - Based on the current market conditions and social metrics.", res.Rationale)
}

func TestFallbackDriverClassification(t *testing.T) {
	token := solToken()

	tests := []struct {
		name      string
		score     float64
		change    float64
		wantMood  string
		wantPrice string
	}{
		{"positive above threshold", 0.7, 4.2, "Positive", "Current price: $210.5 with 4.20% gain in 24h"},
		{"neutral at midpoint", 0.5, -3.5, "Neutral", "Current price: $210.5 with 3.50% loss in 24h"},
		{"neutral at upper bound", 0.6, 1.0, "Neutral", "Current price: $210.5 with 1.00% gain in 24h"},
		{"neutral at lower bound", 0.4, 1.0, "Neutral", "Current price: $210.5 with 1.00% gain in 24h"},
		{"negative below threshold", 0.3, -8.25, "Negative", "Current price: $210.5 with 8.25% loss in 24h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token.PriceChangePct24h = tt.change
			drivers := fallbackDrivers(token, tt.score)

			require.Len(t, drivers, 3)
			assert.Equal(t, "Market cap of $95.00B affects overall stability", drivers[0])
			assert.Equal(t, tt.wantPrice, drivers[1])
			assert.Equal(t, "Market sentiment: "+tt.wantMood+" based on social metrics", drivers[2])
		})
	}
}

func TestPipelineCapsSourcesAtThree(t *testing.T) {
	chat := &fakeChat{responses: []string{"e", `["a","b","c"]`, "HOLD - r"}}
	p := NewPipeline(chat)

	in := pipelineInput(solToken())
	in.Sources = []domain.Source{
		{Title: "1"}, {Title: "2"}, {Title: "3"}, {Title: "4"}, {Title: "5"},
	}
	res := p.Analyze(context.Background(), in)

	require.Len(t, res.Sources, 3)
	assert.Equal(t, "3", res.Sources[2].Title)
}
