package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenpulse/internal/adapters/ai"
	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/adapters/providers"
	"tokenpulse/internal/cache"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/services/analysis"
	"tokenpulse/internal/services/collectors"
	"tokenpulse/internal/services/tokens"
	"tokenpulse/pkg/errors"
)

type stubMarket struct {
	tokens []domain.Token
	err    error
}

func (s *stubMarket) TopMarkets(ctx context.Context, limit int) ([]domain.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

type stubSocial struct{}

func (stubSocial) Topic(ctx context.Context, symbol string) (*domain.SocialMetrics, error) {
	return nil, errors.ErrMissingCredential
}

func (stubSocial) TopicPosts(ctx context.Context, symbol string, limit int) ([]domain.SocialPost, error) {
	return nil, errors.ErrMissingCredential
}

type stubSearch struct{}

func (stubSearch) Search(ctx context.Context, req providers.SearchRequest) (*providers.SearchResponse, error) {
	return nil, errors.ErrMissingCredential
}

type stubChat struct{}

func (stubChat) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return "", errors.ErrMissingCredential
}

func newTestHandlers(market *stubMarket) *Handlers {
	ttl := config.CacheConfig{
		SocialTTL:     time.Hour,
		SocialMockTTL: 5 * time.Minute,
		NewsTTL:       15 * time.Minute,
		SentimentTTL:  30 * time.Minute,
		PostsTTL:      30 * time.Minute,
		Top25TTL:      24 * time.Hour,
	}
	pcfg := config.ProviderConfig{
		FetchTimeout:     time.Second,
		SearchTimeout:    time.Second,
		SentimentTimeout: time.Second,
	}

	mem := cache.NewMemory()
	tok := tokens.New(mem, market, ttl)
	coll := collectors.New(mem, stubSocial{}, stubSearch{}, ttl, pcfg)
	an := analysis.New(tok, coll, analysis.NewPipeline(stubChat{}), analysis.NewAggregator(stubSearch{}, pcfg))
	return NewHandlers(tok, an)
}

func marketWith(symbols ...string) *stubMarket {
	m := &stubMarket{}
	for _, s := range symbols {
		m.tokens = append(m.tokens, domain.Token{
			ID: strings.ToLower(s), Symbol: s, Name: s,
			CurrentPrice: 100, MarketCap: 1e9, PriceChangePct24h: 1.5,
		})
	}
	return m
}

func TestHandleTop25(t *testing.T) {
	h := newTestHandlers(marketWith("BTC", "ETH"))

	rec := httptest.NewRecorder()
	h.HandleTop25(rec, httptest.NewRequest(http.MethodGet, "/top25", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []domain.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "BTC", got[0].Symbol)
}

func TestHandleTop25ColdCacheFailure(t *testing.T) {
	h := newTestHandlers(&stubMarket{err: errors.ErrExternal})

	rec := httptest.NewRecorder()
	h.HandleTop25(rec, httptest.NewRequest(http.MethodGet, "/top25", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleTop25RejectsPost(t *testing.T) {
	h := newTestHandlers(marketWith("BTC"))

	rec := httptest.NewRecorder()
	h.HandleTop25(rec, httptest.NewRequest(http.MethodPost, "/top25", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyzeTwoSymbols(t *testing.T) {
	h := newTestHandlers(marketWith("BTC", "ETH"))

	body := strings.NewReader(`{"symbols": ["btc", "ETH"]}`)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analyze", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "BTC", got[0].Symbol)
	assert.Equal(t, "ETH", got[1].Symbol)
	for _, res := range got {
		assert.Len(t, res.Drivers, 3)
		assert.True(t, strings.HasPrefix(res.Rationale, string(res.Recommendation)))
	}
}

func TestHandleAnalyzeValidation(t *testing.T) {
	h := newTestHandlers(marketWith("BTC"))

	tests := []struct {
		name string
		body string
		want int
		msg  string
	}{
		{"empty symbols", `{"symbols": []}`, http.StatusBadRequest, "symbols array is required"},
		{"missing field", `{}`, http.StatusBadRequest, "symbols array is required"},
		{"malformed json", `{symbols`, http.StatusBadRequest, "invalid JSON"},
		{
			"eleven symbols",
			`{"symbols": ["A","B","C","D","E","F","G","H","I","J","K"]}`,
			http.StatusBadRequest,
			"maximum 10 symbols",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestHandleAnalyzeRejectsGet(t *testing.T) {
	h := newTestHandlers(marketWith("BTC"))

	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyzeColdSnapshotFailure(t *testing.T) {
	h := newTestHandlers(&stubMarket{err: errors.ErrExternal})

	body := strings.NewReader(`{"symbols": ["BTC"]}`)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analyze", body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
