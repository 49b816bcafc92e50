package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/pkg/errors"
)

func TestTavily_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "latest news about BTC cryptocurrency", req.Query)
		assert.Equal(t, "news", req.Topic)
		assert.Equal(t, 3, req.MaxResults)

		_, _ = w.Write([]byte(`{
			"answer": "Sentiment is largely positive this week.",
			"results": [
				{"title": "BTC rallies", "url": "https://news/a", "content": "Spot inflows continue."},
				{"title": "Miners sell", "url": "https://news/b", "content": "Hash rate dips."}
			]
		}`))
	}))
	defer server.Close()

	client := NewTavily(config.ProviderConfig{TavilyBaseURL: server.URL, TavilyKey: "tvly-key"})

	resp, err := client.Search(context.Background(), SearchRequest{
		Query:         "latest news about BTC cryptocurrency",
		Topic:         "news",
		SearchDepth:   "basic",
		MaxResults:    3,
		TimeRange:     "week",
		IncludeAnswer: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sentiment is largely positive this week.", resp.Answer)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "BTC rallies", resp.Results[0].Title)
}

func TestTavily_Search_MissingCredential(t *testing.T) {
	client := NewTavily(config.ProviderConfig{TavilyBaseURL: "http://unused"})

	_, err := client.Search(context.Background(), SearchRequest{Query: "anything"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingCredential))
}

func TestTavily_Search_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewTavily(config.ProviderConfig{TavilyBaseURL: server.URL, TavilyKey: "tvly-key"})

	_, err := client.Search(context.Background(), SearchRequest{Query: "anything"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternal))
}
