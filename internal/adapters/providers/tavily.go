package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// Tavily wraps the Tavily search API, used for news headlines, sentiment
// questions and advanced source searches.
type Tavily struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewTavily creates a Tavily client.
func NewTavily(cfg config.ProviderConfig) *Tavily {
	return &Tavily{
		baseURL: strings.TrimRight(cfg.TavilyBaseURL, "/"),
		apiKey:  cfg.TavilyKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // backstop; callers bound via context
		},
		log: logger.Get().With("provider", "tavily"),
	}
}

// Configured reports whether an API key is present.
func (c *Tavily) Configured() bool {
	return c.apiKey != ""
}

// SearchRequest mirrors the Tavily search API body.
type SearchRequest struct {
	Query         string `json:"query"`
	Topic         string `json:"topic"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	TimeRange     string `json:"time_range,omitempty"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeRaw    bool   `json:"include_raw_content,omitempty"`
}

// SearchResult is one search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResponse is the subset of the Tavily response the pipeline consumes.
type SearchResponse struct {
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

// Search performs one search call. The context bounds the call; callers pick
// the timeout appropriate for their query type.
func (c *Tavily) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrMissingCredential, "TAVILY_API_KEY is not set")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tavily request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create tavily request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "tavily search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.Wrapf(errors.ErrExternal, "tavily returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedPayload, err.Error())
	}

	c.log.Debugw("search complete", "query", req.Query, "results", len(payload.Results))
	return &payload, nil
}
