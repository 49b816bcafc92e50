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

// LunarCrush fetches social metrics and top posts from the v4 topic API.
// All calls require a bearer API key; callers treat a missing key like any
// other fetch failure.
type LunarCrush struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewLunarCrush creates a LunarCrush client.
func NewLunarCrush(cfg config.ProviderConfig) *LunarCrush {
	return &LunarCrush{
		baseURL: strings.TrimRight(cfg.LunarCrushBaseURL, "/"),
		apiKey:  cfg.LunarCrushKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.Get().With("provider", "lunarcrush"),
	}
}

// Configured reports whether an API key is present.
func (c *LunarCrush) Configured() bool {
	return c.apiKey != ""
}

type lunarCrushTopicResponse struct {
	Config struct {
		Name string `json:"name"`
	} `json:"config"`
	Data struct {
		Price            float64 `json:"price"`
		PercentChange24h float64 `json:"percent_change_24h"`
		GalaxyScore      float64 `json:"galaxy_score"`
		SocialDominance  float64 `json:"social_dominance"`
		NumPosts         float64 `json:"num_posts"`
		MarketCap        float64 `json:"market_cap"`
		TypesSentiment   struct {
			Tweet float64 `json:"tweet"`
		} `json:"types_sentiment"`
		Interactions24h float64 `json:"interactions_24h"`
		NumContributors float64 `json:"num_contributors"`
		TopPosts        []lunarCrushPost `json:"top_posts"`
	} `json:"data"`
}

type lunarCrushPostsResponse struct {
	Data []lunarCrushPost `json:"data"`
}

type lunarCrushPost struct {
	Network        string  `json:"network"`
	URL            string  `json:"url"`
	Text           string  `json:"text"`
	UserScreenName string  `json:"user_screen_name"`
	Interactions   float64 `json:"interactions"`
}

// Topic returns the social metrics snapshot for a symbol.
func (c *LunarCrush) Topic(ctx context.Context, symbol string) (*domain.SocialMetrics, error) {
	url := fmt.Sprintf("%s/topic/%s/v1", c.baseURL, strings.ToLower(symbol))

	var payload lunarCrushTopicResponse
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	name := payload.Config.Name
	if name == "" {
		name = symbol
	}

	// Tweet-type sentiment on the 0-100 scale; neutral when the API omits it
	sentiment := payload.Data.TypesSentiment.Tweet
	if sentiment == 0 {
		sentiment = 50
	}

	return &domain.SocialMetrics{
		Symbol:           symbol,
		Name:             name,
		Price:            payload.Data.Price,
		PercentChange24h: payload.Data.PercentChange24h,
		GalaxyScore:      payload.Data.GalaxyScore,
		SocialDominance:  payload.Data.SocialDominance,
		SocialVolume:     payload.Data.NumPosts,
		MarketCap:        payload.Data.MarketCap,
		Sentiment:        sentiment,
		Interactions24h:  payload.Data.Interactions24h,
		NumContributors:  payload.Data.NumContributors,
		TopPosts:         convertPosts(payload.Data.TopPosts, 0),
	}, nil
}

// TopicPosts returns up to `limit` twitter posts with URLs for a symbol.
func (c *LunarCrush) TopicPosts(ctx context.Context, symbol string, limit int) ([]domain.SocialPost, error) {
	url := fmt.Sprintf("%s/topic/%s/posts/v1", c.baseURL, strings.ToLower(symbol))

	var payload lunarCrushPostsResponse
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}

	// Only twitter posts that link somewhere are usable as sources
	filtered := make([]lunarCrushPost, 0, len(payload.Data))
	for _, post := range payload.Data {
		if post.Network == "twitter" && post.URL != "" {
			filtered = append(filtered, post)
		}
	}

	return convertPosts(filtered, limit), nil
}

func convertPosts(raw []lunarCrushPost, limit int) []domain.SocialPost {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	posts := make([]domain.SocialPost, 0, len(raw))
	for _, p := range raw {
		posts = append(posts, domain.SocialPost{
			Text:         p.Text,
			URL:          p.URL,
			Author:       p.UserScreenName,
			Network:      p.Network,
			Interactions: p.Interactions,
		})
	}
	return posts
}

func (c *LunarCrush) get(ctx context.Context, url string, dest interface{}) error {
	if c.apiKey == "" {
		return errors.Wrap(errors.ErrMissingCredential, "LUNARCRUSH_API_KEY is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "create lunarcrush request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch lunarcrush topic")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		// 402 means the key has no subscription or exhausted its quota
		if resp.StatusCode == http.StatusPaymentRequired {
			return errors.Wrapf(errors.ErrExternal, "lunarcrush payment required: %s", string(body))
		}
		return errors.Wrapf(errors.ErrExternal, "lunarcrush returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(errors.ErrMalformedPayload, err.Error())
	}
	return nil
}
