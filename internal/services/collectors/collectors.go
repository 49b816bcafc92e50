package collectors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/adapters/providers"
	"tokenpulse/internal/cache"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/metrics"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// SocialProvider is the LunarCrush surface the collectors need.
type SocialProvider interface {
	Topic(ctx context.Context, symbol string) (*domain.SocialMetrics, error)
	TopicPosts(ctx context.Context, symbol string, limit int) ([]domain.SocialPost, error)
}

// SearchProvider is the Tavily surface the collectors need.
type SearchProvider interface {
	Search(ctx context.Context, req providers.SearchRequest) (*providers.SearchResponse, error)
}

// Service fronts all external data collection with the cache. Failed or
// credential-less fetches degrade to typed fallbacks; no method returns an
// error to the pipeline.
type Service struct {
	cache  cache.Cache
	social SocialProvider
	search SearchProvider
	ttl    config.CacheConfig
	pcfg   config.ProviderConfig
	log    *logger.Logger
}

// New creates the collector service.
func New(c cache.Cache, social SocialProvider, search SearchProvider, ttl config.CacheConfig, pcfg config.ProviderConfig) *Service {
	return &Service{
		cache:  c,
		social: social,
		search: search,
		ttl:    ttl,
		pcfg:   pcfg,
		log:    logger.Get().With("component", "collectors"),
	}
}

// SocialMetrics returns social and market signal for a symbol.
// Returns nil when no live or mock data can be produced; callers substitute
// token-snapshot values in that case.
func (s *Service) SocialMetrics(ctx context.Context, symbol string) *domain.SocialMetrics {
	key := cache.KeySocial(symbol)

	var cached domain.SocialMetrics
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheOps.WithLabelValues("social", "hit").Inc()
		s.log.Debugw("using cached social metrics", "symbol", symbol)
		return &cached
	}
	metrics.CacheOps.WithLabelValues("social", "miss").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.pcfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	data, err := s.social.Topic(fetchCtx, symbol)
	metrics.ProviderLatency.WithLabelValues("lunarcrush").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues("lunarcrush", "error").Inc()

		// A reachable API that answered with an error still tells us the
		// topic exists: serve neutral mock values, briefly cached. A dead
		// network or missing key yields nothing.
		if errors.Is(err, errors.ErrExternal) {
			s.log.Warnw("social metrics degraded to mock", "symbol", symbol, "error", err)
			mock := mockSocialMetrics(symbol)
			if cerr := s.cache.Set(ctx, key, mock, s.ttl.SocialMockTTL); cerr != nil {
				s.log.Warnw("failed to cache mock social metrics", "symbol", symbol, "error", cerr)
			}
			return mock
		}

		s.log.Warnw("social metrics unavailable", "symbol", symbol, "error", err)
		return nil
	}

	metrics.ProviderCalls.WithLabelValues("lunarcrush", "success").Inc()
	if cerr := s.cache.Set(ctx, key, data, s.ttl.SocialTTL); cerr != nil {
		s.log.Warnw("failed to cache social metrics", "symbol", symbol, "error", cerr)
	}
	return data
}

// Headlines returns recent news headlines for a symbol, never empty: on any
// failure deterministic placeholder headlines are substituted.
func (s *Service) Headlines(ctx context.Context, symbol string) []domain.Headline {
	key := cache.KeyNews(symbol)

	var cached []domain.Headline
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheOps.WithLabelValues("news", "hit").Inc()
		s.log.Debugw("using cached headlines", "symbol", symbol)
		return cached
	}
	metrics.CacheOps.WithLabelValues("news", "miss").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.pcfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.search.Search(fetchCtx, providers.SearchRequest{
		Query:         fmt.Sprintf("latest news about %s cryptocurrency", symbol),
		Topic:         "news",
		SearchDepth:   "basic",
		MaxResults:    3,
		TimeRange:     "week",
		IncludeAnswer: true,
	})
	metrics.ProviderLatency.WithLabelValues("tavily").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues("tavily", "error").Inc()
		s.log.Warnw("headlines degraded to placeholders", "symbol", symbol, "error", err)
		return mockHeadlines(symbol)
	}
	metrics.ProviderCalls.WithLabelValues("tavily", "success").Inc()

	headlines := make([]domain.Headline, 0, len(resp.Results))
	for _, r := range resp.Results {
		headlines = append(headlines, domain.Headline{Title: r.Title, URL: r.URL})
	}
	if len(headlines) == 0 {
		return mockHeadlines(symbol)
	}

	if cerr := s.cache.Set(ctx, key, headlines, s.ttl.NewsTTL); cerr != nil {
		s.log.Warnw("failed to cache headlines", "symbol", symbol, "error", cerr)
	}
	return headlines
}

// Sentiment asks the search engine for a market-sentiment answer and derives
// a coarse summary from it by keyword matching. Returns nil on failure;
// callers substitute a social-metrics-derived summary.
//
// The keyword heuristic is intentionally crude and mirrors long-standing
// behavior; do not tighten it without revisiting the downstream thresholds.
func (s *Service) Sentiment(ctx context.Context, symbol string) *domain.SentimentSummary {
	key := cache.KeySentiment(symbol)

	var cached domain.SentimentSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheOps.WithLabelValues("sentiment", "hit").Inc()
		s.log.Debugw("using cached sentiment", "symbol", symbol)
		return &cached
	}
	metrics.CacheOps.WithLabelValues("sentiment", "miss").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.pcfg.SentimentTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.search.Search(fetchCtx, providers.SearchRequest{
		Query:         fmt.Sprintf("What is the current market sentiment for %s cryptocurrency? Analyze positive and negative opinions.", symbol),
		Topic:         "general",
		SearchDepth:   "basic",
		MaxResults:    3,
		IncludeAnswer: true,
	})
	metrics.ProviderLatency.WithLabelValues("tavily").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues("tavily", "error").Inc()
		s.log.Warnw("sentiment unavailable", "symbol", symbol, "error", err)
		return nil
	}
	metrics.ProviderCalls.WithLabelValues("tavily", "success").Inc()

	summary := summarizeSentiment(symbol, resp.Answer)
	if cerr := s.cache.Set(ctx, key, summary, s.ttl.SentimentTTL); cerr != nil {
		s.log.Warnw("failed to cache sentiment", "symbol", symbol, "error", cerr)
	}
	return summary
}

// Posts returns up to five top twitter posts for a symbol, empty on failure.
func (s *Service) Posts(ctx context.Context, symbol string) []domain.SocialPost {
	key := cache.KeyPosts(symbol)

	var cached []domain.SocialPost
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheOps.WithLabelValues("posts", "hit").Inc()
		s.log.Debugw("using cached posts", "symbol", symbol)
		return cached
	}
	metrics.CacheOps.WithLabelValues("posts", "miss").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.pcfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	posts, err := s.social.TopicPosts(fetchCtx, symbol, 5)
	metrics.ProviderLatency.WithLabelValues("lunarcrush").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues("lunarcrush", "error").Inc()
		s.log.Warnw("posts unavailable", "symbol", symbol, "error", err)
		return nil
	}
	metrics.ProviderCalls.WithLabelValues("lunarcrush", "success").Inc()

	if cerr := s.cache.Set(ctx, key, posts, s.ttl.PostsTTL); cerr != nil {
		s.log.Warnw("failed to cache posts", "symbol", symbol, "error", cerr)
	}
	return posts
}

// summarizeSentiment derives a SentimentSummary from a natural-language
// answer, matching on "positive"/"negative" keywords.
func summarizeSentiment(symbol, answer string) *domain.SentimentSummary {
	lower := strings.ToLower(answer)
	hasPositive := strings.Contains(lower, "positive")
	hasNegative := strings.Contains(lower, "negative")

	score := 0.5
	if hasPositive {
		score = 0.7
	} else if hasNegative {
		score = 0.3
	}

	positivePct := 33.0
	if hasPositive {
		positivePct = 65.0
	}
	negativePct := 33.0
	if hasNegative {
		negativePct = 65.0
	}

	return &domain.SentimentSummary{
		Symbol:         symbol,
		SentimentScore: score,
		PositivePct:    positivePct,
		NegativePct:    negativePct,
		NeutralPct:     100 - positivePct - negativePct,
		TweetVolume24h: 1000,
		TopHashtags:    []string{"#" + symbol, "#crypto", "#blockchain"},
	}
}
