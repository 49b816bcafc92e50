package tokens

import (
	"context"
	"strings"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/cache"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/metrics"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// snapshotSize is the number of tokens tracked in the market snapshot.
const snapshotSize = 25

// MarketProvider supplies the market snapshot.
type MarketProvider interface {
	TopMarkets(ctx context.Context, limit int) ([]domain.Token, error)
}

// Service maintains the top-25 token snapshot and resolves user symbols
// against it.
type Service struct {
	cache    cache.Cache
	provider MarketProvider
	ttl      config.CacheConfig
	log      *logger.Logger
}

// New creates the token service.
func New(c cache.Cache, provider MarketProvider, ttl config.CacheConfig) *Service {
	return &Service{
		cache:    c,
		provider: provider,
		ttl:      ttl,
		log:      logger.Get().With("component", "tokens"),
	}
}

// Top25 returns the cached token snapshot, fetching and caching it when cold.
func (s *Service) Top25(ctx context.Context) ([]domain.Token, error) {
	var cached []domain.Token
	if hit, err := s.cache.Get(ctx, cache.KeyTop25, &cached); err == nil && hit {
		metrics.CacheOps.WithLabelValues("top25", "hit").Inc()
		return cached, nil
	}
	metrics.CacheOps.WithLabelValues("top25", "miss").Inc()

	s.log.Info("token snapshot cache miss, fetching fresh data")
	return s.Refresh(ctx)
}

// Refresh fetches a fresh snapshot and replaces the cached one.
func (s *Service) Refresh(ctx context.Context) ([]domain.Token, error) {
	tokens, err := s.provider.TopMarkets(ctx, snapshotSize)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("coingecko", "error").Inc()
		return nil, errors.Wrap(err, "fetch token snapshot")
	}
	metrics.ProviderCalls.WithLabelValues("coingecko", "success").Inc()

	if cerr := s.cache.Set(ctx, cache.KeyTop25, tokens, s.ttl.Top25TTL); cerr != nil {
		s.log.Warnw("failed to cache token snapshot", "error", cerr)
	}

	s.log.Infow("token snapshot refreshed", "tokens", len(tokens))
	return tokens, nil
}

// Match pairs one requested symbol with its snapshot token, nil when the
// symbol is not tracked. Output order follows the input order.
type Match struct {
	Input string
	Token *domain.Token
}

// Resolve matches requested symbols against the snapshot, case-insensitively.
// Unknown symbols come back with a nil Token so callers can keep the output
// aligned with the input.
func (s *Service) Resolve(ctx context.Context, symbols []string) ([]Match, error) {
	tokens, err := s.Top25(ctx)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]*domain.Token, len(tokens))
	for i := range tokens {
		bySymbol[strings.ToUpper(tokens[i].Symbol)] = &tokens[i]
	}

	matches := make([]Match, 0, len(symbols))
	for _, sym := range symbols {
		matches = append(matches, Match{
			Input: sym,
			Token: bySymbol[strings.ToUpper(strings.TrimSpace(sym))],
		})
	}
	return matches, nil
}
