package analysis

import (
	"context"
	"fmt"
	"time"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/adapters/providers"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/metrics"
	"tokenpulse/pkg/logger"
)

// Caps on the assembled source list: up to five are held while merging
// social posts in, at most three survive into the final result.
const (
	maxMergedSources = 5
	maxFinalSources  = 3
)

// SearchProvider is the advanced-search dependency of the aggregator.
type SearchProvider interface {
	Search(ctx context.Context, req providers.SearchRequest) (*providers.SearchResponse, error)
}

// Aggregator merges search results, headlines and social posts into a
// ranked, size-capped source list. Preference order: social posts first,
// then advanced search results, with headlines as the fallback tier.
type Aggregator struct {
	search SearchProvider
	pcfg   config.ProviderConfig
	log    *logger.Logger
}

// NewAggregator creates a source aggregator.
func NewAggregator(search SearchProvider, pcfg config.ProviderConfig) *Aggregator {
	return &Aggregator{
		search: search,
		pcfg:   pcfg,
		log:    logger.Get().With("component", "source_aggregator"),
	}
}

// BuildSources assembles the evidence list for one symbol.
func (a *Aggregator) BuildSources(ctx context.Context, symbol string, headlines []domain.Headline, posts []domain.SocialPost) []domain.Source {
	sources := a.searchSources(ctx, symbol)

	// Headlines are the fallback tier when the search yields nothing
	if len(sources) == 0 {
		for _, h := range headlines {
			sources = append(sources, domain.Source{
				Title:   h.Title,
				URL:     h.URL,
				Summary: "No summary available",
			})
		}
	}

	// Direct social signal outranks curated search results
	if len(posts) > 0 {
		merged := make([]domain.Source, 0, len(posts)+len(sources))
		for _, p := range posts {
			merged = append(merged, postSource(symbol, p))
		}
		merged = append(merged, sources...)
		if len(merged) > maxMergedSources {
			merged = merged[:maxMergedSources]
		}
		sources = merged
	}

	return sources
}

func (a *Aggregator) searchSources(ctx context.Context, symbol string) []domain.Source {
	searchCtx, cancel := context.WithTimeout(ctx, a.pcfg.SearchTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.search.Search(searchCtx, providers.SearchRequest{
		Query:         fmt.Sprintf("latest analysis and market trends for %s cryptocurrency", symbol),
		Topic:         "general",
		SearchDepth:   "advanced",
		MaxResults:    3,
		IncludeAnswer: true,
	})
	metrics.ProviderLatency.WithLabelValues("tavily").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues("tavily", "error").Inc()
		a.log.Warnw("advanced source search failed", "symbol", symbol, "error", err)
		return nil
	}
	metrics.ProviderCalls.WithLabelValues("tavily", "success").Inc()

	sources := make([]domain.Source, 0, len(resp.Results))
	for _, r := range resp.Results {
		src := domain.Source{Title: r.Title, URL: r.URL, Summary: r.Content}
		if src.Title == "" {
			src.Title = "Untitled Source"
		}
		if src.URL == "" {
			src.URL = "#"
		}
		if src.Summary == "" {
			src.Summary = "No summary available"
		}
		sources = append(sources, src)
	}
	return sources
}

func postSource(symbol string, p domain.SocialPost) domain.Source {
	author := p.Author
	if author == "" {
		author = "User"
	}
	url := p.URL
	if url == "" {
		url = fmt.Sprintf("https://twitter.com/search?q=%%24%s", symbol)
	}
	summary := p.Text
	if summary == "" {
		summary = fmt.Sprintf("Recent tweet about %s", symbol)
	}
	return domain.Source{
		Title:   fmt.Sprintf("Twitter: %s on %s", author, symbol),
		URL:     url,
		Summary: summary,
	}
}
