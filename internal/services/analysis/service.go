package analysis

import (
	"context"
	"sync"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/metrics"
	"tokenpulse/internal/services/collectors"
	"tokenpulse/internal/services/tokens"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// MaxBatchSymbols bounds one analysis request.
const MaxBatchSymbols = 10

// Service orchestrates batch analysis: symbol resolution, evidence
// collection, pipeline execution. Tokens are processed concurrently and
// every token yields a result; failures degrade per token, never per batch.
type Service struct {
	tokens     *tokens.Service
	collectors *collectors.Service
	pipeline   *Pipeline
	aggregator *Aggregator
	log        *logger.Logger
}

// New creates the analysis orchestrator.
func New(tok *tokens.Service, coll *collectors.Service, pipe *Pipeline, agg *Aggregator) *Service {
	return &Service{
		tokens:     tok,
		collectors: coll,
		pipeline:   pipe,
		aggregator: agg,
		log:        logger.Get().With("component", "analysis"),
	}
}

// AnalyzeBatch analyzes up to MaxBatchSymbols symbols. The returned slice
// is aligned with the input order, one result per requested symbol.
func (s *Service) AnalyzeBatch(ctx context.Context, symbols []string) ([]domain.AnalysisResult, error) {
	if len(symbols) == 0 {
		metrics.BatchRequests.WithLabelValues("rejected").Inc()
		return nil, errors.Wrap(errors.ErrInvalidInput, "no symbols provided")
	}
	if len(symbols) > MaxBatchSymbols {
		metrics.BatchRequests.WithLabelValues("rejected").Inc()
		return nil, errors.Wrapf(errors.ErrInvalidInput, "at most %d symbols per request", MaxBatchSymbols)
	}

	matches, err := s.tokens.Resolve(ctx, symbols)
	if err != nil {
		metrics.BatchRequests.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "failed to resolve symbols")
	}

	metrics.BatchRequests.WithLabelValues("accepted").Inc()
	metrics.BatchSize.Observe(float64(len(symbols)))

	results := make([]domain.AnalysisResult, len(matches))
	var wg sync.WaitGroup
	for i, m := range matches {
		wg.Add(1)
		go func(i int, m tokens.Match) {
			defer wg.Done()
			results[i] = s.analyzeOne(ctx, m)
		}(i, m)
	}
	wg.Wait()

	return results, nil
}

// analyzeOne produces the result for a single resolved symbol. A panic
// anywhere below degrades to the error placeholder for that token only.
func (s *Service) analyzeOne(ctx context.Context, m tokens.Match) (result domain.AnalysisResult) {
	if m.Token == nil {
		s.log.Infow("symbol not tracked", "symbol", m.Input)
		return unknownSymbolResult(m.Input)
	}
	token := *m.Token

	start := time.Now()
	status := "success"
	defer func() {
		if r := recover(); r != nil {
			status = "error"
			s.log.Errorw("analysis panicked", "symbol", token.Symbol, "panic", r)
			result = errorResult(token)
		}
		metrics.AnalysisDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	// The three collectors are independent of each other; fetch in parallel.
	// A collector panic is re-raised here so the recover above degrades this
	// token alone.
	var (
		social    *domain.SocialMetrics
		sentiment *domain.SentimentSummary
		headlines []domain.Headline
	)
	var (
		collectWg    sync.WaitGroup
		panicMu      sync.Mutex
		collectPanic interface{}
	)
	collect := func(fn func()) {
		collectWg.Add(1)
		go func() {
			defer collectWg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					collectPanic = r
					panicMu.Unlock()
				}
			}()
			fn()
		}()
	}
	collect(func() { social = s.collectors.SocialMetrics(ctx, token.Symbol) })
	collect(func() { sentiment = s.collectors.Sentiment(ctx, token.Symbol) })
	collect(func() { headlines = s.collectors.Headlines(ctx, token.Symbol) })
	collectWg.Wait()
	if collectPanic != nil {
		panic(collectPanic)
	}

	if social == nil {
		social = synthesizeSocial(token)
	}
	if sentiment == nil {
		sentiment = synthesizeSentiment(token.Symbol, social)
	}

	posts := social.TopPosts
	if len(posts) == 0 {
		posts = s.collectors.Posts(ctx, token.Symbol)
	}

	sources := s.aggregator.BuildSources(ctx, token.Symbol, headlines, posts)

	return s.pipeline.Analyze(ctx, Input{
		Token:     token,
		Social:    social,
		Sentiment: sentiment,
		Posts:     posts,
		Sources:   sources,
	})
}
