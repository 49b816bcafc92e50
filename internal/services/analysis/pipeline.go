package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"tokenpulse/internal/adapters/ai"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/metrics"
	"tokenpulse/pkg/logger"
)

const driverCount = 3

// Pipeline runs the three-stage commentary chain for one token:
// explanation, driver extraction, recommendation. Every stage has a
// deterministic fallback, so Analyze always yields a complete result even
// with no model available.
type Pipeline struct {
	chat ai.ChatClient
	log  *logger.Logger
}

// NewPipeline creates the commentary pipeline.
func NewPipeline(chat ai.ChatClient) *Pipeline {
	return &Pipeline{
		chat: chat,
		log:  logger.Get().With("component", "pipeline"),
	}
}

// Input carries the collected evidence for one token into the pipeline.
// Social and Sentiment are never nil; the orchestrator synthesizes them from
// the token snapshot when collection fails.
type Input struct {
	Token     domain.Token
	Social    *domain.SocialMetrics
	Sentiment *domain.SentimentSummary
	Posts     []domain.SocialPost
	Sources   []domain.Source
}

// Analyze produces the complete analysis result for one token.
func (p *Pipeline) Analyze(ctx context.Context, in Input) domain.AnalysisResult {
	explanation := p.explain(ctx, in)
	drivers := p.extractDrivers(ctx, in, explanation)
	rec, rationale := p.recommend(ctx, in, explanation, drivers)

	return shapeResult(in, explanation, drivers, rec, rationale)
}

// explain is stage one: a short prose read of the price move and sentiment.
func (p *Pipeline) explain(ctx context.Context, in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\n", in.Token.Symbol)
	fmt.Fprintf(&sb, "Price: $%v (%.2f%% 24h)\n", in.Token.CurrentPrice, in.Token.PriceChangePct24h)
	fmt.Fprintf(&sb, "Twitter sentiment score: %.2f\n", in.Sentiment.SentimentScore)
	fmt.Fprintf(&sb, "Positive tweets: %.0f%%\n", in.Sentiment.PositivePct)
	fmt.Fprintf(&sb, "Tweet volume (24h): %s\n", humanize.Commaf(in.Sentiment.TweetVolume24h))
	sb.WriteString("\nSources:\n")
	for _, src := range in.Sources {
		fmt.Fprintf(&sb, "- %s: %s\n", src.Title, src.Summary)
	}
	sb.WriteString("\nExplain the price move and current market sentiment in <= 5 sentences, referencing insights from the sources.")

	text, err := p.chat.Complete(ctx, ai.CompletionRequest{
		System: "You are a concise market analyst. Include insights from the provided sources.",
		User:   sb.String(),
	})
	if err != nil || strings.TrimSpace(text) == "" {
		metrics.PipelineStages.WithLabelValues("explain", "fallback").Inc()
		p.log.Warnw("explanation stage degraded", "symbol", in.Token.Symbol, "error", err)
		return fallbackExplanation(in.Token)
	}
	metrics.PipelineStages.WithLabelValues("explain", "live").Inc()
	return strings.TrimSpace(text)
}

// extractDrivers is stage two: exactly three driver bullets, JSON-extracted
// from the explanation plus sources.
func (p *Pipeline) extractDrivers(ctx context.Context, in Input, explanation string) []string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Explanation: %s\n\nSources:\n", explanation)
	for _, src := range in.Sources {
		fmt.Fprintf(&sb, "- %s: %s\n", src.Title, src.Summary)
	}
	fmt.Fprintf(&sb, "\nExtract 3 key drivers affecting %s price and sentiment.", in.Token.Symbol)

	text, err := p.chat.Complete(ctx, ai.CompletionRequest{
		System:       "Extract EXACTLY 3 bullet drivers in JSON array format based on the sources and explanation.",
		User:         sb.String(),
		JSONResponse: true,
	})
	if err != nil {
		metrics.PipelineStages.WithLabelValues("drivers", "fallback").Inc()
		p.log.Warnw("driver stage degraded", "symbol", in.Token.Symbol, "error", err)
		return fallbackDrivers(in.Token, in.Sentiment.SentimentScore)
	}

	drivers := parseDrivers(text)
	if drivers == nil {
		metrics.PipelineStages.WithLabelValues("drivers", "fallback").Inc()
		p.log.Warnw("driver stage returned unparseable payload", "symbol", in.Token.Symbol)
		return fallbackDrivers(in.Token, in.Sentiment.SentimentScore)
	}

	metrics.PipelineStages.WithLabelValues("drivers", "live").Inc()
	return padDrivers(drivers, in.Token, in.Sentiment.SentimentScore)
}

// recommend is stage three: a BUY/HOLD/SELL label plus a short rationale.
func (p *Pipeline) recommend(ctx context.Context, in Input, explanation string, drivers []string) (domain.Recommendation, string) {
	titles := make([]string, 0, len(in.Sources))
	for _, src := range in.Sources {
		titles = append(titles, src.Title)
	}
	driversJSON, _ := json.Marshal(drivers)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\n", in.Token.Symbol)
	fmt.Fprintf(&sb, "Price: $%v (%.2f%% 24h)\n", in.Token.CurrentPrice, in.Token.PriceChangePct24h)
	fmt.Fprintf(&sb, "Explanation: %s\n", explanation)
	fmt.Fprintf(&sb, "Drivers: %s\n", driversJSON)
	fmt.Fprintf(&sb, "Sources: %s\n", strings.Join(titles, " | "))
	sb.WriteString("\nGive a recommendation.")

	text, err := p.chat.Complete(ctx, ai.CompletionRequest{
		System: "Output ONLY one of BUY, HOLD or SELL plus a <=50-word rationale.",
		User:   sb.String(),
	})
	if err != nil || strings.TrimSpace(text) == "" {
		metrics.PipelineStages.WithLabelValues("recommend", "fallback").Inc()
		p.log.Warnw("recommendation stage degraded", "symbol", in.Token.Symbol, "error", err)
		return domain.RecommendationHold, "Insufficient data for a clear recommendation."
	}
	metrics.PipelineStages.WithLabelValues("recommend", "live").Inc()

	rec := domain.ParseRecommendation(text)
	rationale := domain.StripRecommendation(text)
	if rationale == "" {
		rationale = "Based on the current market conditions and social metrics."
	}
	return rec, rationale
}

// parseDrivers accepts either {"drivers": [...]} or a bare JSON array.
// Returns nil when neither shape parses to at least one string.
func parseDrivers(text string) []string {
	trimmed := strings.TrimSpace(text)

	var wrapped struct {
		Drivers []string `json:"drivers"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && len(wrapped.Drivers) > 0 {
		return wrapped.Drivers
	}

	var bare []string
	if err := json.Unmarshal([]byte(trimmed), &bare); err == nil && len(bare) > 0 {
		return bare
	}
	return nil
}

// padDrivers enforces the exactly-three invariant, topping up short model
// output from the deterministic set.
func padDrivers(drivers []string, token domain.Token, sentimentScore float64) []string {
	if len(drivers) >= driverCount {
		return drivers[:driverCount]
	}
	for _, d := range fallbackDrivers(token, sentimentScore) {
		if len(drivers) == driverCount {
			break
		}
		drivers = append(drivers, d)
	}
	return drivers
}
