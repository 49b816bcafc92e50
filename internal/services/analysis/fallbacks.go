package analysis

import (
	"fmt"
	"math"

	"tokenpulse/internal/domain"
)

// fallbackExplanation is used when the explanation stage produces nothing.
func fallbackExplanation(token domain.Token) string {
	direction := "positive"
	if token.PriceChangePct24h < 0 {
		direction = "negative"
	}
	return fmt.Sprintf("%s showed a %s price movement in the last 24 hours.", token.Name, direction)
}

// fallbackDrivers are deterministic drivers derived from the token snapshot
// and the sentiment score, used when the driver stage yields no usable set.
// Sentiment classifies as Positive above 0.6, Negative below 0.4, Neutral
// between.
func fallbackDrivers(token domain.Token, sentimentScore float64) []string {
	mood := "Neutral"
	if sentimentScore > 0.6 {
		mood = "Positive"
	} else if sentimentScore < 0.4 {
		mood = "Negative"
	}
	direction := "gain"
	if token.PriceChangePct24h < 0 {
		direction = "loss"
	}
	return []string{
		fmt.Sprintf("Market cap of $%.2fB affects overall stability", token.MarketCap/1e9),
		fmt.Sprintf("Current price: $%v with %.2f%% %s in 24h",
			token.CurrentPrice, math.Abs(token.PriceChangePct24h), direction),
		fmt.Sprintf("Market sentiment: %s based on social metrics", mood),
	}
}

// synthesizeSocial derives social metrics from the token snapshot when no
// live or mock data exists. Neutral sentiment, zero social counters.
func synthesizeSocial(token domain.Token) *domain.SocialMetrics {
	return &domain.SocialMetrics{
		Symbol:           token.Symbol,
		Name:             token.Name,
		Price:            token.CurrentPrice,
		PercentChange24h: token.PriceChangePct24h,
		GalaxyScore:      50,
		MarketCap:        token.MarketCap,
		Sentiment:        50,
	}
}

// synthesizeSentiment derives a sentiment summary from social metrics when
// the sentiment collector fails.
func synthesizeSentiment(symbol string, social *domain.SocialMetrics) *domain.SentimentSummary {
	return &domain.SentimentSummary{
		Symbol:         symbol,
		SentimentScore: social.Sentiment / 100,
		PositivePct:    social.Sentiment,
		NegativePct:    100 - social.Sentiment,
		TweetVolume24h: social.SocialVolume,
		TopHashtags:    []string{"#" + symbol, "#crypto"},
	}
}

// unknownSymbolResult is the placeholder for symbols outside the tracked set.
func unknownSymbolResult(symbol string) domain.AnalysisResult {
	return domain.AnalysisResult{
		Symbol:      symbol,
		Name:        symbol,
		Explanation: "This token was not found in our database.",
		Drivers: []string{
			"Token not in top 25",
			"Using fallback data",
			"Consider selecting a different token",
		},
		Recommendation: domain.RecommendationHold,
		Rationale:      "HOLD - Insufficient data to make a recommendation.",
		Sources:        []domain.Source{},
	}
}

// errorResult is the placeholder for a token whose analysis failed outright.
func errorResult(token domain.Token) domain.AnalysisResult {
	direction := "increase"
	if token.PriceChangePct24h < 0 {
		direction = "decrease"
	}
	return domain.AnalysisResult{
		Symbol:         token.Symbol,
		Name:           token.Name,
		Price:          token.CurrentPrice,
		PriceChange24h: token.PriceChangePct24h,
		Explanation:    fmt.Sprintf("Analysis could not be generated for %s due to an error.", token.Name),
		Drivers: []string{
			"Data processing error",
			"API service unavailable",
			fmt.Sprintf("Price %s of %.2f%% in 24h", direction, math.Abs(token.PriceChangePct24h)),
		},
		Recommendation: domain.RecommendationHold,
		Rationale:      "HOLD - Insufficient data to make a recommendation.",
		Sources:        []domain.Source{},
		TwitterSentiment: &domain.SentimentSnapshot{
			Score:           0.5,
			PositivePercent: 50,
			NegativePercent: 50,
		},
	}
}

// shapeResult assembles the final result, enforcing the size caps on
// drivers, sources and tweets and the label prefix on the rationale.
func shapeResult(in Input, explanation string, drivers []string, rec domain.Recommendation, rationale string) domain.AnalysisResult {
	if len(drivers) > driverCount {
		drivers = drivers[:driverCount]
	}
	sources := in.Sources
	if len(sources) > maxFinalSources {
		sources = sources[:maxFinalSources]
	}
	if sources == nil {
		sources = []domain.Source{}
	}

	tweets := make([]domain.Tweet, 0, maxFinalSources)
	for _, p := range in.Posts {
		if len(tweets) == maxFinalSources {
			break
		}
		t := domain.Tweet{Text: p.Text, URL: p.URL, Author: p.Author}
		if t.Text == "" {
			t.Text = fmt.Sprintf("Recent post about %s", in.Token.Symbol)
		}
		if t.URL == "" {
			t.URL = "#"
		}
		if t.Author == "" {
			t.Author = "User"
		}
		tweets = append(tweets, t)
	}

	return domain.AnalysisResult{
		Symbol:         in.Token.Symbol,
		Name:           in.Token.Name,
		Price:          in.Token.CurrentPrice,
		PriceChange24h: in.Token.PriceChangePct24h,
		Explanation:    explanation,
		Drivers:        drivers,
		Recommendation: rec,
		Rationale:      fmt.Sprintf("%s - %s", rec, rationale),
		Sources:        sources,
		TwitterSentiment: &domain.SentimentSnapshot{
			Score:           in.Sentiment.SentimentScore,
			PositivePercent: in.Sentiment.PositivePct,
			NegativePercent: in.Sentiment.NegativePct,
			Volume:          in.Sentiment.TweetVolume24h,
		},
		TopTweets: tweets,
	}
}
