package domain

import "strings"

// Recommendation is the trade stance produced by the analysis pipeline.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationHold Recommendation = "HOLD"
	RecommendationSell Recommendation = "SELL"
)

// ParseRecommendation extracts the recommendation label from the leading
// token of a model response, case-insensitively. Anything unrecognized maps
// to HOLD.
func ParseRecommendation(text string) Recommendation {
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, string(RecommendationBuy)):
		return RecommendationBuy
	case strings.HasPrefix(upper, string(RecommendationSell)):
		return RecommendationSell
	case strings.HasPrefix(upper, string(RecommendationHold)):
		return RecommendationHold
	default:
		return RecommendationHold
	}
}

// StripRecommendation removes a leading recommendation label plus separator
// punctuation from text, returning the remaining rationale.
func StripRecommendation(text string) string {
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)

	for _, label := range []string{"BUY", "HOLD", "SELL"} {
		if strings.HasPrefix(upper, label) {
			rest := trimmed[len(label):]
			rest = strings.TrimLeft(rest, " \t")
			rest = strings.TrimLeft(rest, "-:–")
			return strings.TrimSpace(rest)
		}
	}
	return trimmed
}
