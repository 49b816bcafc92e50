package domain

// SocialMetrics holds social and market signal for one token, as collected
// from LunarCrush or synthesized as a fallback.
// Sentiment is on a 0-100 scale and is always populated (50 = neutral) so
// downstream consumers never need nil checks.
type SocialMetrics struct {
	Symbol           string       `json:"symbol"`
	Name             string       `json:"name"`
	Price            float64      `json:"price"`
	PercentChange24h float64      `json:"percent_change_24h"`
	GalaxyScore      float64      `json:"galaxy_score"`
	SocialDominance  float64      `json:"social_dominance"`
	SocialVolume     float64      `json:"social_volume"`
	MarketCap        float64      `json:"market_cap"`
	Sentiment        float64      `json:"sentiment"`
	Interactions24h  float64      `json:"interactions_24h"`
	NumContributors  float64      `json:"num_contributors"`
	TopPosts         []SocialPost `json:"top_posts"`
}

// SocialPost is one social network post referenced as market signal.
type SocialPost struct {
	Text         string  `json:"text"`
	URL          string  `json:"url"`
	Author       string  `json:"author"`
	Network      string  `json:"network"`
	Interactions float64 `json:"interactions"`
}

// SentimentSummary is a coarse sentiment reading derived from a search
// engine's natural-language answer. Percentages approximate 100 but the sum
// is not enforced.
type SentimentSummary struct {
	Symbol         string   `json:"symbol"`
	SentimentScore float64  `json:"sentiment_score"`
	PositivePct    float64  `json:"positive_tweets_percent"`
	NegativePct    float64  `json:"negative_tweets_percent"`
	NeutralPct     float64  `json:"neutral_tweets_percent"`
	TweetVolume24h float64  `json:"tweet_volume_24h"`
	TopHashtags    []string `json:"top_hashtags"`
}
