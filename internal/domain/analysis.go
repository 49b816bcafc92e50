package domain

// SentimentSnapshot is the compact sentiment block embedded in a result.
type SentimentSnapshot struct {
	Score           float64 `json:"score"`
	PositivePercent float64 `json:"positivePercent"`
	NegativePercent float64 `json:"negativePercent"`
	Volume          float64 `json:"volume"`
}

// Tweet is one social post surfaced alongside a result.
type Tweet struct {
	Text   string `json:"text"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

// AnalysisResult is the terminal entity of the analysis pipeline.
// Invariants: Drivers has exactly 3 entries, Sources and TopTweets at most 3,
// Rationale starts with the recommendation label.
type AnalysisResult struct {
	Symbol           string             `json:"symbol"`
	Name             string             `json:"name"`
	Price            float64            `json:"price"`
	PriceChange24h   float64            `json:"priceChange24h"`
	Explanation      string             `json:"explanation"`
	Drivers          []string           `json:"drivers"`
	Recommendation   Recommendation     `json:"recommendation"`
	Rationale        string             `json:"rationale"`
	Sources          []Source           `json:"sources"`
	TwitterSentiment *SentimentSnapshot `json:"twitterSentiment,omitempty"`
	TopTweets        []Tweet            `json:"topTweets,omitempty"`
}
