package domain

// Headline is a news item title with its link.
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Source is a titled, URL-addressed piece of supporting evidence attached to
// an analysis result.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}
