package model

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// RawPost is one search hit as returned by the content provider, in provider order.
type RawPost struct {
	Title     string
	Content   string
	SourceURL string
}

type EnrichedAnalysis struct {
	Summary        string
	Sentiment      Sentiment
	SentimentScore int
	KeyInsights    []string
}

// EnrichedPost carries a nil Enriched only when enrichment was disabled for the request.
type EnrichedPost struct {
	RawPost
	Enriched *EnrichedAnalysis
}
