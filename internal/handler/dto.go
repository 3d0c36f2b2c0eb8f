package handler

import "github.com/viki-m13/reddit-data-api/internal/model"

type AnalysisResponse struct {
	Summary        string   `json:"summary"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore int      `json:"sentiment_score"`
	KeyInsights    []string `json:"key_insights"`
}

type PostResponse struct {
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	SourceURL string            `json:"source_url"`
	Enriched  *AnalysisResponse `json:"enriched"`
}

type PostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// NewPostsResponse converts enriched posts into the wire shape. Posts is never null.
func NewPostsResponse(posts []model.EnrichedPost) PostsResponse {
	res := PostsResponse{Posts: make([]PostResponse, 0, len(posts))}
	for _, p := range posts {
		post := PostResponse{
			Title:     p.Title,
			Content:   p.Content,
			SourceURL: p.SourceURL,
		}
		if p.Enriched != nil {
			post.Enriched = &AnalysisResponse{
				Summary:        p.Enriched.Summary,
				Sentiment:      string(p.Enriched.Sentiment),
				SentimentScore: p.Enriched.SentimentScore,
				KeyInsights:    p.Enriched.KeyInsights,
			}
		}
		res.Posts = append(res.Posts, post)
	}
	return res
}
