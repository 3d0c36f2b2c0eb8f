package enrich

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/viki-m13/reddit-data-api/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		candidate map[string]any
		title     string
		want      model.EnrichedAnalysis
	}{
		{
			name: "valid item kept as is",
			candidate: map[string]any{
				"summary":         "  A new release landed.  ",
				"sentiment":       "positive",
				"sentiment_score": float64(9),
				"key_insights":    []any{"faster", "smaller"},
			},
			title: "Release",
			want: model.EnrichedAnalysis{
				Summary:        "A new release landed.",
				Sentiment:      model.SentimentPositive,
				SentimentScore: 9,
				KeyInsights:    []string{"faster", "smaller"},
			},
		},
		{
			name:      "positive without score derives 8",
			candidate: map[string]any{"sentiment": "positive"},
			title:     "Nice",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: Nice",
				Sentiment:      model.SentimentPositive,
				SentimentScore: 8,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "negative without score derives 2",
			candidate: map[string]any{"sentiment": "negative"},
			title:     "Outage",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: Outage",
				Sentiment:      model.SentimentNegative,
				SentimentScore: 2,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "sentiment is lower-cased",
			candidate: map[string]any{"sentiment": "NEGATIVE", "sentiment_score": float64(3)},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentNegative,
				SentimentScore: 3,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "unknown sentiment becomes neutral",
			candidate: map[string]any{"sentiment": "mixed"},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "score above range clamps to 10",
			candidate: map[string]any{"sentiment": "positive", "sentiment_score": float64(99)},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentPositive,
				SentimentScore: 10,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "score below range clamps to 1",
			candidate: map[string]any{"sentiment": "negative", "sentiment_score": float64(-4)},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentNegative,
				SentimentScore: 1,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "fractional score is not an integer",
			candidate: map[string]any{"sentiment": "positive", "sentiment_score": 6.5},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentPositive,
				SentimentScore: 8,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "string score is not an integer",
			candidate: map[string]any{"sentiment": "neutral", "sentiment_score": "7"},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: t",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "single insight replaced by fallback",
			candidate: map[string]any{"summary": "s", "key_insights": []any{"only one"}},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "s",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    []string{"No additional insights", "Verify source context"},
			},
		},
		{
			name:      "insights capped at three and coerced",
			candidate: map[string]any{"summary": "s", "key_insights": []any{"a", float64(42), true, "d", "e"}},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "s",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    []string{"a", "42", "true"},
			},
		},
		{
			name:      "blank and null insights dropped",
			candidate: map[string]any{"summary": "s", "key_insights": []any{"", nil, "  x  ", "y"}},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "s",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    []string{"x", "y"},
			},
		},
		{
			name:      "insights not a list",
			candidate: map[string]any{"summary": "s", "key_insights": "a, b, c"},
			title:     "t",
			want: model.EnrichedAnalysis{
				Summary:        "s",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "blank summary falls back to title",
			candidate: map[string]any{"summary": "   "},
			title:     "Great news",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: Great news",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "non-string summary falls back to title",
			candidate: map[string]any{"summary": float64(5)},
			title:     "Great news",
			want: model.EnrichedAnalysis{
				Summary:        "Summary: Great news",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
		{
			name:      "nil candidate and empty title",
			candidate: nil,
			title:     "",
			want: model.EnrichedAnalysis{
				Summary:        "Summary unavailable",
				Sentiment:      model.SentimentNeutral,
				SentimentScore: 5,
				KeyInsights:    fallbackInsights,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.candidate, tt.title)
			assert.Equal(t, tt.want, got)
			assertValid(t, got)
		})
	}
}

func TestNormalize_FallbackInsightsAreCopied(t *testing.T) {
	got := Fallback("t")
	got.KeyInsights[0] = "mutated"

	assert.Equal(t, "No additional insights", Fallback("t").KeyInsights[0])
}

// assertValid checks the output contract every analysis must satisfy.
func assertValid(t *testing.T, a model.EnrichedAnalysis) {
	t.Helper()

	if a.Summary == "" {
		t.Errorf("empty summary")
	}
	switch a.Sentiment {
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
	default:
		t.Errorf("sentiment %q not enumerated", a.Sentiment)
	}
	if a.SentimentScore < 1 || a.SentimentScore > 10 {
		t.Errorf("score %d out of range", a.SentimentScore)
	}
	if len(a.KeyInsights) < 2 || len(a.KeyInsights) > 3 {
		t.Errorf("got %d key insights", len(a.KeyInsights))
	}
	for _, insight := range a.KeyInsights {
		if insight == "" {
			t.Errorf("empty key insight")
		}
	}
}
