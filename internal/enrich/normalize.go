package enrich

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/viki-m13/reddit-data-api/internal/model"
)

const (
	minScore    = 1
	maxScore    = 10
	minInsights = 2
	maxInsights = 3
)

var fallbackInsights = []string{"No additional insights", "Verify source context"}

var derivedScores = map[model.Sentiment]int{
	model.SentimentPositive: 8,
	model.SentimentNeutral:  5,
	model.SentimentNegative: 2,
}

// Normalize turns one candidate item (nil when the provider gave nothing usable for the
// post) into an analysis that always satisfies the output contract. title is the post's
// own title, used when the candidate has no summary.
func Normalize(candidate map[string]any, title string) model.EnrichedAnalysis {
	sentiment := normalizeSentiment(candidate["sentiment"])

	return model.EnrichedAnalysis{
		Summary:        normalizeSummary(candidate["summary"], title),
		Sentiment:      sentiment,
		SentimentScore: normalizeScore(candidate["sentiment_score"], sentiment),
		KeyInsights:    normalizeInsights(candidate["key_insights"]),
	}
}

// Fallback is the analysis used when the provider contributed nothing for a post.
func Fallback(title string) model.EnrichedAnalysis {
	return Normalize(nil, title)
}

func normalizeSentiment(v any) model.Sentiment {
	s, _ := v.(string)
	switch sentiment := model.Sentiment(strings.ToLower(s)); sentiment {
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
		return sentiment
	}
	return model.SentimentNeutral
}

func normalizeScore(v any, sentiment model.Sentiment) int {
	score, ok := integerValue(v)
	if !ok {
		score = float64(derivedScores[sentiment])
	}
	score = math.Max(minScore, math.Min(maxScore, score))
	return int(math.Round(score))
}

// integerValue accepts only integral numbers; "7" and 7.5 do not count.
func integerValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		return float64(n), true
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return f, true
}

func normalizeSummary(v any, title string) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	if strings.TrimSpace(title) != "" {
		return "Summary: " + title
	}
	return "Summary unavailable"
}

func normalizeInsights(v any) []string {
	list, _ := v.([]any)

	insights := make([]string, 0, maxInsights)
	for _, item := range list {
		if len(insights) == maxInsights {
			break
		}
		if s, ok := insightString(item); ok {
			insights = append(insights, s)
		}
	}

	if len(insights) < minInsights {
		return append([]string(nil), fallbackInsights...)
	}
	return insights
}

// insightString coerces a list entry to text; null and blank entries are dropped.
func insightString(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		s = string(b)
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}
