package llm

import (
	"encoding/json"
	"fmt"
)

const (
	toolName        = "store_analysis"
	toolDescription = "Return structured JSON analysis for each input post IN ORDER. " +
		"Include summary, sentiment, sentiment_score, key_insights for every item."

	// EmptyContentPlaceholder stands in for posts with no body so the model never reasons over "".
	EmptyContentPlaceholder = "no content available"

	baseTokens    = 400
	tokensPerPost = 250
	maxTokens     = 8192

	// MaxBatchSize is the most posts one call can analyze inside the maxTokens budget.
	MaxBatchSize = (maxTokens - baseTokens) / tokensPerPost
)

const systemPrompt = `You are a strict JSON analyst. Output JSON only, no prose and no markdown.
When the store_analysis tool is available, use the tool ONLY and put the JSON in its arguments.
Otherwise reply with a single JSON object of the form {"items": [...]}.

Return exactly one item per input post, preserving the input order one-to-one.
Every item must contain:
- "summary": a non-empty one or two sentence summary
- "sentiment": one of "positive", "neutral", "negative"
- "sentiment_score": an INTEGER from 1 to 10 (10 most positive, 5 neutral, 1 most negative)
- "key_insights": 2 or 3 short strings

For posts with empty content ("no content available"), base the analysis on the title and set sentiment
to "neutral" and sentiment_score to 5 unless the title clearly implies another tone.`

type promptRules struct {
	FieldsRequired []string `json:"fields_required"`
	ScoringRule    string   `json:"scoring_rule"`
}

type userPrompt struct {
	Instruction string          `json:"instruction"`
	Spec        promptRules     `json:"spec"`
	Posts       []AnalysisInput `json:"posts"`
}

var requiredFields = []string{"summary", "sentiment", "sentiment_score", "key_insights"}

// BuildUserPrompt renders the batch as JSON, substituting the placeholder for empty bodies.
func BuildUserPrompt(posts []AnalysisInput) (string, error) {
	shaped := make([]AnalysisInput, len(posts))
	for i, p := range posts {
		shaped[i] = AnalysisInput{Title: p.Title, Content: p.Content}
		if shaped[i].Content == "" {
			shaped[i].Content = EmptyContentPlaceholder
		}
	}

	prompt := userPrompt{
		Instruction: fmt.Sprintf("json batch enrichment of %d posts", len(posts)),
		Spec: promptRules{
			FieldsRequired: requiredFields,
			ScoringRule:    "sentiment_score is an INTEGER from 1..10 (10 most positive, 5 neutral, 1 most negative)",
		},
		Posts: shaped,
	}

	b, err := json.Marshal(prompt)
	if err != nil {
		return "", fmt.Errorf("marshal user prompt: %w", err)
	}
	return string(b), nil
}

func itemSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
			"sentiment": map[string]any{
				"type": "string",
				"enum": []string{"positive", "neutral", "negative"},
			},
			"sentiment_score": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			"key_insights": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
				"maxItems": 3,
			},
		},
		"required": requiredFields,
	}
}

func itemsProperty(n int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": n,
		"maxItems": n,
		"items":    itemSchema(),
	}
}

// AnalysisSchema describes an object holding exactly n analyses under "items".
func AnalysisSchema(n int) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"items": itemsProperty(n),
		},
		"required": []string{"items"},
	}
}

// MaxTokensFor sizes the completion budget for n analyses, capped at maxTokens.
func MaxTokensFor(n int) int {
	t := baseTokens + tokensPerPost*n
	if t > maxTokens {
		return maxTokens
	}
	return t
}
