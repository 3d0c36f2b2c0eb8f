package enrich

import (
	"encoding/json"

	"github.com/viki-m13/reddit-data-api/pkg/llm"
)

// candidatesFrom pulls the per-post candidate items out of a provider payload. Structured
// and free-text payloads take the same path: strict parse first, then a salvage pass that
// cuts the outermost JSON value out of prose and drops trailing commas. Anything still
// unparseable yields no candidates; it never fails.
func candidatesFrom(p *llm.Payload) []map[string]any {
	if p == nil {
		return nil
	}

	v, ok := parseJSON(p.Body)
	if !ok {
		v, ok = parseJSON(llm.StripTrailingCommas(llm.ExtractJSON(p.Body)))
	}
	if !ok {
		return nil
	}

	return candidateList(v)
}

func parseJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// candidateList accepts {"items": [...]}, a bare array, or a single analysis object.
// Non-object entries stay in place as nil so positions keep lining up with the posts.
func candidateList(v any) []map[string]any {
	var list []any
	switch x := v.(type) {
	case []any:
		list = x
	case map[string]any:
		if items, ok := x["items"].([]any); ok {
			list = items
		} else if looksLikeAnalysis(x) {
			list = []any{x}
		}
	}

	candidates := make([]map[string]any, len(list))
	for i, item := range list {
		candidates[i], _ = item.(map[string]any)
	}
	return candidates
}

func looksLikeAnalysis(m map[string]any) bool {
	for _, field := range []string{"summary", "sentiment", "sentiment_score", "key_insights"} {
		if _, ok := m[field]; ok {
			return true
		}
	}
	return false
}
