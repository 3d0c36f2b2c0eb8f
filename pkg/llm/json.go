package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// ExtractJSON strips markdown fences and cuts the outermost bracketed value out of any
// surrounding prose. The first "{" and the first "[" are both tried, earliest first, and the
// first cut that parses (trailing commas allowed) wins; if neither does, the earliest cut is
// returned. Input without brackets is returned trimmed.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON, brackets included.
	openers := []int{strings.Index(content, "{"), strings.Index(content, "[")}
	if openers[1] >= 0 && (openers[0] < 0 || openers[1] < openers[0]) {
		openers[0], openers[1] = openers[1], openers[0]
	}

	first := ""
	for _, start := range openers {
		if start < 0 {
			continue
		}
		cut, ok := cutFrom(content, start)
		if !ok {
			continue
		}
		if json.Valid([]byte(StripTrailingCommas(cut))) {
			return cut
		}
		if first == "" {
			first = cut
		}
	}

	if first == "" {
		return content
	}
	return first
}

// cutFrom slices content from the opener at start to the last matching closer.
func cutFrom(content string, start int) (string, bool) {
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// StripTrailingCommas removes commas directly before a closing bracket or brace.
func StripTrailingCommas(content string) string {
	return trailingComma.ReplaceAllString(content, "$1")
}
