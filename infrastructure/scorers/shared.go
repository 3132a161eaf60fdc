// Package scorers implements the three evaluation dimensions: semantic
// similarity over embeddings, stylistic feature comparison, and the
// optional LLM qualitative judge. Each scorer is stateless after
// construction and safe for concurrent use.
package scorers

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across scorers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// clamp01 restricts v to the unit interval.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// extractJSON isolates the first JSON object in an LLM response, tolerating
// markdown code fences and surrounding prose. Returns the empty string when
// no balanced object is found.
func extractJSON(response string) string {
	cleaned := strings.TrimSpace(response)

	// Strip markdown code fences if present.
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.IndexByte(cleaned, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1]
			}
		}
	}
	return ""
}
