package matching

import "strings"

// ExtractJSONArray pulls the JSON array out of a model reply. It strips
// Markdown code fences, with or without a language tag, then returns the
// text from the first '[' to the last ']'.
func ExtractJSONArray(raw string) (string, bool) {
	s := stripFences(strings.TrimSpace(raw))
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func stripFences(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop the language tag line, e.g. ```json
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "[{") {
				s = s[nl+1:]
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
