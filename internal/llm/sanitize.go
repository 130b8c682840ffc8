package llm

import (
	"regexp"
	"strings"
)

var jsonObjectRE = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON strips an optional triple-backtick fence (bare or tagged
// "json") from a model reply and returns the first JSON object inside it.
// The bool reports whether an object was present at all.
func ExtractJSON(reply string) (string, bool) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	m := jsonObjectRE.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}
