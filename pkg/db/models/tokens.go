package models

import "strings"

// NormalizeTokens lowercases and trims each value, drops blanks and
// duplicates, and keeps first-seen order. The result is never nil.
func NormalizeTokens(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		token := strings.ToLower(strings.TrimSpace(v))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
