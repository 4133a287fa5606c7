package search

import (
	"strings"
)

// MatchText is one run of a label, flagged when it matches the query.
type MatchText struct {
	Text  string
	Match bool
}

// SplitMatch splits text around the first case-insensitive occurrence of
// query. It returns nil when there is no match.
func SplitMatch(text string, query string) []MatchText {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	lowerText := strings.ToLower(text)
	if len(lowerText) != len(text) {
		// lowercasing changed byte offsets, indexes would not line up
		return nil
	}
	idx := strings.Index(lowerText, strings.ToLower(query))
	if idx < 0 {
		return nil
	}
	end := idx + len(query)

	var parts []MatchText
	if idx > 0 {
		parts = append(parts, MatchText{Text: text[:idx]})
	}
	parts = append(parts, MatchText{Text: text[idx:end], Match: true})
	if end < len(text) {
		parts = append(parts, MatchText{Text: text[end:]})
	}
	return parts
}
