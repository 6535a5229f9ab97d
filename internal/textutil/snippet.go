package textutil

import "strings"

const snippetLimit = 160

// Snippet collapses whitespace in a payload and truncates it for log and error
// messages. Empty input renders as "<empty>".
func Snippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	runes := []rune(clean)
	if len(runes) > snippetLimit {
		clean = string(runes[:snippetLimit]) + "..."
	}
	return clean
}

// FirstNonEmpty returns the first value that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
