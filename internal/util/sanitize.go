package util

import (
	"html"
	"strings"
)

// SanitizeText trims and HTML-escapes free-text input. User-entered text is
// echoed back in responses (including validation failures), so markup
// characters must be neutralized before anything else looks at the value.
func SanitizeText(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

func SanitizeAll(inputs []string) []string {
	if len(inputs) == 0 {
		return nil
	}
	out := make([]string, 0, len(inputs))
	for _, s := range inputs {
		if clean := SanitizeText(s); clean != "" {
			out = append(out, clean)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
