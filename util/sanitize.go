package util

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
// Use it for single-line values such as display names.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeText is SanitizeString for multi-line text: newlines and tabs are
// kept, \r\n is folded to \n and surrounding whitespace is trimmed.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
