package util

import "github.com/samber/lo"

// MaxDisplayNameRunes caps the length of a participant display name.
const MaxDisplayNameRunes = 64

// DisplayName sanitizes name and truncates it to MaxDisplayNameRunes.
// An empty result falls back to fallback.
func DisplayName(name, fallback string) string {
	name = SanitizeString(name)
	if r := []rune(name); len(r) > MaxDisplayNameRunes {
		name = SanitizeString(string(r[:MaxDisplayNameRunes]))
	}
	return lo.CoalesceOrEmpty(name, fallback)
}
