package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeCriterion trims a search criterion and caps it at maxRunes characters, cutting on
// a rune boundary. Invalid UTF-8 is replaced with U+FFFD.
func SanitizeCriterion(input string, maxRunes int) string {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(input), string(utf8.RuneError))
	if maxRunes <= 0 {
		return trimmed
	}
	n := 0
	for i := range trimmed {
		if n == maxRunes {
			return trimmed[:i]
		}
		n++
	}
	return trimmed
}
