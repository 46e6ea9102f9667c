// internal/accuracy/normalize.go
package accuracy

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes plate text for comparison: every whitespace rune
// is dropped and the rest is upper-cased. It is idempotent and total.
func Normalize(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, text)
	return strings.ToUpper(stripped)
}

// isSpace extends unicode.IsSpace with the ASCII file, group, record and
// unit separators (U+001C..U+001F), which plate text splitting also treats
// as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
