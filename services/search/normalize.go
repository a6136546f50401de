package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for comparison: lower-cased, accents removed,
// surrounding whitespace trimmed. Internal whitespace is left alone.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	if isASCII(lowered) {
		return strings.TrimSpace(lowered)
	}
	// transform.Chain keeps state, so a fresh one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.TrimSpace(lowered)
	}
	return strings.TrimSpace(stripped)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// queryWords returns the whitespace separated words of an already normalized
// query that are long enough to take part in word matching.
func queryWords(normalizedQuery string) []string {
	fields := strings.Fields(normalizedQuery)
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minWordRunes {
			words = append(words, f)
		}
	}
	return words
}

const minWordRunes = 2
