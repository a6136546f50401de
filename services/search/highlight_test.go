package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHighlightText(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		query    string
		expected string
	}{
		{"single word", "Buy milk today", "milk", "Buy <mark>milk</mark> today"},
		{"token containing the word", "homework due", "work", "<mark>homework</mark> due"},
		{"several words", "Trip to Rome", "rome trip", "<mark>Trip</mark> to <mark>Rome</mark>"},
		{"keeps accents and case", "Un CAFÉ negro", "cafe", "Un <mark>CAFÉ</mark> negro"},
		{"keeps whitespace", "a  milk\tb", "milk", "a  <mark>milk</mark>\tb"},
		{"short words ignored", "a b c", "a", "a b c"},
		{"no match", "nothing here", "milk", "nothing here"},
		{"empty text", "", "milk", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, DefaultHighlighter.HighlightText(tc.text, tc.query))
		})
	}
}

func TestBodyExcerpt(t *testing.T) {
	assert := require.New(t)

	body := "zero one two target four five"
	assert.Equal(body, BodyExcerpt(body, "target"), "window is clipped at the start of the body")
	assert.Equal("", BodyExcerpt(body, "missing"))
	assert.Equal("", BodyExcerpt(body, "a"))

	words := strings.Fields(strings.Repeat("x ", 100))
	words[60] = "needle"
	excerpt := BodyExcerpt(strings.Join(words, " "), "NEEDLE")
	fields := strings.Fields(excerpt)
	assert.Len(fields, 30)
	assert.Equal("needle", fields[10])
}

func TestZeroHighlighterUsesHTMLMarks(t *testing.T) {
	require.Equal(t, "<mark>milk</mark>", Highlighter{}.HighlightText("milk", "milk"))
}
