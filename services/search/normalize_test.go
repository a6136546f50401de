package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase accent", "CAFÉ", "cafe"},
		{"plain", "cafe", "cafe"},
		{"trims", "  Árbol  ", "arbol"},
		{"tilde", "Ñandú", "nandu"},
		{"keeps inner whitespace", " a  b ", "a  b"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"ring and umlaut", "ÅNGSTRÖM", "angstrom"},
		{"non latin untouched", "Привет", "привет"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeCafeEquivalence(t *testing.T) {
	require.Equal(t, Normalize("CAFÉ"), Normalize("cafe"))
}

func TestQueryWords(t *testing.T) {
	assert := require.New(t)

	assert.Equal([]string{"go", "zoo"}, queryWords("a go  zoo"))
	assert.Empty(queryWords("a b c"))
	assert.Equal([]string{"ñu"}, queryWords("ñu"), "length is counted in characters, not bytes")
}
