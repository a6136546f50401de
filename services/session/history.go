package session

import (
	"slices"
	"strings"

	"github.com/meghashyamc/notesapp/services/search"
)

const MaxHistory = 10

// History is a bounded, most recent first list of queries that found
// something. Entries are unique by exact string.
type History struct {
	limit   int
	entries []string
}

func NewHistory(limit int, seed []string) *History {
	if limit <= 0 {
		limit = MaxHistory
	}
	h := &History{limit: limit}
	for i := len(seed) - 1; i >= 0; i-- {
		h.Add(seed[i])
	}
	return h
}

// Add moves query to the front, reporting whether the history changed.
func (h *History) Add(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	if len(h.entries) > 0 && h.entries[0] == query {
		return false
	}
	if i := slices.Index(h.entries, query); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = slices.Insert(h.entries, 0, query)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return true
}

func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

const (
	maxKeywordSuggestions = 5
	maxHistorySuggestions = 3
)

// suggest offers up to five keywords and then up to three past queries that
// contain query, without repeats. A blank query suggests nothing.
func suggest(query string, keywords []string, history []string) []string {
	normalized := search.Normalize(query)
	if normalized == "" {
		return nil
	}

	var suggestions []string
	seen := make(map[string]struct{})
	add := func(candidates []string, limit int) {
		taken := 0
		for _, candidate := range candidates {
			if taken == limit {
				return
			}
			if !strings.Contains(search.Normalize(candidate), normalized) {
				continue
			}
			taken++
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			suggestions = append(suggestions, candidate)
		}
	}

	add(keywords, maxKeywordSuggestions)
	add(history, maxHistorySuggestions)
	return suggestions
}
