package search

import (
	"strings"
	"time"

	"github.com/meghashyamc/notesapp/notes"
)

const (
	titlePrefixPoints   = 20
	titleContainsPoints = 10
	titleExactPoints    = 50
	tagExactPoints      = 15
	tagContainsPoints   = 8
	categoryExactPoints = 12
	categoryPartPoints  = 6
	bodyPointsPerHit    = 2
	bodyPointsCap       = 10
	favoritePoints      = 2
	pinnedPoints        = 3
	recentPoints        = 1

	recencyWindow = 7 * 24 * time.Hour
)

// Score rates how well note matches query. It is zero for a blank query and
// for queries with no word of at least two characters.
func Score(note notes.Note, query string, now time.Time) int {
	normalizedQuery := Normalize(query)
	if normalizedQuery == "" {
		return 0
	}
	words := queryWords(normalizedQuery)
	if len(words) == 0 {
		return 0
	}

	title := Normalize(note.Title)
	body := Normalize(note.Body)
	category := Normalize(note.CategoryOrDefault())
	tags := make([]string, len(note.Tags))
	for i, tag := range note.Tags {
		tags[i] = Normalize(tag)
	}

	score := 0
	for _, word := range words {
		switch {
		case strings.HasPrefix(title, word):
			score += titlePrefixPoints
		case strings.Contains(title, word):
			score += titleContainsPoints
		}

		// Applied once per word, so a multi-word exact title collects it
		// several times.
		if title == normalizedQuery {
			score += titleExactPoints
		}

		for _, tag := range tags {
			switch {
			case tag == word:
				score += tagExactPoints
			case strings.Contains(tag, word):
				score += tagContainsPoints
			}
		}

		switch {
		case category == word:
			score += categoryExactPoints
		case strings.Contains(category, word):
			score += categoryPartPoints
		}

		score += min(strings.Count(body, word)*bodyPointsPerHit, bodyPointsCap)
	}

	if note.IsFavorite {
		score += favoritePoints
	}
	if note.IsPinned {
		score += pinnedPoints
	}
	if now.UnixMilli()-note.UpdatedAt < recencyWindow.Milliseconds() {
		score += recentPoints
	}

	return score
}
