package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meghashyamc/notesapp/notes"
)

const MaxKeywords = 20

var keywordPattern = regexp.MustCompile(`\b\w{3,}\b`)

// ExtractKeywords returns the most frequent words across all titles and
// bodies, most frequent first. Words with equal counts keep the order in
// which they were first seen.
func ExtractKeywords(all []notes.Note) []string {
	counts := make(map[string]int)
	var order []string

	for _, note := range all {
		text := strings.ToLower(note.Title + " " + note.Body)
		for _, word := range keywordPattern.FindAllString(text, -1) {
			if isStopWord(word) {
				continue
			}
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

var stopWords = map[string]bool{
	// english
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"was": true, "were": true, "has": true, "have": true, "had": true,
	"this": true, "that": true, "with": true, "from": true, "they": true,
	"will": true, "would": true, "could": true, "should": true, "there": true,
	"their": true, "what": true, "which": true, "when": true, "been": true,
	"into": true, "than": true, "then": true, "them": true, "these": true,
	"those": true, "also": true, "just": true, "about": true, "your": true,
	"our": true, "out": true, "its": true, "does": true, "did": true,
	// spanish
	"que": true, "los": true, "las": true, "del": true, "por": true,
	"con": true, "una": true, "uno": true, "para": true, "como": true,
	"mas": true, "pero": true, "sus": true, "les": true, "este": true,
	"esta": true, "esto": true, "ese": true, "esa": true, "eso": true,
	"son": true, "fue": true, "hay": true, "muy": true, "sin": true,
	"sobre": true, "entre": true, "cuando": true, "todo": true, "todos": true,
	"desde": true, "donde": true, "porque": true, "nos": true, "ella": true,
	"ellos": true, "hasta": true, "ser": true, "han": true, "era": true,
}

func isStopWord(word string) bool {
	return stopWords[word]
}
