package search

import (
	"sort"
	"strings"
	"time"

	"github.com/meghashyamc/notesapp/notes"
)

type Result struct {
	Note       notes.Note `json:"note"`
	Score      int        `json:"score"`
	Highlights Highlights `json:"highlights"`
}

// Highlights holds the marked up fields of a result. Empty fields had no
// match.
type Highlights struct {
	Title string   `json:"title,omitempty"`
	Body  string   `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func (h Highlights) Empty() bool {
	return h.Title == "" && h.Body == "" && len(h.Tags) == 0
}

// Engine runs searches over a note snapshot. Now is consulted once per search
// for the recency bonus.
type Engine struct {
	Now         func() time.Time
	Highlighter Highlighter
}

func NewEngine() *Engine {
	return &Engine{
		Now:         time.Now,
		Highlighter: DefaultHighlighter,
	}
}

var defaultEngine = NewEngine()

// Search is Engine.Search with the wall clock and HTML marks.
func Search(all []notes.Note, query string, filters Filters) []Result {
	return defaultEngine.Search(all, query, filters)
}

// Search filters, scores, ranks and highlights all. With a blank query and no
// filters every note comes back unscored in its original order; with a blank
// query and filters the filtered notes come back newest first. Otherwise only
// notes scoring above zero are returned, best first, ties in input order.
func (e *Engine) Search(all []notes.Note, query string, filters Filters) []Result {
	blank := strings.TrimSpace(query) == ""

	if blank && !HasActiveFilters(filters) {
		return unscored(all)
	}

	candidates := ApplyFilters(all, filters)

	if blank {
		results := unscored(candidates)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Note.UpdatedAt > results[j].Note.UpdatedAt
		})
		return results
	}

	now := e.now()
	results := make([]Result, 0, len(candidates))
	for _, note := range candidates {
		score := Score(note, query, now)
		if score == 0 {
			continue
		}
		results = append(results, Result{
			Note:       note,
			Score:      score,
			Highlights: e.Highlighter.highlights(note, query),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func unscored(all []notes.Note) []Result {
	results := make([]Result, len(all))
	for i, note := range all {
		results[i] = Result{Note: note}
	}
	return results
}
