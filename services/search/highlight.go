package search

import (
	"regexp"
	"strings"

	"github.com/meghashyamc/notesapp/notes"
)

const (
	excerptWords      = 30
	excerptLeadWords  = 10
	defaultMarkPrefix = "<mark>"
	defaultMarkSuffix = "</mark>"
)

var tokenPattern = regexp.MustCompile(`\S+`)

// Highlighter decorates matched tokens for display. Mark receives the token
// exactly as written in the note.
type Highlighter struct {
	Mark func(string) string
}

var DefaultHighlighter = Highlighter{Mark: markHTML}

func markHTML(s string) string {
	return defaultMarkPrefix + s + defaultMarkSuffix
}

func (h Highlighter) mark(s string) string {
	if h.Mark == nil {
		return markHTML(s)
	}
	return h.Mark(s)
}

// HighlightText marks every whitespace delimited token of text whose
// normalized form contains one of the query words. Whitespace, casing and
// accents of text are kept.
func (h Highlighter) HighlightText(text, query string) string {
	words := queryWords(Normalize(query))
	if len(words) == 0 || text == "" {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		if !containsAny(Normalize(token), words) {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(h.mark(token))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// BodyExcerpt returns up to 30 words of body, starting 10 words before the
// first word that matches the query. It is empty when nothing matches.
func BodyExcerpt(body, query string) string {
	words := queryWords(Normalize(query))
	if len(words) == 0 {
		return ""
	}
	fields := strings.Fields(body)
	for i, field := range fields {
		if !containsAny(Normalize(field), words) {
			continue
		}
		start := max(i-excerptLeadWords, 0)
		end := min(start+excerptWords, len(fields))
		return strings.Join(fields[start:end], " ")
	}
	return ""
}

func (h Highlighter) highlights(note notes.Note, query string) Highlights {
	normalizedQuery := Normalize(query)
	var out Highlights

	if strings.Contains(Normalize(note.Title), normalizedQuery) {
		out.Title = h.HighlightText(note.Title, query)
	}

	if excerpt := BodyExcerpt(note.Body, query); excerpt != "" {
		out.Body = h.HighlightText(excerpt, query)
	}

	for _, tag := range note.Tags {
		if strings.Contains(Normalize(tag), normalizedQuery) {
			out.Tags = append(out.Tags, h.mark(tag))
		}
	}

	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
