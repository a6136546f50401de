package searchdb

import (
	"time"

	"github.com/meghashyamc/notesapp/notes"
)

type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument indexes the plain text of the note body; markup would otherwise
// be tokenized as words.
func NewDocument(note notes.Note) Document {
	return Document{
		ID:        note.ID,
		Title:     note.Title,
		Body:      notes.PlainText(note.Body),
		Tags:      note.Tags,
		Category:  note.CategoryOrDefault(),
		UpdatedAt: note.UpdatedTime().UTC(),
	}
}

type Result struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Category  string              `json:"category"`
	Score     float64             `json:"score"`
	UpdatedAt string              `json:"updated_at"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}
