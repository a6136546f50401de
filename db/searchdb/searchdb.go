package searchdb

import "github.com/meghashyamc/notesapp/notes"

type DB interface {
	BuildIndex(documents []Document) error
	IndexNotes(notes []notes.Note) error
	DeleteDocuments(documentIDs []string) error
	DocumentIDs() ([]string, error)
	Search(queryString string, limit int, offset int) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}
