package journal

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

var (
	ErrInvalidNote   = errors.New("invalid note")
	ErrNoteNotFound  = errors.New("note not found")
	ErrDuplicateNote = errors.New("note already exists")
)

// Repository persists the note collection.
type Repository interface {
	SaveNote(note notes.Note) error
	DeleteNote(id string) error
	DeleteAllNotes() error
	LoadNotes() ([]notes.Note, error)
}

// FulltextIndexer is kept in step with the collection on a best effort basis;
// a failed index write is logged and the index service can rebuild it later.
type FulltextIndexer interface {
	IndexNotes(notes []notes.Note) error
	DeleteDocuments(documentIDs []string) error
}

// Store is the local mirror of the user's notes. Dispatch is its only
// mutator.
type Store struct {
	mu          sync.RWMutex
	logger      logger.Logger
	repository  Repository
	indexer     FulltextIndexer
	notes       []notes.Note
	active      string
	subscribers []func([]notes.Note)
}

// New creates an empty store. indexer may be nil.
func New(logger logger.Logger, repository Repository, indexer FulltextIndexer) *Store {
	return &Store{
		logger:     logger,
		repository: repository,
		indexer:    indexer,
	}
}

// Load replaces the mirror with what the repository holds.
func (s *Store) Load() error {
	loaded, err := s.repository.LoadNotes()
	if err != nil {
		s.logger.Error("could not load notes", "err", err.Error())
		return fmt.Errorf("could not load notes: %w", err)
	}
	s.logger.Info("loaded notes", "count", len(loaded))
	return s.Dispatch(SetNotes{Notes: loaded})
}

// Subscribe registers fn to receive a snapshot after every change to the note
// collection. fn is called outside the store lock.
func (s *Store) Subscribe(fn func([]notes.Note)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Dispatch(cmd Command) error {
	s.mu.Lock()
	changed, err := cmd.apply(s)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.snapshotLocked()
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
	return nil
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []notes.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Note(id string) (notes.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return notes.Note{}, false
}

// Active returns the note selected with SetActiveNote, if any.
func (s *Store) Active() (notes.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == "" {
		return notes.Note{}, false
	}
	if i := s.indexOf(s.active); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return notes.Note{}, false
}

func (s *Store) snapshotLocked() []notes.Note {
	snapshot := make([]notes.Note, len(s.notes))
	for i, note := range s.notes {
		snapshot[i] = note.Clone()
	}
	return snapshot
}

func (s *Store) indexOf(id string) int {
	for i, note := range s.notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexNote(note notes.Note) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexNotes([]notes.Note{note}); err != nil {
		s.logger.Warn("could not update fulltext index", "id", note.ID, "err", err.Error())
	}
}

func (s *Store) unindex(ids ...string) {
	if s.indexer == nil || len(ids) == 0 {
		return
	}
	if err := s.indexer.DeleteDocuments(ids); err != nil {
		s.logger.Warn("could not remove notes from fulltext index", "count", len(ids), "err", err.Error())
	}
}
