package journal

import (
	"fmt"
	"strings"

	"github.com/meghashyamc/notesapp/notes"
)

// Command is a mutation of the Store. apply runs under the store lock and
// reports whether the note collection changed.
type Command interface {
	apply(s *Store) (bool, error)
}

type AddNote struct {
	Note notes.Note
}

func (c AddNote) apply(s *Store) (bool, error) {
	if strings.TrimSpace(c.Note.ID) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidNote)
	}
	if s.indexOf(c.Note.ID) >= 0 {
		return false, fmt.Errorf("%w: %s", ErrDuplicateNote, c.Note.ID)
	}
	note := c.Note.Clone()
	if err := s.repository.SaveNote(note); err != nil {
		s.logger.Error("could not save note", "id", note.ID, "err", err.Error())
		return false, fmt.Errorf("could not save note %s: %w", note.ID, err)
	}
	s.notes = append(s.notes, note)
	s.indexNote(note)
	return true, nil
}

type UpdateNote struct {
	Note notes.Note
}

func (c UpdateNote) apply(s *Store) (bool, error) {
	if strings.TrimSpace(c.Note.ID) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidNote)
	}
	i := s.indexOf(c.Note.ID)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNoteNotFound, c.Note.ID)
	}
	note := c.Note.Clone()
	if note.CreatedAt == 0 {
		note.CreatedAt = s.notes[i].CreatedAt
	}
	if err := s.repository.SaveNote(note); err != nil {
		s.logger.Error("could not save note", "id", note.ID, "err", err.Error())
		return false, fmt.Errorf("could not save note %s: %w", note.ID, err)
	}
	s.notes[i] = note
	s.indexNote(note)
	return true, nil
}

type DeleteNote struct {
	ID string
}

func (c DeleteNote) apply(s *Store) (bool, error) {
	i := s.indexOf(c.ID)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNoteNotFound, c.ID)
	}
	if err := s.repository.DeleteNote(c.ID); err != nil {
		s.logger.Error("could not delete note", "id", c.ID, "err", err.Error())
		return false, fmt.Errorf("could not delete note %s: %w", c.ID, err)
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	if s.active == c.ID {
		s.active = ""
	}
	s.unindex(c.ID)
	return true, nil
}

// SetNotes replaces the mirror with notes already held by the repository. It
// does not write back and does not touch the fulltext index.
type SetNotes struct {
	Notes []notes.Note
}

func (c SetNotes) apply(s *Store) (bool, error) {
	seen := make(map[string]struct{}, len(c.Notes))
	replacement := make([]notes.Note, 0, len(c.Notes))
	for _, note := range c.Notes {
		if strings.TrimSpace(note.ID) == "" {
			return false, fmt.Errorf("%w: id is required", ErrInvalidNote)
		}
		if _, ok := seen[note.ID]; ok {
			return false, fmt.Errorf("%w: %s", ErrDuplicateNote, note.ID)
		}
		seen[note.ID] = struct{}{}
		replacement = append(replacement, note.Clone())
	}
	s.notes = replacement
	if _, ok := seen[s.active]; !ok {
		s.active = ""
	}
	return true, nil
}

// SetActiveNote selects the note being viewed. An empty ID clears the
// selection.
type SetActiveNote struct {
	ID string
}

func (c SetActiveNote) apply(s *Store) (bool, error) {
	if c.ID != "" && s.indexOf(c.ID) < 0 {
		return false, fmt.Errorf("%w: %s", ErrNoteNotFound, c.ID)
	}
	s.active = c.ID
	return false, nil
}

// ClearNotes drops every note, as on logout.
type ClearNotes struct{}

func (ClearNotes) apply(s *Store) (bool, error) {
	if err := s.repository.DeleteAllNotes(); err != nil {
		s.logger.Error("could not clear notes", "err", err.Error())
		return false, fmt.Errorf("could not clear notes: %w", err)
	}
	ids := make([]string, len(s.notes))
	for i, note := range s.notes {
		ids[i] = note.ID
	}
	s.notes = nil
	s.active = ""
	s.unindex(ids...)
	return true, nil
}
