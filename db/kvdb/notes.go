package kvdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/meghashyamc/notesapp/notes"
)

// SaveNote stores note as JSON under its id.
func (b *BoltDB) SaveNote(note notes.Note) error {
	value, err := json.Marshal(note)
	if err != nil {
		b.logger.Error("could not encode note", "id", note.ID, "err", err.Error())
		return fmt.Errorf("could not encode note %s: %w", note.ID, err)
	}
	return b.Set(NotesBucket, note.ID, string(value))
}

func (b *BoltDB) DeleteNote(id string) error {
	return b.Delete(NotesBucket, id)
}

func (b *BoltDB) DeleteAllNotes() error {
	return b.DeleteAll(NotesBucket)
}

// LoadNotes returns every stored note, oldest first. Entries that no longer
// decode are skipped and logged.
func (b *BoltDB) LoadNotes() ([]notes.Note, error) {
	entries, err := b.GetAll(NotesBucket)
	if err != nil {
		return nil, err
	}

	loaded := make([]notes.Note, 0, len(entries))
	for _, entry := range entries {
		var note notes.Note
		if err := json.Unmarshal([]byte(entry.Value), &note); err != nil {
			b.logger.Warn("skipping undecodable note", "id", entry.Key, "err", err.Error())
			continue
		}
		loaded = append(loaded, note)
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].CreatedAt < loaded[j].CreatedAt
	})
	return loaded, nil
}

// LoadHistory returns the saved search history of owner, or nil if none was
// saved yet.
func (b *BoltDB) LoadHistory(owner string) ([]string, error) {
	value, err := b.Get(HistoryBucket, owner)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var history []string
	if err := json.Unmarshal([]byte(value), &history); err != nil {
		b.logger.Error("could not decode search history", "owner", owner, "err", err.Error())
		return nil, fmt.Errorf("could not decode search history for %s: %w", owner, err)
	}
	return history, nil
}

func (b *BoltDB) SaveHistory(owner string, history []string) error {
	value, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("could not encode search history for %s: %w", owner, err)
	}
	return b.Set(HistoryBucket, owner, string(value))
}
