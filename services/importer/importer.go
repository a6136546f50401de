package importer

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/journal"
)

// NoteStore is the part of the journal store the importer writes through.
type NoteStore interface {
	Dispatch(cmd journal.Command) error
	Note(id string) (notes.Note, bool)
}

type Options struct {
	ExcludeFolders []string
	// Replace clears every note before importing.
	Replace bool
}

type Report struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Failed   []string `json:"failed,omitempty"`
}

type Importer struct {
	logger logger.Logger
	store  NoteStore
}

func New(logger logger.Logger, store NoteStore) *Importer {
	return &Importer{logger: logger, store: store}
}

// Import reads every markdown file under rootPath into the store. A file is
// always imported under the same id, so importing again updates in place.
// Files that cannot be read or parsed are reported and skipped.
func (i *Importer) Import(ctx context.Context, rootPath string, opts Options) (Report, error) {
	var report Report

	files, err := i.discoverMarkdownFiles(rootPath, opts.ExcludeFolders)
	if err != nil {
		i.logger.Error("could not discover markdown files", "root", rootPath, "err", err.Error())
		return report, fmt.Errorf("could not discover markdown files: %w", err)
	}
	i.logger.Info("discovered markdown files", "root", rootPath, "num_of_files", len(files))

	if opts.Replace {
		if err := i.store.Dispatch(journal.ClearNotes{}); err != nil {
			return report, fmt.Errorf("could not clear notes before import: %w", err)
		}
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		note, err := extractNote(file)
		if err != nil {
			i.logger.Warn("skipping file", "path", file.Path, "err", err.Error())
			report.Failed = append(report.Failed, file.RelPath)
			continue
		}

		if existing, exists := i.store.Note(note.ID); exists {
			note.CreatedAt = existing.CreatedAt
			err = i.store.Dispatch(journal.UpdateNote{Note: note})
			if err == nil {
				report.Updated++
			}
		} else {
			err = i.store.Dispatch(journal.AddNote{Note: note})
			if err == nil {
				report.Imported++
			}
		}
		if err != nil {
			i.logger.Error("could not store imported note", "path", file.Path, "err", err.Error())
			report.Failed = append(report.Failed, file.RelPath)
		}
	}

	i.logger.Info("import finished", "imported", report.Imported, "updated", report.Updated, "failed", len(report.Failed))
	return report, nil
}

// NoteID is the stable id given to the file at relPath.
func NoteID(relPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("notesapp:"+relPath)).String()
}

func extractNote(file FileInfo) (notes.Note, error) {
	content, err := readTextFile(file.Path)
	if err != nil {
		return notes.Note{}, err
	}

	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return notes.Note{}, err
	}

	note := notes.Note{
		ID:         NoteID(file.RelPath),
		Title:      strings.TrimSpace(fm.Title),
		Body:       body,
		Category:   strings.TrimSpace(fm.Category),
		Tags:       []string(fm.Tags),
		Color:      strings.TrimSpace(fm.Color),
		IsFavorite: fm.Favorite,
		IsPinned:   fm.Pinned,
	}
	if note.Title == "" {
		note.Title = titleFromPath(file.RelPath)
	}

	priority, ok := notes.ParsePriority(fm.Priority)
	if !ok {
		return notes.Note{}, fmt.Errorf("unknown priority %q", fm.Priority)
	}
	if fm.Priority != "" {
		note.Priority = priority
	}

	updated := file.ModTime
	if t, ok := parseUpdated(fm.Updated); ok {
		updated = t
	}
	note.Touch(updated)

	return note, nil
}

func titleFromPath(relPath string) string {
	stem := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
}
