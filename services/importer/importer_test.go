package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/journal"
	"github.com/stretchr/testify/require"
)

type memoryRepository map[string]notes.Note

func (m memoryRepository) SaveNote(n notes.Note) error { m[n.ID] = n; return nil }
func (m memoryRepository) DeleteNote(id string) error  { delete(m, id); return nil }
func (m memoryRepository) DeleteAllNotes() error {
	for id := range m {
		delete(m, id)
	}
	return nil
}
func (m memoryRepository) LoadNotes() ([]notes.Note, error) { return nil, nil }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestImporter(t *testing.T) (*Importer, *journal.Store) {
	t.Helper()
	log := logger.NewWithWriter(os.Stderr, "error")
	store := journal.New(log, memoryRepository{}, nil)
	return New(log, store), store
}

func setupTree(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "trip.md", `---
title: Trip to Rome
category: travel
tags: travel, italy
priority: HIGH
favorite: true
updated: 2024-01-02
---
Book flights.
`)
	writeFile(t, root, "notes/grocery_list.md", "buy milk\n")
	writeFile(t, root, ".hidden/secret.md", "secret")
	writeFile(t, root, "archive/old.md", "old")
	writeFile(t, root, "readme.txt", "not markdown")
	writeFile(t, root, "bad.md", "---\ntags: [unclosed\n---\nbody\n")
	writeFile(t, root, "weird.md", "---\npriority: urgent\n---\nbody\n")
	return root
}

func TestImport(t *testing.T) {
	assert := require.New(t)
	root := setupTree(t)
	importer, store := newTestImporter(t)

	report, err := importer.Import(context.Background(), root, Options{ExcludeFolders: []string{"archive"}})
	assert.NoError(err)
	assert.Equal(2, report.Imported)
	assert.Zero(report.Updated)
	assert.Equal([]string{"bad.md", "weird.md"}, report.Failed)

	trip, ok := store.Note(NoteID("trip.md"))
	assert.True(ok)
	assert.Equal("Trip to Rome", trip.Title)
	assert.Equal("Book flights.", trip.Body)
	assert.Equal("travel", trip.Category)
	assert.Equal([]string{"travel", "italy"}, trip.Tags)
	assert.Equal(notes.PriorityHigh, trip.Priority)
	assert.True(trip.IsFavorite)
	assert.False(trip.IsPinned)
	assert.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli(), trip.UpdatedAt)

	grocery, ok := store.Note(NoteID("notes/grocery_list.md"))
	assert.True(ok)
	assert.Equal("grocery list", grocery.Title)
	assert.Equal("buy milk", grocery.Body)
	assert.Empty(grocery.Priority)
	info, err := os.Stat(filepath.Join(root, "notes", "grocery_list.md"))
	assert.NoError(err)
	assert.Equal(info.ModTime().UnixMilli(), grocery.UpdatedAt)
}

func TestReimportUpdatesInPlace(t *testing.T) {
	assert := require.New(t)
	root := setupTree(t)
	importer, store := newTestImporter(t)

	_, err := importer.Import(context.Background(), root, Options{ExcludeFolders: []string{"archive"}})
	assert.NoError(err)
	before, _ := store.Note(NoteID("trip.md"))

	writeFile(t, root, "trip.md", "---\ntitle: Trip to Milan\nupdated: 2024-02-01\n---\nTrain.\n")
	report, err := importer.Import(context.Background(), root, Options{ExcludeFolders: []string{"archive"}})
	assert.NoError(err)
	assert.Zero(report.Imported)
	assert.Equal(2, report.Updated)
	assert.Len(store.Snapshot(), 2)

	after, _ := store.Note(NoteID("trip.md"))
	assert.Equal("Trip to Milan", after.Title)
	assert.Equal(before.CreatedAt, after.CreatedAt)
}

func TestImportReplace(t *testing.T) {
	assert := require.New(t)
	root := setupTree(t)
	importer, store := newTestImporter(t)

	assert.NoError(store.Dispatch(journal.AddNote{Note: notes.Note{ID: "manual", Title: "typed in the app"}}))

	report, err := importer.Import(context.Background(), root, Options{ExcludeFolders: []string{"archive"}, Replace: true})
	assert.NoError(err)
	assert.Equal(2, report.Imported)

	_, ok := store.Note("manual")
	assert.False(ok)
	assert.Len(store.Snapshot(), 2)
}

func TestImportMissingRoot(t *testing.T) {
	importer, _ := newTestImporter(t)
	_, err := importer.Import(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
}

func TestImportCancelled(t *testing.T) {
	root := setupTree(t)
	importer, store := newTestImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := importer.Import(ctx, root, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, store.Snapshot())
}

func TestSplitFrontMatter(t *testing.T) {
	testCases := []struct {
		name         string
		content      string
		expectedTags []string
		expectedBody string
		title        string
	}{
		{"no front matter", "# Heading\ntext", nil, "# Heading\ntext", ""},
		{"list tags", "---\ntitle: x\ntags:\n  - a\n  - b\n---\nbody", []string{"a", "b"}, "body", "x"},
		{"scalar tags", "---\ntags: a, , b\n---\n\nbody\n", []string{"a", "b"}, "body", ""},
		{"windows newlines", "---\r\ntitle: y\r\n---\r\nbody", nil, "body", "y"},
		{"front matter only", "---\ntitle: z\n---", nil, "", "z"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)
			fm, body, err := splitFrontMatter(tc.content)
			assert.NoError(err)
			assert.Equal(tc.expectedTags, []string(fm.Tags))
			assert.Equal(tc.expectedBody, body)
			assert.Equal(tc.title, fm.Title)
		})
	}
}

func TestParseUpdated(t *testing.T) {
	assert := require.New(t)

	parsed, ok := parseUpdated("2024-03-04T05:06:07Z")
	assert.True(ok)
	assert.Equal(time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC), parsed)

	_, ok = parseUpdated("yesterday")
	assert.False(ok)
	_, ok = parseUpdated("")
	assert.False(ok)
}
