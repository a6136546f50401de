package search

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meghashyamc/notesapp/notes"
)

// Filters narrows the note collection independently of the text query. The
// zero value matches every note.
type Filters struct {
	Categories        []string         `json:"categories,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	Colors            []string         `json:"colors,omitempty"`
	Priorities        []notes.Priority `json:"priorities,omitempty"`
	ShowFavoritesOnly bool             `json:"showFavoritesOnly"`
	ShowPinnedOnly    bool             `json:"showPinnedOnly"`
	DateRange         *DateRange       `json:"dateRange,omitempty"`
}

// DateRange bounds UpdatedAt, both ends inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) contains(updatedAt int64) bool {
	// A range whose start is after its end contains nothing; it is not
	// swapped and it is not an error.
	return updatedAt >= r.Start.UnixMilli() && updatedAt <= r.End.UnixMilli()
}

func HasActiveFilters(f Filters) bool {
	return len(f.Categories) > 0 ||
		len(f.Tags) > 0 ||
		len(f.Colors) > 0 ||
		len(f.Priorities) > 0 ||
		f.ShowFavoritesOnly ||
		f.ShowPinnedOnly ||
		f.DateRange != nil
}

// ApplyFilters returns the notes that pass every active stage, in their
// original order. Within the tag stage one shared tag is enough.
func ApplyFilters(all []notes.Note, f Filters) []notes.Note {
	filtered := make([]notes.Note, 0, len(all))
	for _, note := range all {
		if f.matches(note) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

func (f Filters) matches(note notes.Note) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, note.CategoryOrDefault()) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(note.Tags, func(tag string) bool {
		return slices.Contains(f.Tags, tag)
	}) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, note.PriorityOrDefault()) {
		return false
	}
	if len(f.Colors) > 0 && !slices.Contains(f.Colors, note.ColorOrDefault()) {
		return false
	}
	if f.ShowFavoritesOnly && !note.IsFavorite {
		return false
	}
	if f.ShowPinnedOnly && !note.IsPinned {
		return false
	}
	if f.DateRange != nil && !f.DateRange.contains(note.UpdatedAt) {
		return false
	}
	return true
}

// Fingerprint is a canonical encoding of f: two filter values that select the
// same notes produce the same string regardless of set ordering.
func (f Filters) Fingerprint() string {
	var b strings.Builder
	writeSet := func(name string, values []string) {
		sorted := slices.Clone(values)
		sort.Strings(sorted)
		sorted = slices.Compact(sorted)
		b.WriteString(name)
		b.WriteByte('=')
		for i, v := range sorted {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(v))
		}
		b.WriteByte(';')
	}

	priorities := make([]string, len(f.Priorities))
	for i, p := range f.Priorities {
		priorities[i] = string(p)
	}

	writeSet("c", f.Categories)
	writeSet("t", f.Tags)
	writeSet("k", f.Colors)
	writeSet("p", priorities)
	b.WriteString("f=" + strconv.FormatBool(f.ShowFavoritesOnly) + ";")
	b.WriteString("n=" + strconv.FormatBool(f.ShowPinnedOnly) + ";")
	if f.DateRange != nil {
		b.WriteString("d=" + strconv.FormatInt(f.DateRange.Start.UnixMilli(), 10) +
			".." + strconv.FormatInt(f.DateRange.End.UnixMilli(), 10) + ";")
	}
	return b.String()
}
