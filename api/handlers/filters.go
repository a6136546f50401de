package handlers

import (
	"math"
	"strings"
	"time"

	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/search"
)

// FiltersRequest is accepted as query parameters by /search and as a JSON body
// by the session filters endpoint. List parameters may be repeated or comma
// separated. From and To are epoch milliseconds; a missing bound is open.
type FiltersRequest struct {
	Categories []string `form:"categories" json:"categories" validate:"max=50,dive,max=100"`
	Tags       []string `form:"tags" json:"tags" validate:"max=50,dive,max=100"`
	Colors     []string `form:"colors" json:"colors" validate:"max=50,dive,valid_color"`
	Priorities []string `form:"priorities" json:"priorities" validate:"max=50,dive,valid_priority"`
	Favorites  bool     `form:"favorites" json:"favorites"`
	Pinned     bool     `form:"pinned" json:"pinned"`
	From       *int64   `form:"from" json:"from" validate:"omitempty,min=0"`
	To         *int64   `form:"to" json:"to" validate:"omitempty,min=0"`
}

// normalize splits comma separated values. It runs before validation so each
// value is checked on its own.
func (r *FiltersRequest) normalize() {
	r.Categories = splitValues(r.Categories)
	r.Tags = splitValues(r.Tags)
	r.Colors = splitValues(r.Colors)
	r.Priorities = splitValues(r.Priorities)
}

func (r FiltersRequest) toFilters() search.Filters {
	filters := search.Filters{
		Categories:        r.Categories,
		Tags:              r.Tags,
		Colors:            r.Colors,
		ShowFavoritesOnly: r.Favorites,
		ShowPinnedOnly:    r.Pinned,
	}
	for _, value := range r.Priorities {
		if priority, ok := notes.ParsePriority(value); ok {
			filters.Priorities = append(filters.Priorities, priority)
		}
	}

	if r.From != nil || r.To != nil {
		var start, end int64 = 0, math.MaxInt64
		if r.From != nil {
			start = *r.From
		}
		if r.To != nil {
			end = *r.To
		}
		filters.DateRange = &search.DateRange{Start: time.UnixMilli(start), End: time.UnixMilli(end)}
	}
	return filters
}

func splitValues(values []string) []string {
	var split []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				split = append(split, part)
			}
		}
	}
	return split
}
