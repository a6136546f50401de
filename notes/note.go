package notes

import (
	"slices"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	DefaultCategory = "personal"
	DefaultColor    = "#ffffff"
	DefaultPriority = PriorityMedium
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts any casing and surrounding whitespace. An empty string
// yields the default priority.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPriority, true
	}
	p := Priority(s)
	return p, p.Valid()
}

// Note is a journal entry as mirrored from the document store. Absent
// optional fields are read through the OrDefault accessors.
type Note struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Color      string   `json:"color,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	IsFavorite bool     `json:"isFavorite"`
	IsPinned   bool     `json:"isPinned"`
	UpdatedAt  int64    `json:"updatedAt"`
	CreatedAt  int64    `json:"createdAt,omitempty"`
	ImageURLs  []string `json:"imageUrls,omitempty"`
}

func (n Note) CategoryOrDefault() string {
	if n.Category == "" {
		return DefaultCategory
	}
	return n.Category
}

func (n Note) ColorOrDefault() string {
	if n.Color == "" {
		return DefaultColor
	}
	return n.Color
}

func (n Note) PriorityOrDefault() Priority {
	if n.Priority == "" {
		return DefaultPriority
	}
	return n.Priority
}

func (n Note) UpdatedTime() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// Touch stamps the note as modified at now. CreatedAt is set on first touch.
func (n *Note) Touch(now time.Time) {
	n.UpdatedAt = now.UnixMilli()
	if n.CreatedAt == 0 {
		n.CreatedAt = n.UpdatedAt
	}
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	c := n
	c.Tags = slices.Clone(n.Tags)
	c.ImageURLs = slices.Clone(n.ImageURLs)
	return c
}
