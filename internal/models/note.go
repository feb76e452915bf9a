// Package models defines the domain types for Pinboard.
package models

import (
	"slices"
	"strings"
	"time"
)

// Color is the display color of a note.
type Color string

// Available note colors.
const (
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// DefaultColor is assigned to notes created without a color.
const DefaultColor = ColorYellow

// Colors lists every valid color.
var Colors = []Color{
	ColorYellow, ColorBlue, ColorGreen, ColorRed,
	ColorPurple, ColorOrange, ColorPink, ColorGray,
}

// Valid reports whether c is one of Colors.
func (c Color) Valid() bool {
	return slices.Contains(Colors, c)
}

// colorValues returns Colors as []any for validation.In.
func colorValues() []any {
	out := make([]any, len(Colors))
	for i, c := range Colors {
		out[i] = c
	}
	return out
}

// Note is a user-authored note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Color     Color     `json:"color"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// CloneNotes deep-copies a note slice. A nil input yields an empty slice.
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// NormalizeTags trims and lower-cases tags, dropping empty entries and
// duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Filter holds the client-side filter criteria.
// An empty SelectedColor means "any color".
type Filter struct {
	SearchTerm     string   `json:"searchTerm"`
	SelectedTags   []string `json:"selectedTags"`
	SelectedColor  Color    `json:"selectedColor,omitempty"`
	ShowPinnedOnly bool     `json:"showPinnedOnly"`
}

// Clone returns a copy of f that shares no slices with it.
func (f Filter) Clone() Filter {
	f.SelectedTags = slices.Clone(f.SelectedTags)
	if f.SelectedTags == nil {
		f.SelectedTags = []string{}
	}
	return f
}

// EmptyFilter returns the default criteria.
func EmptyFilter() Filter {
	return Filter{SelectedTags: []string{}}
}

// Stats aggregates counts over a note collection.
type Stats struct {
	Total     int            `json:"total"`
	Pinned    int            `json:"pinned"`
	ByColor   map[Color]int  `json:"byColor"`
	TagsCount map[string]int `json:"tagsCount"`
}
