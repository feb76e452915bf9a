// Package filter implements the pure filtering, sorting and aggregation
// functions over note collections. None of them mutate their inputs.
package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/starford/pinboard/internal/models"
)

// Apply returns the notes matching every active predicate of f, in input
// order. The result is a new slice.
func Apply(notes []models.Note, f models.Filter) []models.Note {
	m := newMatcher(f)
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if m.match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Match reports whether a single note satisfies f.
func Match(n models.Note, f models.Filter) bool {
	return newMatcher(f).match(n)
}

type matcher struct {
	term       string
	tags       []string
	color      models.Color
	pinnedOnly bool
}

func newMatcher(f models.Filter) matcher {
	return matcher{
		term:       Normalize(f.SearchTerm),
		tags:       f.SelectedTags,
		color:      f.SelectedColor,
		pinnedOnly: f.ShowPinnedOnly,
	}
}

func (m matcher) match(n models.Note) bool {
	if m.term != "" && !containsTerm(n, m.term) {
		return false
	}
	if len(m.tags) > 0 && !slices.ContainsFunc(m.tags, n.HasTag) {
		return false
	}
	if m.color != "" && n.Color != m.color {
		return false
	}
	if m.pinnedOnly && !n.IsPinned {
		return false
	}
	return true
}

func containsTerm(n models.Note, term string) bool {
	if strings.Contains(Normalize(n.Title), term) || strings.Contains(Normalize(n.Content), term) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(Normalize(t), term) {
			return true
		}
	}
	return false
}

// Sort returns a copy of notes with pinned notes first, then by UpdatedAt
// descending. Equal keys keep their input order.
func Sort(notes []models.Note) []models.Note {
	out := slices.Clone(notes)
	if out == nil {
		out = []models.Note{}
	}
	slices.SortStableFunc(out, func(a, b models.Note) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// Partition splits notes into pinned and unpinned, keeping order.
func Partition(notes []models.Note) (pinned, unpinned []models.Note) {
	pinned = []models.Note{}
	unpinned = []models.Note{}
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}
	return pinned, unpinned
}

// Tags returns the sorted set of tags used across notes.
func Tags(notes []models.Note) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, n := range notes {
		for _, t := range n.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

// ComputeStats counts notes, pinned notes, colors and tags in one pass.
func ComputeStats(notes []models.Note) models.Stats {
	s := models.Stats{
		Total:     len(notes),
		ByColor:   make(map[models.Color]int),
		TagsCount: make(map[string]int),
	}
	for _, n := range notes {
		if n.IsPinned {
			s.Pinned++
		}
		s.ByColor[n.Color]++
		for _, t := range n.Tags {
			s.TagsCount[t]++
		}
	}
	return s
}

// Active reports whether any predicate of f is set.
func Active(f models.Filter) bool {
	return f.SearchTerm != "" || len(f.SelectedTags) > 0 || f.SelectedColor != "" || f.ShowPinnedOnly
}

// Equivalent compares two criteria, treating the tag selections as sets.
// Duplicate tags do not count.
func Equivalent(a, b models.Filter) bool {
	if a.SearchTerm != b.SearchTerm || a.SelectedColor != b.SelectedColor || a.ShowPinnedOnly != b.ShowPinnedOnly {
		return false
	}
	return maps.Equal(tagSet(a.SelectedTags), tagSet(b.SelectedTags))
}

func tagSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		out[t] = struct{}{}
	}
	return out
}

// ToggleTag returns tags with tag removed if present, appended otherwise.
func ToggleTag(tags []string, tag string) []string {
	if slices.Contains(tags, tag) {
		return slices.DeleteFunc(slices.Clone(tags), func(t string) bool { return t == tag })
	}
	return append(slices.Clone(tags), tag)
}
