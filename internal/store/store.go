// Package store holds the canonical client-side state: the note
// collection, the selection, the filter criteria and the per-note busy
// flags. Every value lives in its own reactive signal; derived views are
// computed lazily.
package store

import (
	"maps"
	"slices"

	"github.com/starford/pinboard/internal/filter"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/reactive"
)

// Store is safe for concurrent use. All reads return copies.
type Store struct {
	notes    *reactive.Signal[[]models.Note]
	selected *reactive.Signal[*models.Note]
	loading  *reactive.Signal[bool]
	creating *reactive.Signal[bool]
	lastErr  *reactive.Signal[string]
	filter   *reactive.Signal[models.Filter]
	updating *reactive.Signal[IDSet]
	deleting *reactive.Signal[IDSet]

	allTags  *reactive.Computed[[]string]
	pinned   *reactive.Computed[[]models.Note]
	unpinned *reactive.Computed[[]models.Note]
	filtered *reactive.Computed[[]models.Note]
	visible  *reactive.Computed[visibleSplit]
	stats    *reactive.Computed[models.Stats]
}

// New returns an empty store.
func New() *Store {
	same := func(a, b bool) bool { return a == b }
	s := &Store{
		notes:    reactive.NewSignal([]models.Note{}),
		selected: reactive.NewSignalFunc[*models.Note](nil, func(a, b *models.Note) bool { return a == b }),
		loading:  reactive.NewSignalFunc(false, same),
		creating: reactive.NewSignalFunc(false, same),
		lastErr:  reactive.NewSignalFunc("", func(a, b string) bool { return a == b }),
		filter:   reactive.NewSignal(models.EmptyFilter()),
		updating: reactive.NewSignal(IDSet{}),
		deleting: reactive.NewSignal(IDSet{}),
	}
	s.allTags = reactive.NewComputed(func() []string {
		return filter.Tags(s.notes.Get())
	}, s.notes)
	s.pinned = reactive.NewComputed(func() []models.Note {
		p, _ := filter.Partition(filter.Sort(s.notes.Get()))
		return p
	}, s.notes)
	s.unpinned = reactive.NewComputed(func() []models.Note {
		_, u := filter.Partition(filter.Sort(s.notes.Get()))
		return u
	}, s.notes)
	s.filtered = reactive.NewComputed(func() []models.Note {
		return filter.Sort(filter.Apply(s.notes.Get(), s.filter.Get()))
	}, s.notes, s.filter)
	s.visible = reactive.NewComputed(func() visibleSplit {
		p, u := filter.Partition(s.filtered.Get())
		return visibleSplit{pinned: p, unpinned: u}
	}, s.notes, s.filter)
	s.stats = reactive.NewComputed(func() models.Stats {
		return filter.ComputeStats(s.notes.Get())
	}, s.notes)
	return s
}

// Notes returns the collection in store order.
func (s *Store) Notes() []models.Note { return models.CloneNotes(s.notes.Get()) }

// SelectedNote returns the selection, or nil.
func (s *Store) SelectedNote() *models.Note {
	n := s.selected.Get()
	if n == nil {
		return nil
	}
	c := n.Clone()
	return &c
}

// Loading reports whether a list request is in flight.
func (s *Store) Loading() bool { return s.loading.Get() }

// Creating reports whether a create request is in flight.
func (s *Store) Creating() bool { return s.creating.Get() }

// Error returns the last error message, or "".
func (s *Store) Error() string { return s.lastErr.Get() }

// Filter returns the current criteria.
func (s *Store) Filter() models.Filter { return s.filter.Get().Clone() }

// IsUpdating reports whether an update of id is in flight.
func (s *Store) IsUpdating(id string) bool { return s.updating.Get().Has(id) }

// IsDeleting reports whether a delete of id is in flight.
func (s *Store) IsDeleting(id string) bool { return s.deleting.Get().Has(id) }

// AllTags returns the sorted tag inventory.
func (s *Store) AllTags() []string { return slices.Clone(s.allTags.Get()) }

// TotalCount returns the number of notes.
func (s *Store) TotalCount() int { return len(s.notes.Get()) }

// PinnedNotes returns the pinned notes in display order.
func (s *Store) PinnedNotes() []models.Note { return models.CloneNotes(s.pinned.Get()) }

// UnpinnedNotes returns the unpinned notes in display order.
func (s *Store) UnpinnedNotes() []models.Note { return models.CloneNotes(s.unpinned.Get()) }

// FilteredNotes returns the notes matching the criteria in display order.
func (s *Store) FilteredNotes() []models.Note { return models.CloneNotes(s.filtered.Get()) }

// FilteredPinnedNotes returns the pinned part of FilteredNotes.
func (s *Store) FilteredPinnedNotes() []models.Note { return models.CloneNotes(s.visible.Get().pinned) }

// FilteredUnpinnedNotes returns the unpinned part of FilteredNotes.
func (s *Store) FilteredUnpinnedNotes() []models.Note {
	return models.CloneNotes(s.visible.Get().unpinned)
}

type visibleSplit struct {
	pinned, unpinned []models.Note
}

// Stats returns the aggregate counts over the whole collection.
func (s *Store) Stats() models.Stats {
	st := s.stats.Get()
	st.ByColor = maps.Clone(st.ByColor)
	st.TagsCount = maps.Clone(st.TagsCount)
	return st
}

// SetNotes replaces the collection.
func (s *Store) SetNotes(notes []models.Note) {
	s.notes.Set(models.CloneNotes(notes))
	s.reselect()
}

// AddNote prepends n.
func (s *Store) AddNote(n models.Note) {
	s.notes.Update(func(prev []models.Note) []models.Note {
		out := make([]models.Note, 0, len(prev)+1)
		out = append(out, n.Clone())
		return append(out, prev...)
	})
	s.reselect()
}

// UpdateNote replaces the note with n's id. It is a no-op when absent.
func (s *Store) UpdateNote(n models.Note) {
	s.notes.Update(func(prev []models.Note) []models.Note {
		i := slices.IndexFunc(prev, func(p models.Note) bool { return p.ID == n.ID })
		if i < 0 {
			return prev
		}
		out := slices.Clone(prev)
		out[i] = n.Clone()
		return out
	})
	s.reselect()
}

// DeleteNote removes the note with id.
func (s *Store) DeleteNote(id string) {
	s.notes.Update(func(prev []models.Note) []models.Note {
		return slices.DeleteFunc(slices.Clone(prev), func(p models.Note) bool { return p.ID == id })
	})
	s.reselect()
}

// SetSelectedNote sets or clears (nil) the selection.
func (s *Store) SetSelectedNote(n *models.Note) {
	if n == nil {
		s.selected.Set(nil)
		return
	}
	c := n.Clone()
	s.selected.Set(&c)
}

func (s *Store) reselect() {
	notes := s.notes.Get()
	s.selected.Update(func(prev *models.Note) *models.Note {
		return DeriveSelection(notes, prev)
	})
}

// SetLoading sets the list-in-flight flag.
func (s *Store) SetLoading(v bool) { s.loading.Set(v) }

// SetCreating sets the create-in-flight flag.
func (s *Store) SetCreating(v bool) { s.creating.Set(v) }

// SetError sets the last error message; "" clears it.
func (s *Store) SetError(msg string) { s.lastErr.Set(msg) }

// StartUpdating marks id as being updated.
func (s *Store) StartUpdating(id string) {
	s.updating.Update(func(prev IDSet) IDSet { return prev.With(id) })
}

// StopUpdating clears the update mark of id.
func (s *Store) StopUpdating(id string) {
	s.updating.Update(func(prev IDSet) IDSet { return prev.Without(id) })
}

// StartDeleting marks id as being deleted.
func (s *Store) StartDeleting(id string) {
	s.deleting.Update(func(prev IDSet) IDSet { return prev.With(id) })
}

// StopDeleting clears the delete mark of id.
func (s *Store) StopDeleting(id string) {
	s.deleting.Update(func(prev IDSet) IDSet { return prev.Without(id) })
}

// SetSearchTerm updates the search criterion.
func (s *Store) SetSearchTerm(term string) {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.SearchTerm = term
		return f
	})
}

// SetSelectedTags replaces the tag selection.
func (s *Store) SetSelectedTags(tags []string) {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.SelectedTags = slices.Clone(tags)
		if f.SelectedTags == nil {
			f.SelectedTags = []string{}
		}
		return f
	})
}

// ToggleTag adds tag to the selection or removes it.
func (s *Store) ToggleTag(tag string) {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.SelectedTags = filter.ToggleTag(f.SelectedTags, tag)
		return f
	})
}

// SetSelectedColor sets the color criterion; "" means any color.
func (s *Store) SetSelectedColor(c models.Color) {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.SelectedColor = c
		return f
	})
}

// SetShowPinnedOnly sets the pinned-only criterion.
func (s *Store) SetShowPinnedOnly(v bool) {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.ShowPinnedOnly = v
		return f
	})
}

// TogglePinnedOnly flips the pinned-only criterion.
func (s *Store) TogglePinnedOnly() {
	s.updateFilter(func(f models.Filter) models.Filter {
		f.ShowPinnedOnly = !f.ShowPinnedOnly
		return f
	})
}

// ClearFilters resets the criteria to their defaults.
func (s *Store) ClearFilters() { s.filter.Set(models.EmptyFilter()) }

func (s *Store) updateFilter(fn func(models.Filter) models.Filter) {
	s.filter.Update(func(prev models.Filter) models.Filter {
		return fn(prev.Clone())
	})
}

// ObserveNotes runs fn after every collection change.
func (s *Store) ObserveNotes(fn func()) (cancel func()) { return s.notes.Observe(fn) }

// ObserveFilter runs fn after every criteria change.
func (s *Store) ObserveFilter(fn func()) (cancel func()) { return s.filter.Observe(fn) }

// Observe runs fn after any state change.
func (s *Store) Observe(fn func()) (cancel func()) {
	sources := []reactive.Source{
		s.notes, s.selected, s.loading, s.creating,
		s.lastErr, s.filter, s.updating, s.deleting,
	}
	cancels := make([]func(), 0, len(sources))
	for _, src := range sources {
		cancels = append(cancels, src.Observe(fn))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
