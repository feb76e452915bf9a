// Package orchestrator is the facade between callers and the note state.
// It owns every call to the notes API, applies confirmed results to the
// store and keeps the filtered views in step with the criteria.
//
// Observers registered with Observe run synchronously on the goroutine
// that changed the state, sometimes while internal bookkeeping locks are
// held. They may read any view but must not call write operations
// directly; hand off to another goroutine instead.
package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/pinboard/internal/filter"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/store"
)

// DefaultDebounce is the quiet period after a criteria change before the
// list is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// NotesAPI is the remote notes service.
type NotesAPI interface {
	ListNotes(ctx context.Context, f models.Filter) ([]models.Note, error)
	CreateNote(ctx context.Context, req models.CreateNoteRequest) (models.Note, error)
	UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Mirror is a best-effort local copy of the last known collection.
type Mirror interface {
	Load(ctx context.Context) ([]models.Note, error)
	Sync(ctx context.Context, notes []models.Note) error
}

// Orchestrator is safe for concurrent use.
type Orchestrator struct {
	api      NotesAPI
	store    *store.Store
	logger   *slog.Logger
	debounce time.Duration
	mirror   Mirror

	loads    loadTracker
	creating inflight
	updating inflight
	deleting inflight
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithDebounce sets the reload debounce period.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) { o.debounce = d }
}

// WithMirror enables the local cache mirror.
func WithMirror(m Mirror) Option {
	return func(o *Orchestrator) { o.mirror = m }
}

// WithStore uses s instead of a fresh store.
func WithStore(s *store.Store) Option {
	return func(o *Orchestrator) { o.store = s }
}

// New creates an orchestrator over api.
func New(api NotesAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:      api,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = store.New()
	}
	return o
}

// Notes returns the whole collection in store order.
func (o *Orchestrator) Notes() []models.Note { return o.store.Notes() }

// SelectedNote returns the selected note, or nil.
func (o *Orchestrator) SelectedNote() *models.Note { return o.store.SelectedNote() }

// Loading reports whether a list request is in flight.
func (o *Orchestrator) Loading() bool { return o.store.Loading() }

// Creating reports whether a create request is in flight.
func (o *Orchestrator) Creating() bool { return o.store.Creating() }

// Error returns the last error message, or "".
func (o *Orchestrator) Error() string { return o.store.Error() }

// Filter returns the current criteria.
func (o *Orchestrator) Filter() models.Filter { return o.store.Filter() }

// AllTags returns the sorted tag inventory.
func (o *Orchestrator) AllTags() []string { return o.store.AllTags() }

// TotalCount returns the size of the collection.
func (o *Orchestrator) TotalCount() int { return o.store.TotalCount() }

// FilteredNotes returns the notes matching the criteria, pinned first then
// most recently updated.
func (o *Orchestrator) FilteredNotes() []models.Note { return o.store.FilteredNotes() }

// PinnedNotes returns the pinned notes among FilteredNotes.
func (o *Orchestrator) PinnedNotes() []models.Note { return o.store.FilteredPinnedNotes() }

// UnpinnedNotes returns the unpinned notes among FilteredNotes.
func (o *Orchestrator) UnpinnedNotes() []models.Note { return o.store.FilteredUnpinnedNotes() }

// HasActiveFilters reports whether any criterion is set.
func (o *Orchestrator) HasActiveFilters() bool { return filter.Active(o.store.Filter()) }

// IsUpdating reports whether an update of id is in flight.
func (o *Orchestrator) IsUpdating(id string) bool { return o.store.IsUpdating(id) }

// IsDeleting reports whether a delete of id is in flight.
func (o *Orchestrator) IsDeleting(id string) bool { return o.store.IsDeleting(id) }

// Stats returns counts over the whole collection.
func (o *Orchestrator) Stats() models.Stats { return o.store.Stats() }

// Observe runs fn after any state change.
func (o *Orchestrator) Observe(fn func()) (cancel func()) { return o.store.Observe(fn) }

// SelectNote selects the note with id. It reports false if no such note
// is loaded.
func (o *Orchestrator) SelectNote(id string) bool {
	n, ok := o.find(id)
	if !ok {
		return false
	}
	o.store.SetSelectedNote(&n)
	return true
}

// ClearSelection drops the selection.
func (o *Orchestrator) ClearSelection() { o.store.SetSelectedNote(nil) }

// SetSearchTerm sets the search criterion.
func (o *Orchestrator) SetSearchTerm(term string) { o.store.SetSearchTerm(term) }

// SetSelectedTags replaces the tag selection.
func (o *Orchestrator) SetSelectedTags(tags []string) { o.store.SetSelectedTags(tags) }

// ToggleTag adds or removes tag from the selection.
func (o *Orchestrator) ToggleTag(tag string) { o.store.ToggleTag(tag) }

// SetColorFilter sets the color criterion; "" means any color.
func (o *Orchestrator) SetColorFilter(c models.Color) { o.store.SetSelectedColor(c) }

// SetPinnedFilter sets the pinned-only criterion.
func (o *Orchestrator) SetPinnedFilter(v bool) { o.store.SetShowPinnedOnly(v) }

// TogglePinnedFilter flips the pinned-only criterion.
func (o *Orchestrator) TogglePinnedFilter() { o.store.TogglePinnedOnly() }

// ClearFilters resets every criterion.
func (o *Orchestrator) ClearFilters() { o.store.ClearFilters() }

func (o *Orchestrator) find(id string) (models.Note, bool) {
	for _, n := range o.store.Notes() {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// inflight counts concurrent operations per key so that a busy flag is
// raised by the first and lowered by the last.
type inflight struct {
	mu sync.Mutex
	n  map[string]int
}

func (f *inflight) begin(key string, raise func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == nil {
		f.n = make(map[string]int)
	}
	f.n[key]++
	if f.n[key] == 1 {
		raise()
	}
}

func (f *inflight) end(key string, lower func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n[key]--
	if f.n[key] <= 0 {
		delete(f.n, key)
		lower()
	}
}
