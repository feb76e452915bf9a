// Package noteservice holds the in-memory note data set behind the mock
// HTTP API.
package noteservice

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/filter"
	"github.com/starford/pinboard/internal/models"
)

// Change kinds passed to the change callback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Service is a last-write-wins in-memory note repository.
type Service struct {
	mu    sync.RWMutex
	notes []models.Note

	now      func() time.Time
	newID    func() string
	onChange func(kind, id string)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides id assignment.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithChangeHook registers fn to run after every successful mutation.
func WithChangeHook(fn func(kind, id string)) Option {
	return func(s *Service) { s.onChange = fn }
}

// NewService creates a service holding a copy of initial.
func NewService(initial []models.Note, opts ...Option) *Service {
	s := &Service{
		notes: models.CloneNotes(initial),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListNotes returns the notes matching f, pinned first then most recently
// updated.
func (s *Service) ListNotes(_ context.Context, f models.Filter) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneNotes(filter.Sort(filter.Apply(s.notes, f))), nil
}

// GetNote returns a single note.
func (s *Service) GetNote(_ context.Context, id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	return s.notes[i].Clone(), nil
}

// CreateNote assigns an id and timestamps and prepends the note.
func (s *Service) CreateNote(_ context.Context, req models.CreateNoteRequest) (models.Note, error) {
	if err := req.Validate(); err != nil {
		return models.Note{}, apperr.Validation(err)
	}
	color := req.Color
	if color == "" {
		color = models.DefaultColor
	}
	now := s.now().UTC()
	n := models.Note{
		ID:        s.newID(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      models.NormalizeTags(req.Tags),
		Color:     color,
		IsPinned:  req.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.notes = append([]models.Note{n}, s.notes...)
	s.mu.Unlock()

	s.changed(KindCreated, n.ID)
	return n.Clone(), nil
}

// PatchNote applies the present fields of req to the note with id and
// refreshes its UpdatedAt.
func (s *Service) PatchNote(_ context.Context, id string, req models.UpdateNoteRequest) (models.Note, error) {
	if err := req.ValidatePatch(); err != nil {
		return models.Note{}, apperr.Validation(err)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Note{}, apperr.ErrNotFound
	}
	n := req.Apply(s.notes[i])
	n.UpdatedAt = s.now().UTC()
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	s.notes[i] = n
	s.mu.Unlock()

	s.changed(KindUpdated, id)
	return n.Clone(), nil
}

// DeleteNote removes the note with id.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	s.mu.Unlock()

	s.changed(KindDeleted, id)
	return nil
}

// Reset replaces the whole data set, e.g. after the seed file changed.
func (s *Service) Reset(notes []models.Note) {
	s.mu.Lock()
	s.notes = models.CloneNotes(notes)
	s.mu.Unlock()
}

// Len returns the number of stored notes.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
}

func (s *Service) changed(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}
