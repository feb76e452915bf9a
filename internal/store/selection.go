package store

import "github.com/starford/pinboard/internal/models"

// DeriveSelection returns the selection that should follow a collection
// change: the previous selection if its id is still present, nil otherwise.
// The previous object is kept as-is; callers that want the fresh version
// re-select explicitly.
func DeriveSelection(notes []models.Note, prev *models.Note) *models.Note {
	if prev == nil {
		return nil
	}
	for _, n := range notes {
		if n.ID == prev.ID {
			return prev
		}
	}
	return nil
}

// IDSet is an immutable set of note ids. Mutators return a new set.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// With returns a copy of s that also contains id.
func (s IDSet) With(id string) IDSet {
	out := make(IDSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

// Without returns a copy of s that does not contain id.
func (s IDSet) Without(id string) IDSet {
	out := make(IDSet, len(s))
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}
