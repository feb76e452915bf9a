package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/pinboard/internal/models"
)

var t0 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func mk(id string, pinned bool, tags ...string) models.Note {
	if tags == nil {
		tags = []string{}
	}
	return models.Note{ID: id, Title: "note " + id, Content: "c", Tags: tags,
		Color: models.ColorYellow, IsPinned: pinned, CreatedAt: t0, UpdatedAt: t0}
}

func TestDeriveSelection(t *testing.T) {
	notes := []models.Note{mk("1", false), mk("2", false)}
	prev := mk("2", false)

	assert.Same(t, &prev, DeriveSelection(notes, &prev))
	assert.Nil(t, DeriveSelection(notes[:1], &prev))
	assert.Nil(t, DeriveSelection(notes, nil))
}

func TestStore_DeleteSelectedClearsSelection(t *testing.T) {
	s := New()
	s.SetNotes([]models.Note{mk("1", false), mk("2", false)})
	n := mk("1", false)
	s.SetSelectedNote(&n)

	s.DeleteNote("2")
	require.NotNil(t, s.SelectedNote(), "deleting another note keeps the selection")
	assert.Equal(t, "1", s.SelectedNote().ID)

	s.DeleteNote("1")
	assert.Nil(t, s.SelectedNote())
}

func TestStore_SetNotesWithoutSelectedClearsSelection(t *testing.T) {
	s := New()
	s.SetNotes([]models.Note{mk("1", false)})
	n := mk("1", false)
	s.SetSelectedNote(&n)

	s.SetNotes([]models.Note{mk("3", false)})
	assert.Nil(t, s.SelectedNote())
}

func TestStore_AddPrependsAndUpdateReplaces(t *testing.T) {
	s := New()
	s.SetNotes([]models.Note{mk("1", false)})
	s.AddNote(mk("2", false))

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "2", notes[0].ID)

	changed := mk("1", true)
	changed.Title = "changed"
	s.UpdateNote(changed)
	assert.Equal(t, "changed", s.Notes()[1].Title)

	s.UpdateNote(mk("missing", false))
	assert.Len(t, s.Notes(), 2)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s := New()
	s.SetNotes([]models.Note{mk("1", false, "a")})

	notes := s.Notes()
	notes[0].Tags[0] = "mutated"
	notes[0].Title = "mutated"

	assert.Equal(t, []string{"a"}, s.Notes()[0].Tags)
	assert.Equal(t, "note 1", s.Notes()[0].Title)

	f := s.Filter()
	f.SelectedTags = append(f.SelectedTags, "x")
	assert.Empty(t, s.Filter().SelectedTags)
}

func TestStore_IDSetsAreReplaced(t *testing.T) {
	s := New()
	before := s.updating.Get()

	s.StartUpdating("1")
	after := s.updating.Get()
	assert.False(t, before.Has("1"), "previous set must not be mutated")
	assert.True(t, s.IsUpdating("1"))

	s.StopUpdating("1")
	assert.True(t, after.Has("1"), "previous set must not be mutated")
	assert.False(t, s.IsUpdating("1"))

	s.StartDeleting("2")
	assert.True(t, s.IsDeleting("2"))
	assert.False(t, s.IsUpdating("2"))
	s.StopDeleting("2")
	assert.False(t, s.IsDeleting("2"))
}

func TestStore_Derived(t *testing.T) {
	s := New()
	older := mk("1", false, "b", "a")
	newer := mk("2", false, "c")
	newer.UpdatedAt = t0.Add(time.Hour)
	s.SetNotes([]models.Note{older, newer, mk("3", true, "a")})

	assert.Equal(t, []string{"a", "b", "c"}, s.AllTags())
	assert.Equal(t, 3, s.TotalCount())
	require.Len(t, s.PinnedNotes(), 1)
	assert.Equal(t, "3", s.PinnedNotes()[0].ID)

	unpinned := s.UnpinnedNotes()
	require.Len(t, unpinned, 2)
	assert.Equal(t, "2", unpinned[0].ID)

	s.DeleteNote("3")
	assert.Empty(t, s.PinnedNotes())
	assert.Equal(t, []string{"a", "b", "c"}, s.AllTags())
}

func TestStore_Filters(t *testing.T) {
	s := New()
	var calls int
	s.ObserveFilter(func() { calls++ })

	s.SetSearchTerm("x")
	s.ToggleTag("a")
	s.ToggleTag("b")
	s.ToggleTag("a")
	s.SetSelectedColor(models.ColorRed)
	s.TogglePinnedOnly()

	f := s.Filter()
	assert.Equal(t, "x", f.SearchTerm)
	assert.Equal(t, []string{"b"}, f.SelectedTags)
	assert.Equal(t, models.ColorRed, f.SelectedColor)
	assert.True(t, f.ShowPinnedOnly)
	assert.Equal(t, 6, calls)

	s.ClearFilters()
	assert.Equal(t, models.EmptyFilter(), s.Filter())
}

func TestStore_ErrorAndFlags(t *testing.T) {
	s := New()
	var calls int
	s.Observe(func() { calls++ })

	s.SetError("boom")
	s.SetError("boom")
	assert.Equal(t, "boom", s.Error())
	assert.Equal(t, 1, calls, "an equal value must not notify")

	s.SetLoading(true)
	s.SetCreating(true)
	assert.True(t, s.Loading())
	assert.True(t, s.Creating())
}

func TestStore_FilteredAndStats(t *testing.T) {
	s := New()
	a := mk("1", false, "go")
	b := mk("2", true, "rust")
	b.Color = models.ColorBlue
	s.SetNotes([]models.Note{a, b})

	assert.Len(t, s.FilteredNotes(), 2)
	assert.Equal(t, "2", s.FilteredNotes()[0].ID, "pinned first")

	s.ToggleTag("go")
	got := s.FilteredNotes()
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	st := s.Stats()
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Pinned)
	assert.Equal(t, 1, st.ByColor[models.ColorBlue])

	st.ByColor[models.ColorBlue] = 99
	assert.Equal(t, 1, s.Stats().ByColor[models.ColorBlue], "stats must be copied")
}

func TestFilteredPartitions(t *testing.T) {
	s := New()
	s.SetNotes([]models.Note{
		{ID: "1", Title: "Welcome", Tags: []string{}, Color: models.ColorYellow, IsPinned: true},
		{ID: "2", Title: "Shopping", Tags: []string{}, Color: models.ColorGreen},
	})
	s.SetSearchTerm("shopping")

	assert.Empty(t, s.FilteredPinnedNotes())
	assert.Len(t, s.FilteredUnpinnedNotes(), 1)
	assert.Len(t, s.PinnedNotes(), 1, "collection-wide partition ignores criteria")
}
