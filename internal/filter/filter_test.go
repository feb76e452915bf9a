package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/pinboard/internal/models"
)

var t0 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func note(id, title string, pinned bool, updated time.Time, tags ...string) models.Note {
	if tags == nil {
		tags = []string{}
	}
	return models.Note{
		ID: id, Title: title, Content: "body of " + id, Tags: tags,
		Color: models.ColorYellow, IsPinned: pinned, CreatedAt: t0, UpdatedAt: updated,
	}
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func sample() []models.Note {
	return []models.Note{
		note("1", "Welcome", true, t0, "welcome", "tutorial"),
		note("2", "Shopping", false, t0.Add(2*time.Hour), "shopping"),
		note("3", "Café notes", false, t0.Add(time.Hour), "food"),
		note("4", "Pinned idea", true, t0.Add(3*time.Hour), "ideas", "food"),
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cafe", Normalize("  Café "))
	assert.Equal(t, "nino", Normalize("NIÑO"))
	assert.Equal(t, "uber", Normalize("Über"))
	assert.Equal(t, "", Normalize("   "))
}

func TestApply_EmptyFilterIsIdentity(t *testing.T) {
	in := sample()
	got := Apply(in, models.EmptyFilter())
	assert.Equal(t, ids(in), ids(got))
}

func TestApply_SearchIsDiacriticAndCaseInsensitive(t *testing.T) {
	got := Apply(sample(), models.Filter{SearchTerm: "CAFE"})
	assert.Equal(t, []string{"3"}, ids(got))

	got = Apply(sample(), models.Filter{SearchTerm: "café"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_SearchMatchesContentAndTags(t *testing.T) {
	assert.Equal(t, []string{"2"}, ids(Apply(sample(), models.Filter{SearchTerm: "body of 2"})))
	assert.Equal(t, []string{"1"}, ids(Apply(sample(), models.Filter{SearchTerm: "tutor"})))
}

func TestApply_TagsAreOR(t *testing.T) {
	got := Apply(sample(), models.Filter{SelectedTags: []string{"shopping", "ideas"}})
	assert.Equal(t, []string{"2", "4"}, ids(got))
}

func TestApply_ColorAndPinnedCombineWithAND(t *testing.T) {
	notes := sample()
	notes[3].Color = models.ColorBlue

	got := Apply(notes, models.Filter{SelectedColor: models.ColorBlue})
	assert.Equal(t, []string{"4"}, ids(got))

	got = Apply(notes, models.Filter{ShowPinnedOnly: true, SelectedTags: []string{"food"}})
	assert.Equal(t, []string{"4"}, ids(got))

	got = Apply(notes, models.Filter{ShowPinnedOnly: true, SelectedColor: models.ColorGreen})
	assert.Empty(t, got)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := ids(in)
	_ = Apply(in, models.Filter{SearchTerm: "welcome"})
	_ = Sort(in)
	assert.Equal(t, before, ids(in))
}

func TestSort_PinnedFirstThenUpdatedDesc(t *testing.T) {
	got := Sort(sample())
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(got))

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.IsPinned == cur.IsPinned {
			assert.False(t, cur.UpdatedAt.After(prev.UpdatedAt), "updatedAt must be non-increasing within a group")
		} else {
			assert.True(t, prev.IsPinned, "pinned must precede unpinned")
		}
	}
}

func TestSort_StableForEqualTimestamps(t *testing.T) {
	in := []models.Note{
		note("a", "A", false, t0),
		note("b", "B", false, t0),
		note("c", "C", false, t0),
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(in)))
}

func TestWelcomeShoppingScenario(t *testing.T) {
	notes := []models.Note{
		note("1", "Welcome", true, t0),
		note("2", "Shopping", false, t0.Add(time.Hour)),
	}
	assert.Equal(t, []string{"1"}, ids(Apply(notes, models.Filter{SearchTerm: "welcome"})))
	assert.Equal(t, []string{"1", "2"}, ids(Sort(notes)))
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"food", "ideas", "shopping", "tutorial", "welcome"}, Tags(sample()))
	assert.Equal(t, []string{}, Tags(nil))
}

func TestComputeStats(t *testing.T) {
	notes := sample()
	notes[1].Color = models.ColorGreen
	s := ComputeStats(notes)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Pinned)
	assert.Equal(t, 3, s.ByColor[models.ColorYellow])
	assert.Equal(t, 1, s.ByColor[models.ColorGreen])
	assert.Equal(t, 2, s.TagsCount["food"])
	assert.Equal(t, 1, s.TagsCount["welcome"])
}

func TestPartition(t *testing.T) {
	pinned, unpinned := Partition(Sort(sample()))
	assert.Equal(t, []string{"4", "1"}, ids(pinned))
	assert.Equal(t, []string{"2", "3"}, ids(unpinned))
}

func TestEquivalent(t *testing.T) {
	a := models.Filter{SearchTerm: "x", SelectedTags: []string{"a", "b"}}
	b := models.Filter{SearchTerm: "x", SelectedTags: []string{"b", "a"}}
	require.True(t, Equivalent(a, b), "tag order must not matter")

	b.ShowPinnedOnly = true
	assert.False(t, Equivalent(a, b))

	c := models.Filter{SearchTerm: "x", SelectedTags: []string{"a"}}
	assert.False(t, Equivalent(a, c))

	assert.True(t, Equivalent(models.EmptyFilter(), models.Filter{}))

	dup := models.Filter{SelectedTags: []string{"x", "x"}}
	assert.False(t, Equivalent(dup, models.Filter{SelectedTags: []string{"x", "y"}}))
	assert.False(t, Equivalent(models.Filter{SelectedTags: []string{"x", "y"}}, dup))
	assert.True(t, Equivalent(dup, models.Filter{SelectedTags: []string{"x"}}))
}

func TestActive(t *testing.T) {
	assert.False(t, Active(models.EmptyFilter()))
	assert.True(t, Active(models.Filter{SearchTerm: "a"}))
	assert.True(t, Active(models.Filter{SelectedTags: []string{"a"}}))
	assert.True(t, Active(models.Filter{SelectedColor: models.ColorRed}))
	assert.True(t, Active(models.Filter{ShowPinnedOnly: true}))
}

func TestToggleTag(t *testing.T) {
	in := []string{"a", "b"}
	assert.Equal(t, []string{"a"}, ToggleTag(in, "b"))
	assert.Equal(t, []string{"a", "b", "c"}, ToggleTag(in, "c"))
	assert.Equal(t, []string{"a", "b"}, in)
}
