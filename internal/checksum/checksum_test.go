package checksum

import (
	"testing"
	"time"

	"github.com/starford/pinboard/internal/models"
)

func TestSum(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
}

func TestNote(t *testing.T) {
	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	n := models.Note{ID: "1", Title: "t", Tags: []string{"a"}, Color: models.ColorRed, CreatedAt: ts, UpdatedAt: ts}

	if Note(n) != Note(n.Clone()) {
		t.Error("equal notes should have equal digests")
	}
	changed := n.Clone()
	changed.IsPinned = true
	if Note(n) == Note(changed) {
		t.Error("pin change should change the digest")
	}
	local := n.Clone()
	local.CreatedAt = ts.In(time.FixedZone("X", 3600))
	local.UpdatedAt = local.CreatedAt
	if Note(n) != Note(local) {
		t.Error("digest should not depend on the time zone")
	}
}
