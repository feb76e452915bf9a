// Package checksum computes content digests used for change detection.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/starford/pinboard/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Note returns the digest of the wire form of n. Two notes with equal
// digests are indistinguishable to API clients.
func Note(n models.Note) string {
	data, err := json.Marshal(models.NewNoteDTO(n))
	if err != nil {
		// NoteDTO holds only strings, bools and string slices.
		panic(err)
	}
	return Sum(data)
}
