package models

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TimestampLayout is the ISO-8601 form used on the wire (millisecond
// precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NoteDTO is the wire representation of a note exchanged with the note
// service. Timestamps are ISO-8601 strings.
type NoteDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Tags      []string `json:"tags"`
	Color     Color    `json:"color"`
	IsPinned  bool     `json:"isPinned"`
}

// NewNoteDTO converts a domain note to its wire form.
func NewNoteDTO(n Note) NoteDTO {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt: n.UpdatedAt.UTC().Format(TimestampLayout),
		Tags:      tags,
		Color:     n.Color,
		IsPinned:  n.IsPinned,
	}
}

// Validate rejects malformed payloads.
func (d NoteDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.CreatedAt, validation.Required, validation.By(isTimestamp)),
		validation.Field(&d.UpdatedAt, validation.Required, validation.By(isTimestamp)),
		validation.Field(&d.Color, validation.Required, validation.In(colorValues()...)),
	)
}

// ToModel validates the DTO and converts it to a domain note.
func (d NoteDTO) ToModel() (Note, error) {
	if err := d.Validate(); err != nil {
		return Note{}, err
	}
	created, err := parseTimestamp(d.CreatedAt)
	if err != nil {
		return Note{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTimestamp(d.UpdatedAt)
	if err != nil {
		return Note{}, fmt.Errorf("updatedAt: %w", err)
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Note{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		Color:     d.Color,
		IsPinned:  d.IsPinned,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func isTimestamp(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := parseTimestamp(s); err != nil {
		return errors.New("must be an ISO-8601 timestamp")
	}
	return nil
}
