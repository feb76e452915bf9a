package models

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field limits for note text.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// CreateNoteRequest is the payload for creating a note.
// Tags, Color and IsPinned are optional; the service fills defaults.
type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	Color    Color    `json:"color,omitempty"`
	IsPinned bool     `json:"isPinned,omitempty"`
}

// Validate checks the required fields before any network call.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(notBlank), validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&r.Content, validation.By(notBlank), validation.RuneLength(0, MaxContentLength)),
		validation.Field(&r.Color, validation.In(colorValues()...)),
	)
}

// UpdateNoteRequest is a partial update. Nil fields are left unchanged.
type UpdateNoteRequest struct {
	ID       string    `json:"-"`
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Color    *Color    `json:"color,omitempty"`
	IsPinned *bool     `json:"isPinned,omitempty"`
}

// Validate checks the id and any present fields.
func (r UpdateNoteRequest) Validate() error {
	if err := validation.Validate(r.ID, validation.Required.Error("id is required")); err != nil {
		return err
	}
	return r.ValidatePatch()
}

// ValidatePatch checks only the optional fields. The mock service uses it
// because the id comes from the URL.
func (r UpdateNoteRequest) ValidatePatch() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(r.Title != nil, validation.By(notBlank), validation.RuneLength(0, MaxTitleLength))),
		validation.Field(&r.Content, validation.When(r.Content != nil, validation.By(notBlank), validation.RuneLength(0, MaxContentLength))),
		validation.Field(&r.Color, validation.When(r.Color != nil, validation.By(validColor))),
	)
}

// Apply returns a copy of n with the present fields of r applied.
// Timestamps are left to the caller.
func (r UpdateNoteRequest) Apply(n Note) Note {
	n = n.Clone()
	if r.Title != nil {
		n.Title = *r.Title
	}
	if r.Content != nil {
		n.Content = *r.Content
	}
	if r.Tags != nil {
		n.Tags = NormalizeTags(*r.Tags)
	}
	if r.Color != nil {
		n.Color = *r.Color
	}
	if r.IsPinned != nil {
		n.IsPinned = *r.IsPinned
	}
	return n
}

func notBlank(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func validColor(value any) error {
	c, ok := value.(*Color)
	if !ok || c == nil {
		return nil
	}
	if !c.Valid() {
		return errors.New("must be a valid value")
	}
	return nil
}
