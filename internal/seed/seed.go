// Package seed provides the initial data set of the mock notes service and
// loads replacements from YAML files.
package seed

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/pinboard/internal/models"
)

// DefaultNotes returns the built-in data set.
func DefaultNotes() []models.Note {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return []models.Note{
		{
			ID:    "1",
			Title: "Welcome to Notes App",
			Content: "This is your first note! You can create, edit, and organize your notes using this application. " +
				"Try adding some tags and changing colors.",
			Tags:      []string{"welcome", "tutorial"},
			Color:     models.ColorYellow,
			IsPinned:  true,
			CreatedAt: at("2025-01-01T10:00:00Z"),
			UpdatedAt: at("2025-01-01T10:00:00Z"),
		},
		{
			ID:    "2",
			Title: "Angular 20 Signals",
			Content: "Angular 20 introduces signal-based reactivity as a stable feature. " +
				"Signals provide fine-grained reactivity and better performance.",
			Tags:      []string{"angular", "signals", "development"},
			Color:     models.ColorBlue,
			CreatedAt: at("2025-01-02T09:30:00Z"),
			UpdatedAt: at("2025-01-02T09:30:00Z"),
		},
		{
			ID:        "3",
			Title:     "Shopping List",
			Content:   "Milk\nBread\nEggs\nApples\nOrange juice\nPasta",
			Tags:      []string{"shopping", "groceries"},
			Color:     models.ColorGreen,
			CreatedAt: at("2025-01-03T15:20:00Z"),
			UpdatedAt: at("2025-01-03T15:20:00Z"),
		},
	}
}

// File is the YAML layout of a seed file.
type File struct {
	Notes []Entry `yaml:"notes"`
}

// Entry is one note in a seed file. UpdatedAt defaults to CreatedAt and
// Color to the default color.
type Entry struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Content   string   `yaml:"content"`
	Tags      []string `yaml:"tags"`
	Color     string   `yaml:"color"`
	Pinned    bool     `yaml:"pinned"`
	CreatedAt string   `yaml:"created_at"`
	UpdatedAt string   `yaml:"updated_at"`
}

// Validate checks a single entry.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Title, validation.Required, validation.RuneLength(0, models.MaxTitleLength)),
		validation.Field(&e.Color, validation.By(func(v any) error {
			if c, _ := v.(string); c != "" && !models.Color(c).Valid() {
				return errors.New("must be a valid color")
			}
			return nil
		})),
		validation.Field(&e.CreatedAt, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&e.UpdatedAt, validation.Date(time.RFC3339)),
	)
}

func (e Entry) toNote() models.Note {
	created, _ := time.Parse(time.RFC3339, e.CreatedAt)
	updated := created
	if e.UpdatedAt != "" {
		updated, _ = time.Parse(time.RFC3339, e.UpdatedAt)
	}
	if updated.Before(created) {
		updated = created
	}
	color := models.Color(e.Color)
	if color == "" {
		color = models.DefaultColor
	}
	return models.Note{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Tags:      models.NormalizeTags(e.Tags),
		Color:     color,
		IsPinned:  e.Pinned,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}
}

// Load reads a seed file. Ids must be unique.
func Load(path string) ([]models.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}

	notes := make([]models.Note, 0, len(f.Notes))
	seen := make(map[string]struct{}, len(f.Notes))
	for i, e := range f.Notes {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("seed: note %d: %w", i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("seed: note %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		notes = append(notes, e.toNote())
	}
	return notes, nil
}

// LoadOrDefault returns the notes from path, or DefaultNotes when path is
// empty.
func LoadOrDefault(path string) ([]models.Note, error) {
	if path == "" {
		return DefaultNotes(), nil
	}
	return Load(path)
}
