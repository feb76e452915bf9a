package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/models"
)

const (
	msgCreate = "Failed to create note"
	msgUpdate = "Failed to update note"
	msgDelete = "Failed to delete note"

	copySuffix = " (Copy)"
)

// fail records err as the last error.
func (o *Orchestrator) fail(op, fallback string, err error) {
	o.logger.Warn(op+" failed", slog.String("error", err.Error()))
	o.store.SetError(apperr.Message(err, fallback))
}

// CreateNote validates req, sends it and prepends the stored note.
func (o *Orchestrator) CreateNote(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	req.Tags = models.NormalizeTags(req.Tags)
	if err := req.Validate(); err != nil {
		err = apperr.Validation(err)
		o.fail("create note", msgCreate, err)
		return models.Note{}, err
	}

	o.creating.begin("", func() { o.store.SetCreating(true) })
	defer o.creating.end("", func() { o.store.SetCreating(false) })
	o.store.SetError("")

	n, err := o.api.CreateNote(ctx, req)
	if err != nil {
		o.fail("create note", msgCreate, err)
		return models.Note{}, err
	}
	o.store.AddNote(n)
	return n, nil
}

// UpdateNote validates req, sends the patch and replaces the note with the
// stored version. A selected note is refreshed too.
func (o *Orchestrator) UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (models.Note, error) {
	if req.Tags != nil {
		tags := models.NormalizeTags(*req.Tags)
		req.Tags = &tags
	}
	if err := req.Validate(); err != nil {
		err = apperr.Validation(err)
		o.fail("update note", msgUpdate, err)
		return models.Note{}, err
	}

	o.updating.begin(req.ID, func() { o.store.StartUpdating(req.ID) })
	defer o.updating.end(req.ID, func() { o.store.StopUpdating(req.ID) })
	o.store.SetError("")

	n, err := o.api.UpdateNote(ctx, req)
	if err != nil {
		o.fail("update note", msgUpdate, err)
		return models.Note{}, err
	}
	o.store.UpdateNote(n)
	if sel := o.store.SelectedNote(); sel != nil && sel.ID == n.ID {
		o.store.SetSelectedNote(&n)
	}
	return n, nil
}

// DeleteNote deletes the note with id and drops it from the collection.
func (o *Orchestrator) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		err := fmt.Errorf("%w: id is required", apperr.ErrValidation)
		o.fail("delete note", msgDelete, err)
		return err
	}

	o.deleting.begin(id, func() { o.store.StartDeleting(id) })
	defer o.deleting.end(id, func() { o.store.StopDeleting(id) })
	o.store.SetError("")

	if err := o.api.DeleteNote(ctx, id); err != nil {
		o.fail("delete note", msgDelete, err)
		return err
	}
	o.store.DeleteNote(id)
	return nil
}

// TogglePinNote flips the pinned state of a loaded note. An id that is not
// loaded yields apperr.ErrNotFound without touching the state.
func (o *Orchestrator) TogglePinNote(ctx context.Context, id string) (models.Note, error) {
	n, ok := o.find(id)
	if !ok {
		return models.Note{}, fmt.Errorf("toggle pin %s: %w", id, apperr.ErrNotFound)
	}
	pinned := !n.IsPinned
	return o.UpdateNote(ctx, models.UpdateNoteRequest{ID: id, IsPinned: &pinned})
}

// DuplicateNote creates an unpinned copy of a loaded note titled
// "<title> (Copy)". An id that is not loaded yields apperr.ErrNotFound
// without touching the state.
func (o *Orchestrator) DuplicateNote(ctx context.Context, id string) (models.Note, error) {
	n, ok := o.find(id)
	if !ok {
		return models.Note{}, fmt.Errorf("duplicate %s: %w", id, apperr.ErrNotFound)
	}
	return o.CreateNote(ctx, models.CreateNoteRequest{
		Title:    copyTitle(n.Title),
		Content:  n.Content,
		Tags:     n.Tags,
		Color:    n.Color,
		IsPinned: false,
	})
}

// copyTitle appends the copy suffix, shortening title so the result stays
// within the title limit.
func copyTitle(title string) string {
	limit := models.MaxTitleLength - len([]rune(copySuffix))
	if r := []rune(title); len(r) > limit {
		title = string(r[:limit])
	}
	return title + copySuffix
}
