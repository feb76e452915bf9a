package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// filterFromQuery reads the list criteria from the query string.
func filterFromQuery(r *http.Request) models.Filter {
	q := r.URL.Query()
	f := models.EmptyFilter()
	f.SearchTerm = q.Get("search")
	for _, t := range strings.Split(q.Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			f.SelectedTags = append(f.SelectedTags, t)
		}
	}
	f.SelectedColor = models.Color(q.Get("color"))
	f.ShowPinnedOnly = q.Get("pinned") == "true"
	return f
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, pinned first then most recently updated
//	@Tags			notes
//	@Produce		json
//	@Param			search	query		string	false	"Case and diacritic insensitive search term"
//	@Param			tags	query		string	false	"Comma-separated tags (any match)"
//	@Param			color	query		string	false	"Exact color"
//	@Param			pinned	query		bool	false	"Only pinned notes"
//	@Success		200		{array}		NoteDTO
//	@Failure		400		{object}	ErrorResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if f.SelectedColor != "" && !f.SelectedColor.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid color"))
		return
	}
	notes, err := h.svc.ListNotes(r.Context(), f)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(notes))
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Warn("malformed create body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create note failed", "", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewNoteDTO(note))
}

// PatchNote handles PATCH /api/notes/{id}.
//
//	@Summary		Update some fields of a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"Fields to change"
//	@Success		200		{object}	NoteDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/notes/{id} [patch]
func (h *Handler) PatchNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateNoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Warn("malformed patch body", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
		return
	}
	note, err := h.svc.PatchNote(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, "patch note failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewNoteDTO(note))
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	ErrorResponse
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeServiceError(w, "delete note failed", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, msg, id string, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, errorBody(fieldErrs.Error()))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(msg, slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
	}
}
