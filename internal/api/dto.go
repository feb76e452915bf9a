package api

import "github.com/starford/pinboard/internal/models"

// NoteDTO is the wire representation of a note (aliased from the domain layer).
type NoteDTO = models.NoteDTO

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest = models.CreateNoteRequest

// UpdateNoteRequest is the request body for patching a note.
type UpdateNoteRequest = models.UpdateNoteRequest

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message" example:"Note not found" validate:"required"`
}

func toDTOs(notes []models.Note) []NoteDTO {
	out := make([]NoteDTO, len(notes))
	for i, n := range notes {
		out[i] = models.NewNoteDTO(n)
	}
	return out
}
