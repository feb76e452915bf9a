package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pinboard/internal/noteservice"
)

// NewRouter creates a chi router with the notes routes, to be mounted at
// /api. latency delays every notes request. events, if non-nil, is mounted
// at GET /events without the delay.
func NewRouter(svc *noteservice.Service, latency time.Duration, events http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(LatencyMiddleware(latency))

		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Patch("/notes/{id}", h.PatchNote)
		r.Delete("/notes/{id}", h.DeleteNote)
	})

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
