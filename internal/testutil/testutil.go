// Package testutil provides shared test helpers for running the mock notes
// service and opening mirror databases.
package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pinboard/internal/api"
	"github.com/starford/pinboard/internal/mirror"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/noteservice"
)

// TestServer starts the mock notes API with no latency over a service
// holding notes. Both are cleaned up with the test.
func TestServer(t *testing.T, notes []models.Note, opts ...noteservice.Option) (*httptest.Server, *noteservice.Service) {
	t.Helper()
	svc := noteservice.NewService(notes, opts...)
	r := chi.NewRouter()
	r.NotFound(api.NotFound)
	r.Mount("/api", api.NewRouter(svc, 0, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

// TestMirror opens a mirror database in a temporary directory.
func TestMirror(t *testing.T) *mirror.DB {
	t.Helper()
	db, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
