package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/pinboard/internal/noteservice"
	"github.com/starford/pinboard/internal/seed"
)

func TestRouter_HealthAndNotFound(t *testing.T) {
	svc := noteservice.NewService(seed.DefaultNotes())
	srv := httptest.NewServer(newRouter(svc, 0, nil))
	defer srv.Close()

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound || body.Message != "Not Found" {
		t.Errorf("got %d %q", resp.StatusCode, body.Message)
	}
}

func TestRouter_ListsSeedNotes(t *testing.T) {
	svc := noteservice.NewService(seed.DefaultNotes())
	srv := httptest.NewServer(newRouter(svc, 0, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/notes?search=welcome")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var notes []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || !strings.HasPrefix(notes[0].Title, "Welcome") {
		t.Errorf("notes = %+v", notes)
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(t.Context()); err == nil {
		t.Fatal("Run without config should fail")
	}
	if err := RunMCP(t.Context()); err == nil {
		t.Fatal("RunMCP without config should fail")
	}
}
