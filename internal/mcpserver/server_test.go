package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pinboard/internal/apiclient"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/noteservice"
	"github.com/starford/pinboard/internal/orchestrator"
	"github.com/starford/pinboard/internal/seed"
	"github.com/starford/pinboard/internal/testutil"
)

func testServer(t *testing.T) (*Server, *noteservice.Service) {
	t.Helper()
	httpSrv, svc := testutil.TestServer(t, seed.DefaultNotes())
	o := orchestrator.New(apiclient.New(httpSrv.URL))
	return New(o), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_notes":     srv.listNotes,
		"create_note":    srv.createNote,
		"update_note":    srv.updateNote,
		"delete_note":    srv.deleteNote,
		"toggle_pin":     srv.togglePin,
		"duplicate_note": srv.duplicateNote,
		"note_stats":     srv.noteStats,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func listIDs(t *testing.T, r *mcp.CallToolResult) []string {
	t.Helper()
	if r.IsError {
		t.Fatalf("list_notes failed: %s", resultText(r))
	}
	var dtos []models.NoteDTO
	if err := json.Unmarshal([]byte(resultText(r)), &dtos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	ids := make([]string, len(dtos))
	for i, d := range dtos {
		ids[i] = d.ID
	}
	return ids
}

func TestListNotes(t *testing.T) {
	srv, _ := testServer(t)

	ids := listIDs(t, callTool(t, srv, "list_notes", map[string]any{}))
	if strings.Join(ids, ",") != "1,3,2" {
		t.Errorf("ids = %v, want [1 3 2]", ids)
	}

	ids = listIDs(t, callTool(t, srv, "list_notes", map[string]any{"search": "WELCOME"}))
	if strings.Join(ids, ",") != "1" {
		t.Errorf("search ids = %v", ids)
	}

	ids = listIDs(t, callTool(t, srv, "list_notes", map[string]any{"tags": "groceries, angular"}))
	if strings.Join(ids, ",") != "3,2" {
		t.Errorf("tag ids = %v", ids)
	}

	ids = listIDs(t, callTool(t, srv, "list_notes", map[string]any{"pinned_only": true}))
	if strings.Join(ids, ",") != "1" {
		t.Errorf("pinned ids = %v", ids)
	}

	r := callTool(t, srv, "list_notes", map[string]any{"color": "teal"})
	if !r.IsError {
		t.Error("unknown color should fail")
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	srv, svc := testServer(t)
	callTool(t, srv, "list_notes", map[string]any{})

	r := callTool(t, srv, "create_note", map[string]any{
		"title": "Plan", "content": "Ship it", "tags": "Work, work", "color": "red",
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(strings.SplitN(text, "\n", 2)[0], "created: ")
	if svc.Len() != 4 {
		t.Errorf("service has %d notes, want 4", svc.Len())
	}

	r = callTool(t, srv, "update_note", map[string]any{"id": id, "pinned": true})
	if r.IsError || !strings.Contains(resultText(r), `"isPinned": true`) {
		t.Fatalf("update result = %q", resultText(r))
	}
	if !strings.Contains(resultText(r), `"title": "Plan"`) {
		t.Error("omitted fields must keep their value")
	}

	r = callTool(t, srv, "delete_note", map[string]any{"id": id})
	if r.IsError || resultText(r) != "deleted: "+id {
		t.Fatalf("delete result = %q", resultText(r))
	}
	if svc.Len() != 3 {
		t.Errorf("service has %d notes, want 3", svc.Len())
	}
}

func TestCreateNote_Invalid(t *testing.T) {
	srv, svc := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": " ", "content": "x"})
	if !r.IsError || !strings.HasPrefix(resultText(r), "Invalid note:") {
		t.Errorf("result = %q", resultText(r))
	}
	if svc.Len() != 3 {
		t.Error("invalid note reached the service")
	}

	r = callTool(t, srv, "create_note", map[string]any{"content": "x"})
	if !r.IsError {
		t.Error("missing title should fail")
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "update_note", map[string]any{"id": "999", "title": "x"})
	if !r.IsError || resultText(r) != "Note not found" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestTogglePinAndDuplicate(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "list_notes", map[string]any{})

	r := callTool(t, srv, "toggle_pin", map[string]any{"id": "3"})
	if r.IsError || !strings.HasPrefix(resultText(r), "pinned: 3") {
		t.Fatalf("toggle result = %q", resultText(r))
	}

	r = callTool(t, srv, "duplicate_note", map[string]any{"id": "3"})
	if r.IsError {
		t.Fatalf("duplicate failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"title": "Shopping List (Copy)"`) || !strings.Contains(text, `"isPinned": false`) {
		t.Errorf("duplicate result = %q", text)
	}

	r = callTool(t, srv, "toggle_pin", map[string]any{"id": "missing"})
	if !r.IsError || resultText(r) != "Note not found" {
		t.Errorf("missing toggle result = %q", resultText(r))
	}
}

func TestNoteStats(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "list_notes", map[string]any{})

	var stats struct {
		Total     int            `json:"total"`
		Pinned    int            `json:"pinned"`
		ByColor   map[string]int `json:"byColor"`
		Tags      []string       `json:"tags"`
		Visible   int            `json:"visible"`
		TagsCount map[string]int `json:"tagsCount"`
	}
	r := callTool(t, srv, "note_stats", map[string]any{})
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 3 || stats.Pinned != 1 || stats.Visible != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByColor["green"] != 1 || stats.TagsCount["welcome"] != 1 || len(stats.Tags) != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestModelResource(t *testing.T) {
	srv, _ := testServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	contents, err := srv.readModelResource(ctx, mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ModelResourceURI || !strings.Contains(tc.Text, "(Copy)") {
		t.Errorf("unexpected resource %+v", contents[0])
	}
}
