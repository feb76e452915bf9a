// Package mcpserver provides an MCP (Model Context Protocol) server that
// drives the notes orchestrator over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/filter"
	"github.com/starford/pinboard/internal/models"
	"github.com/starford/pinboard/internal/orchestrator"
)

// ModelResourceURI is the URI of the note model resource.
const ModelResourceURI = "pinboard://note-model"

// Server wraps the MCP server with the note tools.
type Server struct {
	mcp   *server.MCPServer
	notes *orchestrator.Orchestrator
}

// New creates an MCP server whose tools act through o.
func New(o *orchestrator.Orchestrator) *Server {
	s := &Server{notes: o}

	s.mcp = server.NewMCPServer(
		"Pinboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("Set the note filters, reload from the notes service and return the matching notes, "+
			"pinned first then most recently updated. Omitted filters are cleared."),
		mcp.WithString("search", mcp.Description("Case and accent insensitive text to find in title, content or tags")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; a note matches if it has any of them")),
		mcp.WithString("color", mcp.Description("Only notes of this color"), mcp.Enum(colorNames()...)),
		mcp.WithBoolean("pinned_only", mcp.Description("Only pinned notes")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Read the pinboard://note-model resource for field rules."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (max 200 characters)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body (max 10000 characters)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("color", mcp.Description("Note color, yellow by default"), mcp.Enum(colorNames()...)),
		mcp.WithBoolean("pinned", mcp.Description("Pin the note")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Change some fields of a note. Omitted fields keep their value."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags replacing the current ones")),
		mcp.WithString("color", mcp.Description("New color"), mcp.Enum(colorNames()...)),
		mcp.WithBoolean("pinned", mcp.Description("New pinned state")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("toggle_pin",
		mcp.WithDescription("Pin an unpinned note or unpin a pinned one. The note must be in the last listing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.togglePin)

	s.mcp.AddTool(mcp.NewTool("duplicate_note",
		mcp.WithDescription("Create an unpinned copy of a note titled \"<title> (Copy)\". The note must be in the last listing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.duplicateNote)

	s.mcp.AddTool(mcp.NewTool("note_stats",
		mcp.WithDescription("Counts of the loaded notes: total, pinned, per color and per tag."),
	), s.noteStats)

	s.mcp.AddResource(
		mcp.NewResource(ModelResourceURI, "Note Model",
			mcp.WithResourceDescription("Fields, limits and ordering rules of a note."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readModelResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func colorNames() []string {
	out := make([]string, len(models.Colors))
	for i, c := range models.Colors {
		out[i] = string(c)
	}
	return out
}

func splitTags(csv string) []string {
	return models.NormalizeTags(strings.Split(csv, ","))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func noteResult(prefix string, n models.Note) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(models.NewNoteDTO(n), "", "  ")
	return mcp.NewToolResultText(prefix + "\n" + string(out)), nil
}

func errorResult(err error, fallback string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(apperr.Message(err, fallback)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color := models.Color(req.GetString("color", ""))
	if color != "" && !color.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown color %q", color)), nil
	}

	s.notes.SetSearchTerm(req.GetString("search", ""))
	s.notes.SetSelectedTags(splitTags(req.GetString("tags", "")))
	s.notes.SetColorFilter(color)
	s.notes.SetPinnedFilter(req.GetBool("pinned_only", false))

	if err := s.notes.LoadNotes(ctx); err != nil && !errors.Is(err, orchestrator.ErrSuperseded) {
		return errorResult(err, "Failed to load notes")
	}

	notes := s.notes.FilteredNotes()
	dtos := make([]models.NoteDTO, len(notes))
	for i, n := range notes {
		dtos[i] = models.NewNoteDTO(n)
	}
	return jsonResult(dtos)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := s.notes.CreateNote(ctx, models.CreateNoteRequest{
		Title:    title,
		Content:  content,
		Tags:     splitTags(req.GetString("tags", "")),
		Color:    models.Color(req.GetString("color", "")),
		IsPinned: req.GetBool("pinned", false),
	})
	if err != nil {
		return errorResult(err, "Failed to create note")
	}
	return noteResult("created: "+n.ID, n)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	patch := models.UpdateNoteRequest{ID: id}
	if _, ok := args["title"]; ok {
		v := req.GetString("title", "")
		patch.Title = &v
	}
	if _, ok := args["content"]; ok {
		v := req.GetString("content", "")
		patch.Content = &v
	}
	if _, ok := args["tags"]; ok {
		v := splitTags(req.GetString("tags", ""))
		patch.Tags = &v
	}
	if _, ok := args["color"]; ok {
		v := models.Color(req.GetString("color", ""))
		patch.Color = &v
	}
	if _, ok := args["pinned"]; ok {
		v := req.GetBool("pinned", false)
		patch.IsPinned = &v
	}

	n, err := s.notes.UpdateNote(ctx, patch)
	if err != nil {
		return errorResult(err, "Failed to update note")
	}
	return noteResult("updated: "+n.ID, n)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.notes.DeleteNote(ctx, id); err != nil {
		return errorResult(err, "Failed to delete note")
	}
	return mcp.NewToolResultText("deleted: " + id), nil
}

func (s *Server) togglePin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.notes.TogglePinNote(ctx, id)
	if err != nil {
		return errorResult(err, "Failed to update note")
	}
	state := "unpinned"
	if n.IsPinned {
		state = "pinned"
	}
	return noteResult(state+": "+n.ID, n)
}

func (s *Server) duplicateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.notes.DuplicateNote(ctx, id)
	if err != nil {
		return errorResult(err, "Failed to create note")
	}
	return noteResult("created: "+n.ID, n)
}

func (s *Server) noteStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(struct {
		models.Stats
		Tags             []string `json:"tags"`
		HasActiveFilters bool     `json:"hasActiveFilters"`
		Visible          int      `json:"visible"`
	}{
		Stats:            s.notes.Stats(),
		Tags:             s.notes.AllTags(),
		HasActiveFilters: filter.Active(s.notes.Filter()),
		Visible:          len(s.notes.FilteredNotes()),
	})
}

func (s *Server) readModelResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ModelResourceURI,
			MIMEType: "text/markdown",
			Text:     NoteModel,
		},
	}, nil
}
