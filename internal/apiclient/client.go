// Package apiclient is a thin HTTP client for the notes service. It maps
// wire DTOs to domain notes and classifies every failure with apperr.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/models"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the service at baseURL (scheme and host, no
// trailing /api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListNotes fetches the notes matching f.
func (c *Client) ListNotes(ctx context.Context, f models.Filter) ([]models.Note, error) {
	var dtos []models.NoteDTO
	if err := c.do(ctx, http.MethodGet, "/api/notes"+listQuery(f), nil, &dtos); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]models.Note, 0, len(dtos))
	for i, d := range dtos {
		n, err := toModel(d)
		if err != nil {
			return nil, fmt.Errorf("list notes: item %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// CreateNote creates a note and returns it as stored by the service.
func (c *Client) CreateNote(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	var dto models.NoteDTO
	if err := c.do(ctx, http.MethodPost, "/api/notes", req, &dto); err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	n, err := toModel(dto)
	if err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// UpdateNote sends the present fields of req as a PATCH.
func (c *Client) UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (models.Note, error) {
	var dto models.NoteDTO
	if err := c.do(ctx, http.MethodPatch, notePath(req.ID), req, &dto); err != nil {
		return models.Note{}, fmt.Errorf("update note %s: %w", req.ID, err)
	}
	n, err := toModel(dto)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note %s: %w", req.ID, err)
	}
	return n, nil
}

// DeleteNote deletes the note with id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, notePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}

func listQuery(f models.Filter) string {
	q := url.Values{}
	if f.SearchTerm != "" {
		q.Set("search", f.SearchTerm)
	}
	if len(f.SelectedTags) > 0 {
		q.Set("tags", strings.Join(f.SelectedTags, ","))
	}
	if f.SelectedColor != "" {
		q.Set("color", string(f.SelectedColor))
	}
	if f.ShowPinnedOnly {
		q.Set("pinned", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func toModel(d models.NoteDTO) (models.Note, error) {
	n, err := d.ToModel()
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", apperr.ErrMalformedResponse, err)
	}
	return n, nil
}

// do sends one request. A non-2xx response becomes a *apperr.StatusError;
// out, if non-nil, receives the decoded body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("%w: %w", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", apperr.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrMalformedResponse, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &apperr.StatusError{Status: status, Message: payload.Message}
}
