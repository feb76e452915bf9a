package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/pinboard/internal/models"
)

// rowState is what Sync needs to decide whether a row changed.
type rowState struct {
	position int
	checksum string
}

// Load returns the mirrored notes in their stored order.
func (db *DB) Load(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, content, tags, color, is_pinned, created_at, updated_at
		FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("mirror: load: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var (
			n                models.Note
			tagsJSON         string
			created, updated string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &tagsJSON, &n.Color, &n.IsPinned, &created, &updated); err != nil {
			return nil, fmt.Errorf("mirror: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil || n.Tags == nil {
			n.Tags = []string{}
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("mirror: note %s: created_at: %w", n.ID, err)
		}
		if n.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("mirror: note %s: updated_at: %w", n.ID, err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Count returns the number of mirrored notes.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("mirror: count: %w", err)
	}
	return n, nil
}

func allStates(ctx context.Context, tx *sql.Tx) (map[string]rowState, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, position, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("mirror: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]rowState)
	for rows.Next() {
		var (
			id string
			st rowState
		)
		if err := rows.Scan(&id, &st.position, &st.checksum); err != nil {
			return nil, fmt.Errorf("mirror: scan checksum: %w", err)
		}
		out[id] = st
	}
	return out, rows.Err()
}

func upsertNote(ctx context.Context, stmt *sql.Stmt, n models.Note, position int, sum string) error {
	tagsJSON, _ := json.Marshal(n.Tags)
	_, err := stmt.ExecContext(ctx,
		n.ID, position, n.Title, n.Content, string(tagsJSON), string(n.Color), n.IsPinned,
		n.CreatedAt.UTC().Format(time.RFC3339Nano), n.UpdatedAt.UTC().Format(time.RFC3339Nano), sum)
	if err != nil {
		return fmt.Errorf("mirror: upsert %s: %w", n.ID, err)
	}
	return nil
}

const upsertSQL = `
	INSERT INTO notes (id, position, title, content, tags, color, is_pinned, created_at, updated_at, checksum)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		position   = excluded.position,
		title      = excluded.title,
		content    = excluded.content,
		tags       = excluded.tags,
		color      = excluded.color,
		is_pinned  = excluded.is_pinned,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		checksum   = excluded.checksum`
