package mirror

import (
	"context"
	"fmt"

	"github.com/starford/pinboard/internal/checksum"
	"github.com/starford/pinboard/internal/models"
)

// SyncStats reports what a Sync changed.
type SyncStats struct {
	Upserted int
	Deleted  int
}

// Sync makes the mirror equal to notes in one transaction: rows whose
// checksum or position changed are upserted and rows for ids no longer
// present are removed.
func (db *DB) Sync(ctx context.Context, notes []models.Note) error {
	_, err := db.SyncStats(ctx, notes)
	return err
}

// SyncStats is Sync that also reports the number of touched rows.
func (db *DB) SyncStats(ctx context.Context, notes []models.Note) (SyncStats, error) {
	var st SyncStats

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return st, fmt.Errorf("mirror: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	existing, err := allStates(ctx, tx)
	if err != nil {
		return st, err
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return st, fmt.Errorf("mirror: prepare upsert: %w", err)
	}
	defer stmt.Close()

	keep := make(map[string]struct{}, len(notes))
	for pos, n := range notes {
		keep[n.ID] = struct{}{}
		sum := checksum.Note(n)
		if cur, ok := existing[n.ID]; ok && cur.checksum == sum && cur.position == pos {
			continue
		}
		if err := upsertNote(ctx, stmt, n, pos, sum); err != nil {
			return st, err
		}
		st.Upserted++
	}

	for id := range existing {
		if _, ok := keep[id]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
			return st, fmt.Errorf("mirror: delete %s: %w", id, err)
		}
		st.Deleted++
	}

	if err := tx.Commit(); err != nil {
		return st, fmt.Errorf("mirror: commit: %w", err)
	}
	return st, nil
}
