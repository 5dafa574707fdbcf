package saved

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rsilvagit/go-jobboard/internal/model"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saved_jobs (
    id         TEXT PRIMARY KEY,
    position   INTEGER NOT NULL,
    payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_jobs_position ON saved_jobs(position);
`

// SQLiteStore keeps one row per saved job, ordered by position.
type SQLiteStore struct {
	DB *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("saved: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=10000"} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("saved: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("saved: apply schema: %w", err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

// Load skips rows whose payload no longer decodes.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.SavedJob, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT payload FROM saved_jobs ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("saved: query: %w", err)
	}
	defer rows.Close()

	var items []model.SavedJob
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("saved: scan: %w", err)
		}
		var it model.SavedJob
		if err := json.Unmarshal([]byte(payload), &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, items []model.SavedJob) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saved: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_jobs`); err != nil {
		return fmt.Errorf("saved: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO saved_jobs (id, position, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("saved: prepare: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("saved: encode %s: %w", it.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, it.ID, i, string(payload)); err != nil {
			return fmt.Errorf("saved: insert %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}
