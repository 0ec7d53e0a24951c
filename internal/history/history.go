// Package history keeps the list of recently opened files in a SQLite
// database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register the "sqlite" driver
)

// DefaultLimit is the number of entries kept when no limit is given
const DefaultLimit = 10

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recent_files (
	path      TEXT PRIMARY KEY,
	seq       INTEGER NOT NULL,
	opened_at TEXT NOT NULL
)`

// Entry is one recently opened file.
type Entry struct {
	Path     string
	OpenedAt time.Time
}

// Store is a most-recent-first list of file paths.
//
// Adding a path that is already listed moves it to the front. The list is
// trimmed to the store's limit after every Add. Paths whose file no longer
// exists are kept but not listed.
type Store struct {
	db     *sql.DB
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the store at path. The parent directory is created
// when missing. A limit below 1 uses DefaultLimit.
func Open(ctx context.Context, path string, limit int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close() // Ignore close error
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &Store{db: db, limit: limit, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Limit returns the maximum number of entries kept.
func (s *Store) Limit() int {
	return s.limit
}

// Add moves path to the front of the list, inserting it if needed.
// Relative paths are made absolute first.
func (s *Store) Add(ctx context.Context, path string) (err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // Ignore rollback error
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recent_files (path, seq, opened_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_files), ?)
		ON CONFLICT (path) DO UPDATE SET seq = excluded.seq, opened_at = excluded.opened_at`,
		abs, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to record %s: %w", abs, err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM recent_files
		WHERE path NOT IN (SELECT path FROM recent_files ORDER BY seq DESC LIMIT ?)`, s.limit)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}

	if trimmed, _ := res.RowsAffected(); trimmed > 0 {
		s.logger.Debug("trimmed recent files", slog.Int64("removed", trimmed), slog.Int("limit", s.limit))
	}
	return nil
}

// Remove deletes path from the list. Removing an unknown path is not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_files WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	return nil
}

// List returns the entries whose files still exist, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, opened_at FROM recent_files ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close() // Ignore close error
	}()

	entries := make([]Entry, 0, s.limit)
	for rows.Next() {
		var (
			entry    Entry
			openedAt string
		)
		if err := rows.Scan(&entry.Path, &openedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if _, err := os.Stat(entry.Path); errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("hiding missing recent file", slog.String("path", entry.Path))
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, openedAt); err == nil {
			entry.OpenedAt = t
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Paths returns the listed paths, most recent first.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}
