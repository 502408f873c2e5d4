package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB wraps an on-disk SQLite database opened with the pure-Go driver
type SQLiteDB struct {
	DB *sql.DB
}

// NewSQLiteDB opens (or creates) the SQLite file at path
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single writer connection keeps read-modify-write cycles ordered.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return &SQLiteDB{DB: db}, nil
}

// Close closes the database
func (s *SQLiteDB) Close() error {
	return s.DB.Close()
}
