package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hackcall-backend/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_records (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// KVStore implements repository.KeyValueStore on a single SQLite table
type KVStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewKVStore creates the backing table if needed and returns the store
func NewKVStore(ctx context.Context, db *sql.DB) (*KVStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_records: %w", err)
	}
	return &KVStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Get retrieves the record stored at key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the record stored at key
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the database file is reachable
func (s *KVStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
