// Package repository defines the keyed store contract shared by the call record backends.
package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when no record exists for the key
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is a process-local mapping from a string key to a serialized record.
// Each call replaces the whole record; there is no transactional isolation.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger reports whether a backend can currently serve requests
type Pinger interface {
	Ping(ctx context.Context) error
}
