package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hackcall-backend/internal/database"
	"hackcall-backend/internal/repository"
)

// KVStore implements repository.KeyValueStore on Redis string keys.
// Writes are whole-record SETs; concurrent writers from separate processes
// follow last-writer-wins.
type KVStore struct {
	client *database.RedisClient
}

// NewKVStore creates a new Redis-backed KVStore
func NewKVStore(client *database.RedisClient) *KVStore {
	return &KVStore{client: client}
}

// Get retrieves the record stored at key
func (r *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.SafeGet(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value at key without expiration
func (r *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.SafeSet(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (r *KVStore) Delete(ctx context.Context, key string) error {
	if err := r.client.SafeDel(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping checks Redis reachability, failing fast while in degraded mode
func (r *KVStore) Ping(ctx context.Context) error {
	return r.client.SafePing(ctx)
}

// IsDegraded returns true if Redis is in degraded mode
func (r *KVStore) IsDegraded() bool {
	return r.client.IsDegraded()
}
