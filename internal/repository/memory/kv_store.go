package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"hackcall-backend/internal/repository"
	"hackcall-backend/pkg/logger"
)

// KVStore implements repository.KeyValueStore on top of an in-memory map
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore creates an empty in-memory store
func NewKVStore() *KVStore {
	return &KVStore{
		data: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored at key
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set replaces the value stored at key
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.data[key] = stored
	size := len(s.data)
	s.mu.Unlock()

	logger.Debug("Memory store entry written",
		zap.String("key", key),
		zap.Int("bytes", len(stored)),
		zap.Int("size", size),
	)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len returns the number of stored records
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Ping always succeeds
func (s *KVStore) Ping(context.Context) error {
	return nil
}
