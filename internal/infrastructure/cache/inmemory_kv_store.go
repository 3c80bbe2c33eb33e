package cache

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/session"
)

// InMemoryKVStore implements session.Storage in process memory.
// State is lost on restart and not shared between instances.
type InMemoryKVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryKVStore creates an empty store
func NewInMemoryKVStore() *InMemoryKVStore {
	return &InMemoryKVStore{data: make(map[string]string)}
}

// Get implements session.Storage
func (s *InMemoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set implements session.Storage
func (s *InMemoryKVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete implements session.Storage
func (s *InMemoryKVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len returns the number of stored keys
func (s *InMemoryKVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ session.Storage = (*InMemoryKVStore)(nil)
