// Package storage persists the timer's small integer settings.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.IntStore = (*MemoryStore)(nil)

// MemoryStore keeps values for the lifetime of the process. Safe for
// concurrent access.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]int
	closed bool
	log    *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]int),
		log:    log,
	}
}

// LoadInt returns the value saved under key.
func (s *MemoryStore) LoadInt(ctx context.Context, key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, false, domain.ErrClosed
	}
	v, ok := s.values[key]
	if !ok {
		s.log.Debug("memory store: %s not set", key)
	}
	return v, ok, nil
}

// SaveInt stores value under key, overwriting any previous value.
func (s *MemoryStore) SaveInt(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}
	s.log.Debug("memory store: %s = %d", key, value)
	s.values[key] = value
	return nil
}

// Close marks the store closed. Later calls fail with domain.ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
