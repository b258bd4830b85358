package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.IntStore = (*YAMLStore)(nil)

// YAMLStore keeps values as a flat YAML mapping in one file. The file is
// read once when the store opens and rewritten on every save.
type YAMLStore struct {
	mu     sync.Mutex
	path   string
	values map[string]int
	closed bool
	log    *logger.Logger
}

// NewYAMLStore opens the store at path. A missing file is an empty store.
func NewYAMLStore(path string, log *logger.Logger) (*YAMLStore, error) {
	s := &YAMLStore{
		path:   path,
		values: make(map[string]int),
		log:    log,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("yaml store: %s does not exist yet", path)
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &s.values); err != nil {
		return nil, fmt.Errorf("parse state yaml: %w", err)
	}
	if s.values == nil {
		s.values = make(map[string]int)
	}
	log.Debug("yaml store: loaded %d values from %s", len(s.values), path)
	return s, nil
}

// LoadInt returns the value saved under key.
func (s *YAMLStore) LoadInt(ctx context.Context, key string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false, domain.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// SaveInt stores value under key and rewrites the file.
func (s *YAMLStore) SaveInt(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	s.log.Debug("yaml store: %s = %d", key, value)
	return nil
}

// Close marks the store closed.
func (s *YAMLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// flush writes through a temp file so a crash never leaves half a file.
func (s *YAMLStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	serialized, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
