package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// AppName names the per-user config directory.
const AppName = "wristtimer"

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindYAML   = "yaml"
	KindSQLite = "sqlite"
)

// DefaultPath returns <user config dir>/wristtimer/<file>.
func DefaultPath(file string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, file), nil
}

// Open returns the store of the given kind. An empty path picks the
// default location for file-backed kinds.
func Open(kind, path string, log *logger.Logger) (domain.IntStore, error) {
	switch kind {
	case KindMemory, "":
		return NewMemoryStore(log), nil
	case KindYAML:
		p, err := pathOr(path, "state.yaml")
		if err != nil {
			return nil, err
		}
		s, err := NewYAMLStore(p, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindSQLite:
		p, err := pathOr(path, "state.db")
		if err != nil {
			return nil, err
		}
		s, err := NewSQLiteStore(p, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store %q: %w", kind, domain.ErrUnsupported)
	}
}

func pathOr(path, file string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath(file)
}
