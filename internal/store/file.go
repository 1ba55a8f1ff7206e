package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
)

// FileStore keeps a catalog in a YAML file.
// Thread-safe for concurrent access.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by the YAML file at path. The file is
// not read until Load.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load parses the catalog file. A missing file yields ErrNoCatalog.
func (s *FileStore) Load(ctx context.Context) (knowledge.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := knowledge.LoadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return knowledge.Catalog{}, fmt.Errorf("%s: %w", s.path, ErrNoCatalog)
		}
		return knowledge.Catalog{}, err
	}
	return g.Catalog(), nil
}

// Save writes the catalog as YAML. The file is written to a temporary file
// in the same directory and renamed into place.
func (s *FileStore) Save(ctx context.Context, c knowledge.Catalog) error {
	g, err := knowledge.New(c)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	data, err := g.EncodeYAML()
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}

// Close is a no-op; every Save is written through.
func (s *FileStore) Close() error {
	return nil
}
