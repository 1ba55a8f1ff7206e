package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
)

// MemoryStore keeps a catalog in memory. Used for the embedded default
// catalog and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	catalog knowledge.Catalog
	saved   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewDefaultStore creates an in-memory store holding the embedded catalog.
func NewDefaultStore() (*MemoryStore, error) {
	g, err := knowledge.Default()
	if err != nil {
		return nil, fmt.Errorf("loading embedded catalog: %w", err)
	}
	return &MemoryStore{catalog: g.Catalog(), saved: true}, nil
}

// Load returns a copy of the stored catalog.
func (s *MemoryStore) Load(ctx context.Context) (knowledge.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return knowledge.Catalog{}, ErrNoCatalog
	}
	return canonical(s.catalog)
}

// Save replaces the stored catalog.
func (s *MemoryStore) Save(ctx context.Context, c knowledge.Catalog) error {
	normalized, err := canonical(c)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = normalized
	s.saved = true
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
