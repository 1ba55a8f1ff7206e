// Package store persists knowledge catalogs. A catalog can live in memory
// (the embedded default), in a YAML file, or in a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
)

// ErrNoCatalog is returned by Load when nothing has been saved yet.
var ErrNoCatalog = errors.New("no catalog saved")

// CatalogStore loads and saves a knowledge catalog.
type CatalogStore interface {
	// Load returns the saved catalog in catalog order.
	Load(ctx context.Context) (knowledge.Catalog, error)

	// Save replaces the stored catalog. The catalog must build a valid graph.
	Save(ctx context.Context, c knowledge.Catalog) error

	Close() error
}

// Open selects a store: a SQLite database when database is set, a YAML file
// when path is set, otherwise the embedded default catalog in memory.
func Open(path, database string) (CatalogStore, error) {
	switch {
	case path != "" && database != "":
		return nil, errors.New("catalog path and database are mutually exclusive")
	case database != "":
		return NewSQLiteStore(database)
	case path != "":
		return NewFileStore(path), nil
	default:
		return NewDefaultStore()
	}
}

// LoadGraph loads the catalog from s and builds a graph from it.
func LoadGraph(ctx context.Context, s CatalogStore) (*knowledge.Graph, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	g, err := knowledge.New(c)
	if err != nil {
		return nil, fmt.Errorf("building knowledge graph: %w", err)
	}
	return g, nil
}

// Copy loads from src and saves into dst.
func Copy(ctx context.Context, dst, src CatalogStore) error {
	c, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading source catalog: %w", err)
	}
	if err := dst.Save(ctx, c); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// canonical builds c into a graph and returns the normalized catalog, so
// every store persists identical, validated data.
func canonical(c knowledge.Catalog) (knowledge.Catalog, error) {
	g, err := knowledge.New(c)
	if err != nil {
		return knowledge.Catalog{}, err
	}
	return g.Catalog(), nil
}
