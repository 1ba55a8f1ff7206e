package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var loadDefault = sync.OnceValues(func() (*Graph, error) {
	return Parse(defaultCatalog)
})

// Default returns the graph built from the embedded default catalog.
// The graph is parsed once and shared.
func Default() (*Graph, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded catalog is invalid.
func MustDefault() *Graph {
	g, err := Default()
	if err != nil {
		panic(fmt.Sprintf("knowledge: embedded catalog: %v", err))
	}
	return g
}

// DefaultCatalogYAML returns the raw embedded catalog.
func DefaultCatalogYAML() []byte {
	return bytes.Clone(defaultCatalog)
}

// Parse decodes a YAML catalog and builds a Graph from it.
// Unknown fields are rejected.
func Parse(data []byte) (*Graph, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(c)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// EncodeYAML encodes the graph back into catalog YAML.
func (g *Graph) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(g.Catalog()); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
