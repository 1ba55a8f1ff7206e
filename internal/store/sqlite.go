package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

// Edge kinds stored in the edges table.
const (
	edgePrerequisite = "prerequisite"
	edgeNext         = "next"
	edgeConcept      = "concept"
	edgeSimilar      = "similar"
)

// Alias table names stored in alias_entries.
const (
	aliasConcept = "concept"
	aliasProblem = "problem"
)

// SQLiteStore implements CatalogStore using SQLite for persistence.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the catalog database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// ContentHash returns the hash of the saved catalog, or ErrNoCatalog.
func (s *SQLiteStore) ContentHash(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentHash(ctx)
}

func (s *SQLiteStore) contentHash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM catalog_state WHERE id = 1`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCatalog
	}
	if err != nil {
		return "", fmt.Errorf("failed to read catalog state: %w", err)
	}
	return hash, nil
}

// hashCatalog returns a stable content hash of a normalized catalog.
func hashCatalog(c knowledge.Catalog) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Save replaces the stored catalog in a single transaction. Saving a catalog
// identical to the stored one is a no-op.
func (s *SQLiteStore) Save(ctx context.Context, c knowledge.Catalog) error {
	normalized, err := canonical(c)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	hash, err := hashCatalog(normalized)
	if err != nil {
		return fmt.Errorf("failed to hash catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, err := s.contentHash(ctx); err == nil && current == hash {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"alias_phrases", "alias_entries", "edges", "problems", "concepts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, cn := range normalized.Concepts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO concepts (id, position, difficulty) VALUES (?, ?, ?)`,
			cn.ID, i, string(cn.Difficulty)); err != nil {
			return fmt.Errorf("failed to insert concept %s: %w", cn.ID, err)
		}
		if err := insertEdges(ctx, tx, cn.ID, edgePrerequisite, cn.Prerequisites); err != nil {
			return err
		}
		if err := insertEdges(ctx, tx, cn.ID, edgeNext, cn.NextConcepts); err != nil {
			return err
		}
	}

	for i, pn := range normalized.Problems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO problems (id, position, difficulty, pattern) VALUES (?, ?, ?, ?)`,
			pn.ID, i, string(pn.Difficulty), pn.Pattern); err != nil {
			return fmt.Errorf("failed to insert problem %s: %w", pn.ID, err)
		}
		if err := insertEdges(ctx, tx, pn.ID, edgeConcept, pn.Concepts); err != nil {
			return err
		}
		if err := insertEdges(ctx, tx, pn.ID, edgeSimilar, pn.Similar); err != nil {
			return err
		}
	}

	if err := insertAliases(ctx, tx, aliasConcept, normalized.ConceptAliases); err != nil {
		return err
	}
	if err := insertAliases(ctx, tx, aliasProblem, normalized.ProblemAliases); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO catalog_state (id, content_hash, saved_at) VALUES (1, ?, datetime('now'))`,
		hash); err != nil {
		return fmt.Errorf("failed to record catalog state: %w", err)
	}

	return tx.Commit()
}

func insertEdges(ctx context.Context, tx *sql.Tx, source, kind string, targets []string) error {
	for i, target := range targets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (source, kind, position, target) VALUES (?, ?, ?, ?)`,
			source, kind, i, target); err != nil {
			return fmt.Errorf("failed to insert %s edge %s -> %s: %w", kind, source, target, err)
		}
	}
	return nil
}

func insertAliases(ctx context.Context, tx *sql.Tx, table string, aliases models.AliasTable) error {
	for i, entry := range aliases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO alias_entries (table_name, position, id) VALUES (?, ?, ?)`,
			table, i, entry.ID); err != nil {
			return fmt.Errorf("failed to insert %s alias %s: %w", table, entry.ID, err)
		}
		for j, phrase := range entry.Phrases {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO alias_phrases (table_name, entry_position, position, phrase) VALUES (?, ?, ?, ?)`,
				table, i, j, phrase); err != nil {
				return fmt.Errorf("failed to insert phrase %q for %s: %w", phrase, entry.ID, err)
			}
		}
	}
	return nil
}

// Load reads the stored catalog in catalog order.
func (s *SQLiteStore) Load(ctx context.Context) (knowledge.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.contentHash(ctx); err != nil {
		return knowledge.Catalog{}, err
	}

	edges, err := s.loadEdges(ctx)
	if err != nil {
		return knowledge.Catalog{}, err
	}

	var c knowledge.Catalog

	rows, err := s.db.QueryContext(ctx, `SELECT id, difficulty FROM concepts ORDER BY position`)
	if err != nil {
		return knowledge.Catalog{}, fmt.Errorf("failed to query concepts: %w", err)
	}
	for rows.Next() {
		var n models.ConceptNode
		var difficulty string
		if err := rows.Scan(&n.ID, &difficulty); err != nil {
			rows.Close()
			return knowledge.Catalog{}, fmt.Errorf("failed to scan concept: %w", err)
		}
		n.Difficulty = models.Difficulty(difficulty)
		n.Prerequisites = edges[edgeKey{n.ID, edgePrerequisite}]
		n.NextConcepts = edges[edgeKey{n.ID, edgeNext}]
		c.Concepts = append(c.Concepts, n)
	}
	if err := closeRows(rows); err != nil {
		return knowledge.Catalog{}, fmt.Errorf("failed to read concepts: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, difficulty, pattern FROM problems ORDER BY position`)
	if err != nil {
		return knowledge.Catalog{}, fmt.Errorf("failed to query problems: %w", err)
	}
	for rows.Next() {
		var n models.ProblemNode
		var difficulty string
		if err := rows.Scan(&n.ID, &difficulty, &n.Pattern); err != nil {
			rows.Close()
			return knowledge.Catalog{}, fmt.Errorf("failed to scan problem: %w", err)
		}
		n.Difficulty = models.Difficulty(difficulty)
		n.Concepts = edges[edgeKey{n.ID, edgeConcept}]
		n.Similar = edges[edgeKey{n.ID, edgeSimilar}]
		c.Problems = append(c.Problems, n)
	}
	if err := closeRows(rows); err != nil {
		return knowledge.Catalog{}, fmt.Errorf("failed to read problems: %w", err)
	}

	if c.ConceptAliases, err = s.loadAliases(ctx, aliasConcept); err != nil {
		return knowledge.Catalog{}, err
	}
	if c.ProblemAliases, err = s.loadAliases(ctx, aliasProblem); err != nil {
		return knowledge.Catalog{}, err
	}

	return c, nil
}

type edgeKey struct {
	source string
	kind   string
}

func (s *SQLiteStore) loadEdges(ctx context.Context) (map[edgeKey][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, kind, target FROM edges ORDER BY source, kind, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	edges := make(map[edgeKey][]string)
	for rows.Next() {
		var k edgeKey
		var target string
		if err := rows.Scan(&k.source, &k.kind, &target); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges[k] = append(edges[k], target)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return edges, nil
}

func (s *SQLiteStore) loadAliases(ctx context.Context, table string) (models.AliasTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.position, e.id, p.phrase
		FROM alias_entries e
		LEFT JOIN alias_phrases p
			ON p.table_name = e.table_name AND p.entry_position = e.position
		WHERE e.table_name = ?
		ORDER BY e.position, p.position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s aliases: %w", table, err)
	}

	var out models.AliasTable
	last := -1
	for rows.Next() {
		var pos int
		var id string
		var phrase sql.NullString
		if err := rows.Scan(&pos, &id, &phrase); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan %s alias: %w", table, err)
		}
		if pos != last {
			out = append(out, models.AliasEntry{ID: id})
			last = pos
		}
		if phrase.Valid {
			out[len(out)-1].Phrases = append(out[len(out)-1].Phrases, phrase.String)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("failed to read %s aliases: %w", table, err)
	}
	return out, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
