// Package knowledge holds the static DSA knowledge graph: the concept
// prerequisite/progression graph, the problem catalog, the pattern index and
// the alias tables used for extraction.
//
// A Graph is built once from a Catalog and never mutated afterwards, so it can
// be shared by any number of goroutines without locking. Nodes reference each
// other by identifier; references to identifiers that are not defined are kept
// as-is and treated as absent by lookups.
package knowledge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nvandessel/dsa-sensei/internal/models"
)

// Catalog is the serialized form of a knowledge graph.
type Catalog struct {
	Concepts       []models.ConceptNode `json:"concepts" yaml:"concepts"`
	Problems       []models.ProblemNode `json:"problems" yaml:"problems"`
	ConceptAliases models.AliasTable    `json:"concept_aliases" yaml:"concept_aliases"`
	ProblemAliases models.AliasTable    `json:"problem_aliases" yaml:"problem_aliases"`
}

// Graph is an immutable, identifier-indexed knowledge graph.
type Graph struct {
	concepts   []models.ConceptNode
	conceptIdx map[string]int
	problems   []models.ProblemNode
	problemIdx map[string]int

	conceptAliases models.AliasTable
	problemAliases models.AliasTable
}

// New builds a Graph from a catalog. All identifiers, including references,
// are normalized. Duplicate identifiers and unknown difficulties are errors;
// dangling references are not.
func New(c Catalog) (*Graph, error) {
	g := &Graph{
		concepts:   make([]models.ConceptNode, 0, len(c.Concepts)),
		conceptIdx: make(map[string]int, len(c.Concepts)),
		problems:   make([]models.ProblemNode, 0, len(c.Problems)),
		problemIdx: make(map[string]int, len(c.Problems)),
	}

	for _, cn := range c.Concepts {
		n := models.ConceptNode{
			ID:            models.NormalizeID(cn.ID),
			Prerequisites: models.NormalizeIDs(cn.Prerequisites),
			NextConcepts:  models.NormalizeIDs(cn.NextConcepts),
			Difficulty:    cn.Difficulty,
		}
		if n.ID == "" {
			return nil, errors.New("concept with empty id")
		}
		if _, dup := g.conceptIdx[n.ID]; dup {
			return nil, fmt.Errorf("duplicate concept %q", n.ID)
		}
		if !n.Difficulty.Valid() {
			return nil, fmt.Errorf("concept %q: invalid difficulty %q", n.ID, n.Difficulty)
		}
		g.conceptIdx[n.ID] = len(g.concepts)
		g.concepts = append(g.concepts, n)
	}

	for _, pn := range c.Problems {
		n := models.ProblemNode{
			ID:         models.NormalizeID(pn.ID),
			Concepts:   models.NormalizeIDs(pn.Concepts),
			Difficulty: pn.Difficulty,
			Pattern:    models.NormalizeID(pn.Pattern),
			Similar:    models.NormalizeIDs(pn.Similar),
		}
		if n.ID == "" {
			return nil, errors.New("problem with empty id")
		}
		if _, dup := g.problemIdx[n.ID]; dup {
			return nil, fmt.Errorf("duplicate problem %q", n.ID)
		}
		if !n.Difficulty.Valid() {
			return nil, fmt.Errorf("problem %q: invalid difficulty %q", n.ID, n.Difficulty)
		}
		g.problemIdx[n.ID] = len(g.problems)
		g.problems = append(g.problems, n)
	}

	g.conceptAliases = cloneAliases(c.ConceptAliases)
	g.problemAliases = cloneAliases(c.ProblemAliases)

	return g, nil
}

// Concept returns the concept with the given canonical identifier.
func (g *Graph) Concept(id string) (models.ConceptNode, bool) {
	i, ok := g.conceptIdx[id]
	if !ok {
		return models.ConceptNode{}, false
	}
	return cloneConcept(g.concepts[i]), true
}

// HasConcept reports whether id names a defined concept.
func (g *Graph) HasConcept(id string) bool {
	_, ok := g.conceptIdx[id]
	return ok
}

// Problem returns the problem with the given canonical identifier.
func (g *Graph) Problem(id string) (models.ProblemNode, bool) {
	i, ok := g.problemIdx[id]
	if !ok {
		return models.ProblemNode{}, false
	}
	return cloneProblem(g.problems[i]), true
}

// HasProblem reports whether id names a catalog problem.
func (g *Graph) HasProblem(id string) bool {
	_, ok := g.problemIdx[id]
	return ok
}

// Concepts returns every concept in catalog order.
func (g *Graph) Concepts() []models.ConceptNode {
	out := make([]models.ConceptNode, len(g.concepts))
	for i, c := range g.concepts {
		out[i] = cloneConcept(c)
	}
	return out
}

// Problems returns every problem in catalog order.
func (g *Graph) Problems() []models.ProblemNode {
	out := make([]models.ProblemNode, len(g.problems))
	for i, p := range g.problems {
		out[i] = cloneProblem(p)
	}
	return out
}

// SamePattern returns the identifiers of problems tagged with pattern, in
// catalog order, leaving out excluding.
func (g *Graph) SamePattern(pattern, excluding string) []string {
	var ids []string
	for _, p := range g.problems {
		if p.Pattern == pattern && p.ID != excluding {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ConceptAliases returns the concept alias table.
func (g *Graph) ConceptAliases() models.AliasTable { return cloneAliases(g.conceptAliases) }

// ProblemAliases returns the problem alias table.
func (g *Graph) ProblemAliases() models.AliasTable { return cloneAliases(g.problemAliases) }

// Catalog returns a copy of the graph in its serialized form.
func (g *Graph) Catalog() Catalog {
	return Catalog{
		Concepts:       g.Concepts(),
		Problems:       g.Problems(),
		ConceptAliases: g.ConceptAliases(),
		ProblemAliases: g.ProblemAliases(),
	}
}

func cloneConcept(c models.ConceptNode) models.ConceptNode {
	c.Prerequisites = slices.Clone(c.Prerequisites)
	c.NextConcepts = slices.Clone(c.NextConcepts)
	return c
}

func cloneProblem(p models.ProblemNode) models.ProblemNode {
	p.Concepts = slices.Clone(p.Concepts)
	p.Similar = slices.Clone(p.Similar)
	return p
}

func cloneAliases(t models.AliasTable) models.AliasTable {
	if t == nil {
		return nil
	}
	out := make(models.AliasTable, len(t))
	for i, e := range t {
		out[i] = models.AliasEntry{ID: models.NormalizeID(e.ID), Phrases: slices.Clone(e.Phrases)}
	}
	return out
}
