package models

import "strings"

// Difficulty grades a concept or problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank orders difficulties for sorting: easy=0, medium=1, hard=2.
// Unknown difficulties sort after hard.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	}
	return 3
}

// Valid returns true if the difficulty is a recognized value.
func (d Difficulty) Valid() bool {
	return d.Rank() < 3
}

// ConceptNode is a DSA topic in the prerequisite/progression graph.
// Prerequisites and NextConcepts may name concepts that are not defined;
// such references are tolerated and treated as absent.
type ConceptNode struct {
	ID            string     `json:"id" yaml:"id"`
	Prerequisites []string   `json:"prerequisites" yaml:"prerequisites"`
	NextConcepts  []string   `json:"next_concepts" yaml:"next_concepts"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
}

// ProblemNode is a practice problem in the catalog.
type ProblemNode struct {
	ID         string     `json:"id" yaml:"id"`
	Concepts   []string   `json:"concepts" yaml:"concepts"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Pattern    string     `json:"pattern" yaml:"pattern"`
	Similar    []string   `json:"similar" yaml:"similar"`
}

// AliasEntry lists the surface phrases that refer to one canonical identifier.
type AliasEntry struct {
	ID      string   `json:"id" yaml:"id"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// AliasTable maps canonical identifiers to their phrases. It is ordered so
// that extraction output follows catalog order.
type AliasTable []AliasEntry

// IDs returns the canonical identifiers in table order.
func (t AliasTable) IDs() []string {
	ids := make([]string, len(t))
	for i, e := range t {
		ids[i] = e.ID
	}
	return ids
}

// NormalizeID converts free-form names like "Two Sum" or "two-sum" into the
// canonical identifier form "two_sum". Runs of whitespace, hyphens and
// underscores collapse into a single underscore. Canonical identifiers are
// returned unchanged.
func NormalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_':
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeIDs normalizes every identifier, dropping empties.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeID(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}
