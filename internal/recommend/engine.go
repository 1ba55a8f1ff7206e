// Package recommend computes graph-driven recommendations over a knowledge
// graph: next concepts and practice problems for a learned set, follow-ups
// for a solved problem, and learning paths toward a goal concept.
//
// The Engine holds no mutable state. All methods are safe for concurrent use.
package recommend

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

// Engine answers recommendation queries against a Graph.
type Engine struct {
	graph  *knowledge.Graph
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for recommendation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine over graph.
func NewEngine(graph *knowledge.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  graph,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the engine reads from.
func (e *Engine) Graph() *knowledge.Graph { return e.graph }

// learnedSet normalizes identifiers into a set plus its sorted members.
func learnedSet(ids []string) (map[string]bool, []string) {
	set := make(map[string]bool, len(ids))
	for _, id := range models.NormalizeIDs(ids) {
		set[id] = true
	}
	sorted := make([]string, 0, len(set))
	for id := range set {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)
	return set, sorted
}

func allIn(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}

// RecommendFromConcepts suggests what to study and practice after learning
// the given concepts.
//
// A next concept is suggested when a learned concept lists it, it is defined
// in the graph, and every prerequisite it declares is in the learned set. Only
// the candidate's own prerequisites are checked, not their ancestors. Next
// concepts are sorted lexicographically. A problem is eligible when all of its
// concepts are learned; eligible problems are ordered easy to hard, ties in
// catalog order, and capped at constants.MaxProblemsToSolve.
func (e *Engine) RecommendFromConcepts(learned []string) *models.ConceptRecommendation {
	set, sorted := learnedSet(learned)

	candidates := make(map[string]bool)
	for _, id := range sorted {
		node, ok := e.graph.Concept(id)
		if !ok {
			continue
		}
		for _, next := range node.NextConcepts {
			cand, ok := e.graph.Concept(next)
			if !ok {
				continue
			}
			if allIn(cand.Prerequisites, set) {
				candidates[next] = true
			}
		}
	}

	nextConcepts := make([]string, 0, len(candidates))
	for id := range candidates {
		nextConcepts = append(nextConcepts, id)
	}
	slices.Sort(nextConcepts)

	problems := make([]models.ProblemSummary, 0)
	for _, p := range e.graph.Problems() {
		if allIn(p.Concepts, set) {
			problems = append(problems, models.SummarizeProblem(p))
		}
	}
	slices.SortStableFunc(problems, func(a, b models.ProblemSummary) int {
		return a.Difficulty.Rank() - b.Difficulty.Rank()
	})
	if len(problems) > constants.MaxProblemsToSolve {
		problems = problems[:constants.MaxProblemsToSolve]
	}

	rec := &models.ConceptRecommendation{
		NextConcepts:    nextConcepts,
		ProblemsToSolve: problems,
		LearnedConcepts: sorted,
	}
	if len(nextConcepts) > 0 {
		if c, ok := e.graph.Concept(nextConcepts[0]); ok {
			rec.Difficulty = c.Difficulty
		}
	}

	e.logger.Debug("recommended from concepts",
		"learned", sorted, "next_concepts", nextConcepts, "problems", len(problems))
	return rec
}

// RecommendFromProblem suggests follow-ups for a solved problem. It returns a
// *models.NotFound error when the problem is not in the catalog.
//
// Similar problems are the declared similars present in the catalog.
// Pattern-based problems share the solved problem's pattern, excluding the
// problem itself and anything it declares similar. Next concepts come from
// RecommendFromConcepts over the problem's concepts. Difficulty is the solved
// problem's own.
func (e *Engine) RecommendFromProblem(id string) (*models.ProblemRecommendation, error) {
	key := models.NormalizeID(id)
	p, ok := e.graph.Problem(key)
	if !ok {
		e.logger.Debug("problem not found", "problem", id)
		return nil, &models.NotFound{
			Subject:    strings.TrimSpace(id),
			What:       models.NotFoundProblem,
			Suggestion: constants.ProblemSuggestion,
		}
	}

	similar := make([]models.ProblemSummary, 0, len(p.Similar))
	for _, sid := range p.Similar {
		if sp, ok := e.graph.Problem(sid); ok {
			similar = append(similar, models.SummarizeProblem(sp))
		}
	}

	patternBased := make([]models.ProblemSummary, 0)
	for _, pid := range e.graph.SamePattern(p.Pattern, p.ID) {
		if slices.Contains(p.Similar, pid) {
			continue
		}
		if pp, ok := e.graph.Problem(pid); ok {
			patternBased = append(patternBased, models.SummarizeProblem(pp))
		}
	}

	next := e.RecommendFromConcepts(p.Concepts).NextConcepts

	rec := &models.ProblemRecommendation{
		Problem:              p.ID,
		ConceptsLearned:      p.Concepts,
		SimilarProblems:      truncate(similar, constants.MaxSimilarProblems),
		PatternBasedProblems: truncate(patternBased, constants.MaxPatternProblems),
		NextConcepts:         truncate(next, constants.MaxNextConceptsAfterSolve),
		Pattern:              p.Pattern,
		Difficulty:           p.Difficulty,
	}

	e.logger.Debug("recommended from problem",
		"problem", p.ID, "similar", len(rec.SimilarProblems), "pattern_based", len(rec.PatternBasedProblems))
	return rec, nil
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
