// Package constants provides named constants used throughout the sensei codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Extraction constants
const (
	// DefaultFuzzyThreshold is the minimum partial-ratio score (0.0-1.0) for a
	// fuzzy alias match to be accepted.
	DefaultFuzzyThreshold = 0.75

	// ExactMatchConfidence is the confidence assigned to exact alias matches.
	ExactMatchConfidence = 1.0
)

// Recommendation limits
const (
	// MaxProblemsToSolve caps eligible problems returned for learned concepts.
	MaxProblemsToSolve = 5

	// MaxSimilarProblems caps declared similar problems after a solve.
	MaxSimilarProblems = 5

	// MaxPatternProblems caps same-pattern problems after a solve.
	MaxPatternProblems = 5

	// MaxNextConceptsAfterSolve caps next concepts suggested after a solve.
	MaxNextConceptsAfterSolve = 5
)

// Rendering limits
const (
	// MaxProblemsPerBand caps problems listed under each difficulty heading.
	MaxProblemsPerBand = 5

	// MaxSimilarListed caps the merged similar/pattern list in solve responses.
	MaxSimilarListed = 6

	// MaxNextConceptsListed caps next concepts mentioned in solve responses.
	MaxNextConceptsListed = 3

	// TipProbability is the chance a motivational tip is appended when tips are enabled.
	TipProbability = 0.5
)

// Suggestions returned with NotFound results.
const (
	ProblemSuggestion = "Try problems like: two_sum, reverse_linked_list, valid_parentheses"
	ConceptSuggestion = "Try concepts like: arrays, recursion, trees, dynamic_programming"
)

// LearningPathNote is attached to a learning path when the search finds no
// concept whose prerequisites are all satisfied.
const LearningPathNote = "All prerequisites already learned or no prerequisites needed"
