package models

import "fmt"

// ResultKind discriminates the concrete type behind a Result.
type ResultKind string

const (
	KindConceptRecommendation ResultKind = "concept_recommendation"
	KindProblemRecommendation ResultKind = "problem_recommendation"
	KindLearningPath          ResultKind = "learning_path"
	KindNotFound              ResultKind = "not_found"
)

// Result is a recommendation outcome ready to be rendered. It is implemented
// by *ConceptRecommendation, *ProblemRecommendation, *LearningPath and
// *NotFound.
type Result interface {
	Kind() ResultKind
}

// ProblemSummary is the slice of a ProblemNode that responses display.
type ProblemSummary struct {
	ID         string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	Concepts   []string   `json:"concepts"`
	Pattern    string     `json:"pattern,omitempty"`
}

// SummarizeProblem builds a ProblemSummary from a catalog node.
func SummarizeProblem(p ProblemNode) ProblemSummary {
	return ProblemSummary{
		ID:         p.ID,
		Difficulty: p.Difficulty,
		Concepts:   append([]string(nil), p.Concepts...),
		Pattern:    p.Pattern,
	}
}

// ConceptRecommendation answers "I learned these concepts".
// Difficulty is empty when no next concept was recommended.
type ConceptRecommendation struct {
	NextConcepts    []string         `json:"next_concepts"`
	ProblemsToSolve []ProblemSummary `json:"problems_to_solve"`
	LearnedConcepts []string         `json:"learned_concepts"`
	Difficulty      Difficulty       `json:"difficulty,omitempty"`
}

func (*ConceptRecommendation) Kind() ResultKind { return KindConceptRecommendation }

// ProblemRecommendation answers "I solved this problem".
// Difficulty is the solved problem's own difficulty.
type ProblemRecommendation struct {
	Problem              string           `json:"problem"`
	ConceptsLearned      []string         `json:"concepts_learned"`
	SimilarProblems      []ProblemSummary `json:"similar_problems"`
	PatternBasedProblems []ProblemSummary `json:"pattern_based_problems"`
	NextConcepts         []string         `json:"next_concepts"`
	Pattern              string           `json:"pattern"`
	Difficulty           Difficulty       `json:"difficulty"`
}

func (*ProblemRecommendation) Kind() ResultKind { return KindProblemRecommendation }

// LearningPath is an ordered route from a satisfied concept toward Goal.
// It is not guaranteed to cover every unmet prerequisite of Goal.
type LearningPath struct {
	Path         []string `json:"learning_path"`
	CurrentLevel []string `json:"current_level"`
	Goal         string   `json:"goal"`
	Note         string   `json:"note,omitempty"`
}

func (*LearningPath) Kind() ResultKind { return KindLearningPath }

// NotFoundKind says what kind of subject was missing.
type NotFoundKind string

const (
	NotFoundProblem NotFoundKind = "problem"
	NotFoundConcept NotFoundKind = "concept"
)

// NotFound reports a requested problem or goal concept missing from the
// catalog. It is both a renderable Result and an error. An empty
// recommendation is never a NotFound.
type NotFound struct {
	Subject    string       `json:"subject"`
	What       NotFoundKind `json:"what"`
	Suggestion string       `json:"suggestion"`
}

func (*NotFound) Kind() ResultKind { return KindNotFound }

// Error implements error.
func (e *NotFound) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.What, e.Subject)
}
