package models

// Intent is the classified purpose of a learner's statement.
type Intent string

const (
	IntentLearnedConcept Intent = "learned_concept"
	IntentSolvedProblem  Intent = "solved_problem"
	IntentQuery          Intent = "query"
)

// MatchMethod records how an identifier was matched in text.
type MatchMethod string

const (
	MatchExact MatchMethod = "exact"
	MatchFuzzy MatchMethod = "fuzzy"
)

// ExtractionResult is one identifier found in a piece of text.
type ExtractionResult struct {
	ID          string      `json:"id"`
	MatchedText string      `json:"matched_text"`
	Confidence  float64     `json:"confidence"` // 0.0-1.0
	Method      MatchMethod `json:"method"`
}

// ProcessResult is the output of running the full extraction pipeline over
// raw learner text.
type ProcessResult struct {
	Intent           Intent             `json:"intent"`
	Concepts         []string           `json:"concepts"`
	ConceptsDetailed []ExtractionResult `json:"concepts_detailed"`
	Problems         []string           `json:"problems"`
	ProblemsDetailed []ExtractionResult `json:"problems_detailed"`
	OriginalText     string             `json:"original_text"`
	CleanedText      string             `json:"cleaned_text"`
}
