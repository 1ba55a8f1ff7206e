package mcp

import (
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

// SenseiProcessInput defines the input for sensei_process tool.
type SenseiProcessInput struct {
	Text string `json:"text" jsonschema:"The learner's statement, e.g. 'I just learned binary search'"`
}

// SenseiProcessOutput defines the output for sensei_process tool.
type SenseiProcessOutput struct {
	Intent           models.Intent             `json:"intent" jsonschema:"Classified intent: learned_concept, solved_problem or query"`
	Concepts         []string                  `json:"concepts" jsonschema:"Canonical concept identifiers found in the text"`
	ConceptsDetailed []models.ExtractionResult `json:"concepts_detailed" jsonschema:"Concept matches with method and confidence"`
	Problems         []string                  `json:"problems" jsonschema:"Canonical problem identifiers found in the text"`
	ProblemsDetailed []models.ExtractionResult `json:"problems_detailed" jsonschema:"Problem matches with method and confidence"`
	CleanedText      string                    `json:"cleaned_text" jsonschema:"Lowercased text with punctuation removed"`
}

// SenseiNextInput defines the input for sensei_next tool.
type SenseiNextInput struct {
	Concepts []string `json:"concepts" jsonschema:"Concepts the learner has learned, by name or identifier"`
}

// SenseiNextOutput defines the output for sensei_next tool.
type SenseiNextOutput struct {
	Recommendation *models.ConceptRecommendation `json:"recommendation" jsonschema:"Next concepts and practice problems"`
	Message        string                        `json:"message" jsonschema:"Rendered reply for the learner"`
}

// SenseiSolvedInput defines the input for sensei_solved tool.
type SenseiSolvedInput struct {
	Problem string `json:"problem" jsonschema:"The solved problem, by name or identifier (e.g. 'two sum')"`
}

// SenseiSolvedOutput defines the output for sensei_solved tool. Exactly one
// of Recommendation and NotFound is set.
type SenseiSolvedOutput struct {
	Recommendation *models.ProblemRecommendation `json:"recommendation,omitempty" jsonschema:"Follow-up problems and concepts"`
	NotFound       *models.NotFound              `json:"not_found,omitempty" jsonschema:"Set when the problem is not in the catalog"`
	Message        string                        `json:"message" jsonschema:"Rendered reply for the learner"`
}

// SenseiPathInput defines the input for sensei_path tool.
type SenseiPathInput struct {
	Current []string `json:"current,omitempty" jsonschema:"Concepts the learner already knows"`
	Goal    string   `json:"goal" jsonschema:"The concept the learner wants to reach (e.g. 'graphs')"`
}

// SenseiPathOutput defines the output for sensei_path tool. Exactly one of
// Path and NotFound is set.
type SenseiPathOutput struct {
	Path     *models.LearningPath `json:"path,omitempty" jsonschema:"Ordered concepts ending at the goal"`
	NotFound *models.NotFound     `json:"not_found,omitempty" jsonschema:"Set when the goal is not in the catalog"`
	Message  string               `json:"message" jsonschema:"Rendered reply for the learner"`
}

// SenseiChatInput defines the input for sensei_chat tool.
type SenseiChatInput struct {
	Text  string   `json:"text" jsonschema:"The learner's statement"`
	Known []string `json:"known,omitempty" jsonschema:"Concepts the learner already knows"`
}

// SenseiChatOutput defines the output for sensei_chat tool.
type SenseiChatOutput struct {
	RequestID  string            `json:"request_id" jsonschema:"Identifier of this reply in decision traces"`
	Intent     models.Intent     `json:"intent" jsonschema:"Classified intent of the statement"`
	ResultKind string            `json:"result_kind" jsonschema:"Kind of answer: concept_recommendation, problem_recommendation, learning_path, not_found or clarification"`
	Difficulty models.Difficulty `json:"difficulty,omitempty" jsonschema:"Difficulty of the solved problem, for solved_problem replies"`
	Message    string            `json:"message" jsonschema:"Rendered reply for the learner"`
}

// SenseiValidateInput defines the input for sensei_validate tool.
type SenseiValidateInput struct{}

// SenseiValidateOutput defines the output for sensei_validate tool.
type SenseiValidateOutput struct {
	Valid   bool                        `json:"valid" jsonschema:"Whether the catalog has no issues"`
	Errors  []knowledge.ValidationError `json:"errors" jsonschema:"Dangling references, self-references and prerequisite cycles"`
	Message string                      `json:"message" jsonschema:"Human-readable summary"`
}

// SenseiGraphInput defines the input for sensei_graph tool.
type SenseiGraphInput struct {
	Format          string   `json:"format,omitempty" jsonschema:"Output format: 'dot' or 'json' (default: 'json')"`
	IncludeProblems bool     `json:"include_problems,omitempty" jsonschema:"Include problem nodes and their edges"`
	Highlight       []string `json:"highlight,omitempty" jsonschema:"Concepts to outline, e.g. a learning path"`
}

// SenseiGraphOutput defines the output for sensei_graph tool.
type SenseiGraphOutput struct {
	Format    string `json:"format" jsonschema:"Format of the rendered graph"`
	Graph     any    `json:"graph" jsonschema:"DOT source or JSON nodes and edges"`
	NodeCount int    `json:"node_count" jsonschema:"Number of nodes"`
	EdgeCount int    `json:"edge_count" jsonschema:"Number of edges"`
}
