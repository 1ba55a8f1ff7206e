// Package coach turns a learner's free-text statement into a rendered reply.
//
// It chains extraction, recommendation and rendering the way the chat flow
// does: learned concepts get next-concept advice, solved problems get
// follow-up problems, and goal questions get a learning path. Each reply is
// traced through the decision logger and counted in Prometheus metrics.
package coach

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/dsa-sensei/internal/extraction"
	"github.com/nvandessel/dsa-sensei/internal/logging"
	"github.com/nvandessel/dsa-sensei/internal/metrics"
	"github.com/nvandessel/dsa-sensei/internal/models"
	"github.com/nvandessel/dsa-sensei/internal/recommend"
	"github.com/nvandessel/dsa-sensei/internal/respond"
)

// Fixed messages for statements that cannot be answered with a recommendation.
const (
	ClarifyMessage        = "I'm not quite sure how to help with that. Could you provide more details?"
	ClarifyProblemMessage = "Nice work! Which problem did you solve? Try naming it, like \"I solved two sum\"."
)

// Reply is the coach's answer to one statement.
type Reply struct {
	RequestID string        `json:"request_id"`
	Intent    models.Intent `json:"intent"`
	Message   string        `json:"message"`
	// Difficulty is set only for solved problems and grades the solve for
	// experience-point policies.
	Difficulty models.Difficulty `json:"difficulty,omitempty"`
	Result     models.Result     `json:"result,omitempty"`
}

// Coach answers learner statements. It is safe for concurrent use.
type Coach struct {
	extractor *extraction.Extractor
	engine    *recommend.Engine
	renderer  *respond.Renderer
	logger    *slog.Logger
	decisions *logging.DecisionLogger
}

// Option configures a Coach.
type Option func(*Coach)

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coach) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDecisionLogger traces every reply to decisions.jsonl. A nil logger is allowed.
func WithDecisionLogger(dl *logging.DecisionLogger) Option {
	return func(c *Coach) {
		c.decisions = dl
	}
}

// New creates a Coach from its three stages.
func New(extractor *extraction.Extractor, engine *recommend.Engine, renderer *respond.Renderer, opts ...Option) *Coach {
	c := &Coach{
		extractor: extractor,
		engine:    engine,
		renderer:  renderer,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply answers text. known lists concepts the learner already has; they
// count as learned for next-concept advice and as the starting point of
// learning paths. Goal questions ("how do I get to graphs") that name a
// concept are answered with a learning path whatever their intent, unless
// they report a solved problem.
func (c *Coach) Reply(text string, known []string) Reply {
	start := time.Now()

	processed := c.extractor.Process(text)
	reply := Reply{
		RequestID: uuid.NewString(),
		Intent:    processed.Intent,
	}

	switch {
	case processed.Intent != models.IntentSolvedProblem && extraction.DetectGoal(text) && len(processed.Concepts) > 0:
		goal, stated := goalConcept(processed, known)
		current := append(append([]string(nil), known...), stated...)
		c.answer(&reply, func() (models.Result, error) {
			return c.engine.LearningPath(current, goal)
		})

	case processed.Intent == models.IntentLearnedConcept:
		learned := append(append([]string(nil), processed.Concepts...), known...)
		rec := c.engine.RecommendFromConcepts(learned)
		reply.Result = rec
		reply.Message = c.renderer.Render(rec)

	case processed.Intent == models.IntentSolvedProblem:
		if len(processed.Problems) == 0 {
			reply.Message = ClarifyProblemMessage
			break
		}
		c.answer(&reply, func() (models.Result, error) {
			return c.engine.RecommendFromProblem(processed.Problems[0])
		})
		if rec, ok := reply.Result.(*models.ProblemRecommendation); ok {
			reply.Difficulty = rec.Difficulty
		}

	default:
		reply.Message = ClarifyMessage
	}

	elapsed := time.Since(start)
	c.record(reply, processed, known, text, elapsed)
	return reply
}

// LearnedConcepts returns the concepts a reply established as learned: the
// learned set of a concept recommendation or the concepts practiced by a
// solved problem. Other replies return nil.
func LearnedConcepts(reply Reply) []string {
	switch res := reply.Result.(type) {
	case *models.ConceptRecommendation:
		if res != nil {
			return res.LearnedConcepts
		}
	case *models.ProblemRecommendation:
		if res != nil {
			return res.ConceptsLearned
		}
	}
	return nil
}

// knownPattern marks a clause that reports concepts as already known,
// as in "I know arrays, how do I get to graphs".
var knownPattern = regexp.MustCompile(`\b(know|knew|learned|learnt|understand|studied|finished|completed)\b`)

// goalConcept picks the concept a goal question asks about. Exact matches
// after the goal phrase win, earliest first; then any exact match; then the
// most confident fuzzy match. Concepts in known are skipped unless nothing
// else is left. Concepts mentioned before the goal phrase in a clause that
// reports knowledge are returned as stated so they count as learned.
func goalConcept(processed models.ProcessResult, known []string) (goal string, stated []string) {
	cleaned := processed.CleanedText
	start, end := extraction.GoalSpan(cleaned)

	have := make(map[string]bool, len(known))
	for _, k := range known {
		have[models.NormalizeID(k)] = true
	}

	position := func(r models.ExtractionResult) int {
		if r.Method != models.MatchExact {
			return -1
		}
		return strings.Index(cleaned, r.MatchedText)
	}

	if start > 0 && knownPattern.MatchString(cleaned[:start]) {
		for _, r := range processed.ConceptsDetailed {
			if pos := position(r); pos >= 0 && pos < start && !have[r.ID] {
				stated = append(stated, r.ID)
				have[r.ID] = true
			}
		}
	}

	var afterGoal, exact, fuzzy *models.ExtractionResult
	afterPos, exactPos := -1, -1
	for i := range processed.ConceptsDetailed {
		r := &processed.ConceptsDetailed[i]
		if have[r.ID] {
			continue
		}
		pos := position(*r)
		switch {
		case pos >= 0 && end >= 0 && pos >= end:
			if afterGoal == nil || pos < afterPos {
				afterGoal, afterPos = r, pos
			}
		case r.Method == models.MatchExact:
			if exact == nil || (pos >= 0 && (exactPos < 0 || pos < exactPos)) {
				exact, exactPos = r, pos
			}
		default:
			if fuzzy == nil || r.Confidence > fuzzy.Confidence {
				fuzzy = r
			}
		}
	}

	switch {
	case afterGoal != nil:
		return afterGoal.ID, stated
	case exact != nil:
		return exact.ID, stated
	case fuzzy != nil:
		return fuzzy.ID, stated
	}
	if len(processed.ConceptsDetailed) > 0 {
		return processed.ConceptsDetailed[0].ID, stated
	}
	return processed.Concepts[0], stated
}

// answer runs an engine call that may report a missing subject and renders
// whichever result it produced.
func (c *Coach) answer(reply *Reply, call func() (models.Result, error)) {
	result, err := call()
	if err != nil {
		var nf *models.NotFound
		if !errors.As(err, &nf) {
			c.logger.Error("recommendation failed", "request_id", reply.RequestID, "error", err)
			reply.Message = ClarifyMessage
			return
		}
		result = nf
	}
	reply.Result = result
	reply.Message = c.renderer.Render(result)
}

func (c *Coach) record(reply Reply, processed models.ProcessResult, known []string, text string, elapsed time.Duration) {
	kind := "clarification"
	if reply.Result != nil {
		kind = string(reply.Result.Kind())
	}

	metrics.RecordIntent(string(reply.Intent))
	for _, r := range processed.ConceptsDetailed {
		metrics.RecordExtraction("concept", string(r.Method))
	}
	for _, r := range processed.ProblemsDetailed {
		metrics.RecordExtraction("problem", string(r.Method))
	}
	metrics.RecordRecommendation(kind)
	metrics.ObserveReply(elapsed)

	c.logger.Debug("reply",
		"request_id", reply.RequestID,
		"intent", reply.Intent,
		"concepts", processed.Concepts,
		"problems", processed.Problems,
		"result", kind,
	)
	c.logger.Log(context.Background(), logging.LevelTrace, "reply text", "request_id", reply.RequestID, "text", text)

	c.decisions.LogDecision(logging.Decision{
		RequestID:  reply.RequestID,
		Intent:     string(reply.Intent),
		Concepts:   processed.Concepts,
		Problems:   processed.Problems,
		Known:      known,
		ResultKind: kind,
		Difficulty: string(reply.Difficulty),
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		Text:       text,
	})
}
