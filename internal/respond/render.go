// Package respond renders recommendation results as encouraging,
// human-sounding text.
//
// Phrases are picked at random from fixed pools, so two renders of the same
// result may differ. The random source is injected through a Picker; tests
// use a deterministic one. Rendering only formats its input and never
// consults the knowledge graph.
package respond

import (
	"fmt"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

// Renderer turns models.Result values into display text.
// It is safe for concurrent use when its Picker is.
type Renderer struct {
	picker Picker
	tips   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPicker sets the random source for phrase selection.
func WithPicker(p Picker) Option {
	return func(r *Renderer) {
		if p != nil {
			r.picker = p
		}
	}
}

// WithTips enables the motivational tip footer on concept and problem
// responses. When enabled, a tip is appended half of the time.
func WithTips(enabled bool) Option {
	return func(r *Renderer) {
		r.tips = enabled
	}
}

// New creates a Renderer. By default phrases are drawn from a uniform source
// and tips are off.
func New(opts ...Option) *Renderer {
	r := &Renderer{picker: uniformPicker{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render formats any result. Unknown or nil results get a general
// encouragement.
func (r *Renderer) Render(result models.Result) string {
	switch res := result.(type) {
	case *models.ConceptRecommendation:
		if res == nil {
			break
		}
		return r.maybeTip(r.ConceptLearned(res))
	case *models.ProblemRecommendation:
		if res == nil {
			break
		}
		return r.maybeTip(r.ProblemSolved(res))
	case *models.LearningPath:
		if res == nil {
			break
		}
		return r.LearningPath(res)
	case *models.NotFound:
		if res == nil {
			break
		}
		return r.NotFound(res)
	}
	return r.Encouragement()
}

// ConceptLearned renders the response to newly learned concepts. Every next
// concept is named; problems are grouped into Easy, Medium and Hard bands.
// A problem without a pattern is listed without the pattern suffix.
func (r *Renderer) ConceptLearned(rec *models.ConceptRecommendation) string {
	if len(rec.LearnedConcepts) == 0 && len(rec.NextConcepts) == 0 && len(rec.ProblemsToSolve) == 0 {
		return pick(r.picker, noRecommendations)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s You've got %s down!", pick(r.picker, conceptIntros), JoinNames(rec.LearnedConcepts))

	if len(rec.NextConcepts) > 0 {
		fmt.Fprintf(&b, "\n\n%s %s.", pick(r.picker, nextConceptPhrases), JoinNames(rec.NextConcepts))
	}

	if len(rec.ProblemsToSolve) == 0 {
		b.WriteString("\n\n" + keepLearningLine)
		return b.String()
	}

	b.WriteString("\n\n" + pick(r.picker, problemPhrases))
	bands := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for _, band := range bands {
		n := 0
		for _, p := range rec.ProblemsToSolve {
			if p.Difficulty != band || n == constants.MaxProblemsPerBand {
				continue
			}
			if n == 0 {
				fmt.Fprintf(&b, "\n\n**%s:**", difficultyLabel(band))
			}
			n++
			fmt.Fprintf(&b, "\n%d. %s", n, DisplayName(p.ID))
			if p.Pattern != "" {
				fmt.Fprintf(&b, " (Pattern: %s)", DisplayName(p.Pattern))
			}
		}
	}
	return b.String()
}

// ProblemSolved renders the response to a solved problem.
func (r *Renderer) ProblemSolved(rec *models.ProblemRecommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s You just solved **%s**!", pick(r.picker, problemSolvedIntros), DisplayName(rec.Problem))

	if len(rec.ConceptsLearned) > 0 {
		fmt.Fprintf(&b, " You practiced %s.", JoinNames(rec.ConceptsLearned))
	}
	if rec.Pattern != "" {
		fmt.Fprintf(&b, " This is a classic **%s** problem.", DisplayName(rec.Pattern))
	}

	merged := make([]models.ProblemSummary, 0, len(rec.SimilarProblems)+len(rec.PatternBasedProblems))
	merged = append(merged, rec.SimilarProblems...)
	merged = append(merged, rec.PatternBasedProblems...)
	if len(merged) > constants.MaxSimilarListed {
		merged = merged[:constants.MaxSimilarListed]
	}
	if len(merged) > 0 {
		b.WriteString("\n\n" + pick(r.picker, similarProblemPhrases))
		for i, p := range merged {
			fmt.Fprintf(&b, "\n%d. %s %s (%s)", i+1, difficultyMarker(p.Difficulty), DisplayName(p.ID), difficultyLabel(p.Difficulty))
		}
	}

	if len(rec.NextConcepts) > 0 {
		next := rec.NextConcepts
		if len(next) > constants.MaxNextConceptsListed {
			next = next[:constants.MaxNextConceptsListed]
		}
		b.WriteString("\n\n" + fmt.Sprintf(nextConceptPrompt, JoinNames(next)))
	}
	return b.String()
}

// LearningPath renders a learning path as a numbered route.
func (r *Renderer) LearningPath(p *models.LearningPath) string {
	var b strings.Builder
	b.WriteString(pathHeader + "\n\n")

	if len(p.CurrentLevel) > 0 {
		fmt.Fprintf(&b, "You already know: %s\n\n", JoinNames(p.CurrentLevel))
	}

	if len(p.Path) > 0 {
		fmt.Fprintf(&b, "To master **%s**, follow this path:\n\n", DisplayName(p.Goal))
		for i, id := range p.Path {
			marker := "📍"
			if i == 0 {
				marker = "✅"
			}
			fmt.Fprintf(&b, "%s %d. %s\n", marker, i+1, DisplayName(id))
		}
		b.WriteString("\n" + pathClosing)
	}

	if p.Note != "" {
		fmt.Fprintf(&b, "\n\n💡 %s", p.Note)
	}
	return b.String()
}

// NotFound renders an apology carrying the suggestion.
func (r *Renderer) NotFound(nf *models.NotFound) string {
	if nf.What == models.NotFoundConcept {
		return fmt.Sprintf(conceptNotFound, nf.Subject, nf.Suggestion)
	}
	return fmt.Sprintf(problemNotFound, nf.Suggestion)
}

// Encouragement returns a general encouraging message.
func (r *Renderer) Encouragement() string {
	return pick(r.picker, encouragements)
}

// WithTip appends a random tip to text half of the time.
func (r *Renderer) WithTip(text string) string {
	if r.picker.Float64() > constants.TipProbability {
		return text + "\n\n💡 **Tip:** " + pick(r.picker, tips)
	}
	return text
}

func (r *Renderer) maybeTip(text string) string {
	if !r.tips {
		return text
	}
	return r.WithTip(text)
}
