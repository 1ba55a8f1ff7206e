// Package extraction turns free learner text into an intent and the canonical
// concept and problem identifiers it mentions.
//
// Matching runs against ordered alias tables. An alias that appears verbatim in
// the normalized text is an exact match with confidence 1.0; otherwise the best
// partial-ratio score across the aliases is accepted as a fuzzy match when it
// reaches the threshold.
package extraction

import (
	"log/slog"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/models"
	"github.com/nvandessel/dsa-sensei/internal/similarity"
)

// Extractor matches text against a concept and a problem alias table.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	concepts  models.AliasTable
	problems  models.AliasTable
	fuzzy     bool
	threshold float64
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFuzzyThreshold sets the minimum fuzzy score (0.0-1.0) for a match.
func WithFuzzyThreshold(threshold float64) Option {
	return func(e *Extractor) {
		e.threshold = threshold
	}
}

// WithFuzzy enables or disables fuzzy matching in Process.
// ClassifyIntent always uses exact matching only.
func WithFuzzy(enabled bool) Option {
	return func(e *Extractor) {
		e.fuzzy = enabled
	}
}

// WithLogger sets the logger used for match diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor over the given alias tables. Phrases are
// lowercased and empty phrases dropped; the caller's tables are not modified.
func NewExtractor(concepts, problems models.AliasTable, opts ...Option) *Extractor {
	e := &Extractor{
		concepts:  prepareTable(concepts),
		problems:  prepareTable(problems),
		fuzzy:     true,
		threshold: constants.DefaultFuzzyThreshold,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func prepareTable(table models.AliasTable) models.AliasTable {
	out := make(models.AliasTable, 0, len(table))
	for _, entry := range table {
		id := models.NormalizeID(entry.ID)
		if id == "" {
			continue
		}
		phrases := make([]string, 0, len(entry.Phrases))
		for _, p := range entry.Phrases {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				phrases = append(phrases, p)
			}
		}
		out = append(out, models.AliasEntry{ID: id, Phrases: phrases})
	}
	return out
}

// ConceptAliases returns the concept alias table in use.
func (e *Extractor) ConceptAliases() models.AliasTable { return e.concepts }

// ProblemAliases returns the problem alias table in use.
func (e *Extractor) ProblemAliases() models.AliasTable { return e.problems }

// Extract finds every identifier of table mentioned in text. Each identifier
// yields at most one result, and an exact match always wins over a fuzzy one.
// Results follow table order.
func (e *Extractor) Extract(text string, table models.AliasTable, fuzzy bool) []models.ExtractionResult {
	normalized := Normalize(text)

	var results []models.ExtractionResult
	index := make(map[string]int)

	keep := func(r models.ExtractionResult) {
		if i, ok := index[r.ID]; ok {
			if r.Confidence > results[i].Confidence {
				results[i] = r
			}
			return
		}
		index[r.ID] = len(results)
		results = append(results, r)
	}

	for _, entry := range table {
		if r, ok := exactMatch(normalized, entry); ok {
			keep(r)
			continue
		}
		if !fuzzy || normalized == "" {
			continue
		}
		alias, score, idx := similarity.BestMatch(normalized, entry.Phrases)
		if idx < 0 || score < e.threshold {
			continue
		}
		e.logger.Debug("fuzzy match accepted",
			"id", entry.ID, "alias", alias, "score", score, "text", normalized)
		keep(models.ExtractionResult{
			ID:          entry.ID,
			MatchedText: alias,
			Confidence:  score,
			Method:      models.MatchFuzzy,
		})
	}

	return results
}

func exactMatch(normalized string, entry models.AliasEntry) (models.ExtractionResult, bool) {
	for _, phrase := range entry.Phrases {
		if phrase != "" && strings.Contains(normalized, phrase) {
			return models.ExtractionResult{
				ID:          entry.ID,
				MatchedText: phrase,
				Confidence:  constants.ExactMatchConfidence,
				Method:      models.MatchExact,
			}, true
		}
	}
	return models.ExtractionResult{}, false
}

// ExtractConcepts runs Extract against the concept table.
func (e *Extractor) ExtractConcepts(text string) []models.ExtractionResult {
	return e.Extract(text, e.concepts, e.fuzzy)
}

// ExtractProblems runs Extract against the problem table.
func (e *Extractor) ExtractProblems(text string) []models.ExtractionResult {
	return e.Extract(text, e.problems, e.fuzzy)
}

// Process runs the full pipeline: intent classification followed by concept
// and problem extraction. It never fails; unrecognized text yields a query
// intent with no identifiers.
func (e *Extractor) Process(text string) models.ProcessResult {
	intent := e.ClassifyIntent(text)
	concepts := e.ExtractConcepts(text)
	problems := e.ExtractProblems(text)

	res := models.ProcessResult{
		Intent:           intent,
		Concepts:         ids(concepts),
		ConceptsDetailed: nonNil(concepts),
		Problems:         ids(problems),
		ProblemsDetailed: nonNil(problems),
		OriginalText:     text,
		CleanedText:      Clean(text),
	}

	e.logger.Debug("processed input",
		"intent", intent, "concepts", res.Concepts, "problems", res.Problems)
	return res
}

func ids(results []models.ExtractionResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func nonNil(results []models.ExtractionResult) []models.ExtractionResult {
	if results == nil {
		return []models.ExtractionResult{}
	}
	return results
}
