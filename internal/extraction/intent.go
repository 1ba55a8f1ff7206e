package extraction

import (
	"regexp"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/models"
)

var learnedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(learned|learning|studied|know|understand)\b.*\b(about|concept|topic)\b`),
	regexp.MustCompile(`\bfinished learning\b`),
	regexp.MustCompile(`\bcompleted.*concept\b`),
}

var solvedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(solved|completed|finished|did)\b.*\b(problem|question|challenge)\b`),
	regexp.MustCompile(`\b(solved|completed|finished)\b.*\b(leetcode|lc)\b`),
	regexp.MustCompile(`\bjust (solved|completed|finished)\b`),
}

var goalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(learn|study|master|get to)\b.*\b(concept|algorithm|topic|dsa|problem)\b`),
	regexp.MustCompile(`\b(how do i|what is the path to|path to)\b`),
	regexp.MustCompile(`\b(teach me|guide me to)\b`),
}

// goalPhrasePattern locates goal phrases inside cleaned text.
var goalPhrasePattern = regexp.MustCompile(`\b(learn|study|master|get to|what is the path to|path to|how do i|teach me|guide me to)\b`)

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ClassifyIntent decides whether text reports a learned concept, a solved
// problem, or neither. The learned and solved phrase patterns are checked
// first, in that order. Otherwise an exact-only problem match implies
// solved_problem and an exact-only concept match implies learned_concept.
func (e *Extractor) ClassifyIntent(text string) models.Intent {
	lower := strings.ToLower(text)

	if matchAny(learnedPatterns, lower) {
		return models.IntentLearnedConcept
	}
	if matchAny(solvedPatterns, lower) {
		return models.IntentSolvedProblem
	}

	if len(e.Extract(text, e.problems, false)) > 0 {
		return models.IntentSolvedProblem
	}
	if len(e.Extract(text, e.concepts, false)) > 0 {
		return models.IntentLearnedConcept
	}
	return models.IntentQuery
}

// DetectGoal reports whether text asks how to reach a topic, e.g.
// "what is the path to graphs" or "teach me dynamic programming".
func DetectGoal(text string) bool {
	return matchAny(goalPatterns, strings.ToLower(text))
}

// GoalSpan returns the byte offsets in cleaned text where the first goal
// phrase starts and the last one ends, or -1, -1 when there is none.
// Concepts mentioned after end are what the learner is asking about.
func GoalSpan(cleaned string) (start, end int) {
	matches := goalPhrasePattern.FindAllStringIndex(cleaned, -1)
	if len(matches) == 0 {
		return -1, -1
	}
	return matches[0][0], matches[len(matches)-1][1]
}
