package extraction

import (
	"regexp"
	"strings"
)

// nonWordPattern matches every character that is not a word character,
// whitespace or hyphen. Hyphens survive so "two-pointer" stays one token.
// \w is ASCII-only, so accented letters are treated as punctuation.
var nonWordPattern = regexp.MustCompile(`[^\w\s-]`)

// stopTokens are removed as whole tokens after cleaning. Function words that
// appear inside aliases ("to", "of", "in") are deliberately absent.
var stopTokens = map[string]bool{
	"i":          true,
	"ve":         true,
	"have":       true,
	"learned":    true,
	"know":       true,
	"understand": true,
	"solved":     true,
	"completed":  true,
	"finished":   true,
	"about":      true,
	"the":        true,
	"a":          true,
	"an":         true,
	"tell":       true,
	"me":         true,
	"can":        true,
	"you":        true,
	"please":     true,
	"help":       true,
	"explain":    true,
}

// Clean lowercases text, replaces punctuation (except hyphens) with spaces and
// collapses whitespace.
func Clean(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = nonWordPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Normalize cleans text and drops stop tokens. It is idempotent.
func Normalize(text string) string {
	fields := strings.Fields(Clean(text))
	kept := fields[:0]
	for _, f := range fields {
		if !stopTokens[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
