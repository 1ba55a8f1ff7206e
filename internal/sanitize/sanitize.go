// Package sanitize cleans learner input arriving from MCP clients before it
// reaches extraction or is echoed back in replies. It strips control
// characters and markup and caps lengths, so a statement cannot smuggle
// instructions into the rendered reply an assistant reads.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxTextLength is the maximum allowed length for a learner statement.
const MaxTextLength = 1000

// MaxNameLength is the maximum allowed length for a concept or problem name.
const MaxNameLength = 80

// Pre-compiled regular expressions for performance.
var (
	// reXMLTag matches XML/HTML tags including those with attributes and self-closing tags.
	// It also matches XML processing instructions like <?xml ...?>.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	// reBackticks matches runs of backticks used in code spans and fences.
	reBackticks = regexp.MustCompile("`+")

	// reSpaces matches runs of whitespace.
	reSpaces = regexp.MustCompile(`\s+`)

	// reRepeatedSeparators matches runs of name separators.
	reRepeatedSeparators = regexp.MustCompile(`[-_ ]{2,}`)
)

// LearnerText sanitizes a free-text learner statement.
//
// The pipeline runs in this order:
//  1. Strip null bytes and ASCII control characters
//  2. Strip XML/HTML tags
//  3. Remove backticks
//  4. Collapse whitespace, including newlines, to single spaces
//  5. Trim and truncate to MaxTextLength
func LearnerText(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reBackticks.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if len(s) > MaxTextLength {
		s = truncateRunes(s, MaxTextLength)
	}
	return s
}

// Name sanitizes a concept or problem name such as "Two Sum" or
// "dynamic-programming", keeping only letters, digits, spaces, hyphens and
// underscores. Runs of separators collapse to their first character.
func Name(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == ' ' {
			b.WriteRune(r)
		}
	}
	s := reRepeatedSeparators.ReplaceAllStringFunc(b.String(), func(m string) string {
		return m[:1]
	})
	s = strings.TrimSpace(s)

	if len(s) > MaxNameLength {
		s = strings.TrimSpace(s[:MaxNameLength])
	}
	return s
}

// Names sanitizes each name, dropping those that end up empty.
func Names(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if n := Name(in); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// stripControlChars removes ASCII control characters (0x00-0x1F and DEL),
// keeping newline and tab for the whitespace pass.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// truncateRunes cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
