package respond

import (
	"strings"
	"unicode"

	"github.com/nvandessel/dsa-sensei/internal/models"
)

// DisplayName turns an identifier like "two_sum" into "Two Sum". Each run of
// letters starts uppercase and continues lowercase, so "1d_dp" becomes
// "1D Dp".
func DisplayName(id string) string {
	s := strings.ReplaceAll(id, "_", " ")
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// JoinNames formats identifiers as a natural list:
// "A", "A and B", "A, B, and C".
func JoinNames(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = DisplayName(id)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

// difficultyLabel capitalizes a difficulty: "medium" becomes "Medium".
func difficultyLabel(d models.Difficulty) string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func difficultyMarker(d models.Difficulty) string {
	switch d {
	case models.DifficultyEasy:
		return "🟢"
	case models.DifficultyMedium:
		return "🟡"
	}
	return "🔴"
}
