// Package similarity provides typo-tolerant string scoring used to match
// learner text against catalog aliases.
//
// Scores are normalized to [0, 1]. Ratio is the normalized Indel similarity
// (2*LCS / total length); PartialRatio aligns the shorter string against every
// window of the longer one so that an alias embedded in a long sentence still
// scores highly.
package similarity

// Ratio returns the normalized Indel similarity of a and b.
// Two empty strings are identical (1.0).
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and any
// same-length window of the longer one, including the partial windows that
// overhang either edge. Returns 0.0 if either string is empty.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	if len(ra) > len(rb) {
		return partialRatio(rb, ra)
	}
	if len(ra) == len(rb) {
		return max(partialRatio(ra, rb), partialRatio(rb, ra))
	}
	return partialRatio(ra, rb)
}

// BestMatch scores query against every choice with PartialRatio and returns
// the highest-scoring choice, its score, and its index. The first choice wins
// ties. Returns index -1 when choices is empty.
func BestMatch(query string, choices []string) (string, float64, int) {
	best, bestScore, bestIdx := "", 0.0, -1
	for i, c := range choices {
		score := PartialRatio(query, c)
		if bestIdx == -1 || score > bestScore {
			best, bestScore, bestIdx = c, score, i
		}
	}
	return best, bestScore, bestIdx
}

// partialRatio assumes len(short) <= len(long) and both are non-empty.
func partialRatio(short, long []rune) float64 {
	m, n := len(short), len(long)
	best := 0.0

	// Windows that overhang the left edge.
	for i := 1; i < m; i++ {
		if s := ratio(short, long[:i]); s > best {
			best = s
		}
	}

	for i := 0; i+m <= n; i++ {
		if s := ratio(short, long[i:i+m]); s > best {
			best = s
			if best == 1.0 {
				return best
			}
		}
	}

	// Windows that overhang the right edge.
	for i := n - m + 1; i < n; i++ {
		if s := ratio(short, long[i:]); s > best {
			best = s
		}
	}

	return best
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return float64(2*lcsLength(a, b)) / float64(total)
}

// lcsLength returns the length of the longest common subsequence of a and b.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
