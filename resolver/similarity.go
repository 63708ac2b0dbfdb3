package resolver

// Similarity scores how alike two strings are, from 0.0 (nothing in common)
// to 1.0 (identical). Implementations must be safe for concurrent use.
type Similarity interface {
	Score(a, b string) float64
}

// LevenshteinSimilarity scores strings by normalized edit distance:
// 1 - distance/maxLen. It is the default strategy for both drug and food
// fuzzy correction.
type LevenshteinSimilarity struct{}

// Score implements the Similarity interface.
func (LevenshteinSimilarity) Score(a, b string) float64 {
	if a == b {
		return 1.0
	}

	// Distance and length are measured in runes, not bytes: the catalog is
	// full of multi-byte Turkish letters and a one-letter typo must count as
	// one edit.
	ra := []rune(a)
	rb := []rune(b)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(ra, rb))/float64(maxLen)
}

// levenshteinDistance computes the edit distance with two rolling rows.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(row[j-1]+1, prevRow[j]+1, prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// bestMatch returns the candidate most similar to query, provided its score
// reaches the threshold. Candidates are compared in slice order and ties
// keep the earlier candidate, so the result is deterministic for the sorted
// and priority-ordered lists the resolver feeds in.
func bestMatch(sim Similarity, query string, candidates []string, threshold float64) (string, bool) {
	bestScore := 0.0
	best := ""
	found := false

	for _, candidate := range candidates {
		score := sim.Score(query, candidate)
		if score >= threshold && score > bestScore {
			bestScore = score
			best = candidate
			found = true
		}
	}

	return best, found
}
