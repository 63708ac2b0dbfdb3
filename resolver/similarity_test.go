package resolver

import (
	"math"
	"testing"
)

func TestLevenshteinSimilarityScore(t *testing.T) {
	sim := LevenshteinSimilarity{}

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "aspirin", "aspirin", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "aspirin", "", 0.0},
		{"single substitution", "aspirin", "asperin", 1.0 - 1.0/7.0},
		{"completely different", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sim.Score(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Score(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLevenshteinSimilarityCountsRunesNotBytes(t *testing.T) {
	sim := LevenshteinSimilarity{}

	// Turkish letters are two bytes each; a single-letter typo must still
	// count as one edit over the rune length.
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"şurup", "surup", 1.0 - 1.0/5.0},
		{"ödem", "odem", 1.0 - 1.0/4.0},
	}

	for _, tt := range tests {
		if got := sim.Score(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Score(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestLevenshteinSimilarityIsSymmetric(t *testing.T) {
	sim := LevenshteinSimilarity{}

	if sim.Score("warfarin", "warfa") != sim.Score("warfa", "warfarin") {
		t.Error("expected symmetric scores")
	}
}

func TestBestMatchHonorsThreshold(t *testing.T) {
	sim := LevenshteinSimilarity{}
	candidates := []string{"aspirin", "warfarin", "metformin"}

	if match, ok := bestMatch(sim, "asprin", candidates, 0.6); !ok || match != "aspirin" {
		t.Errorf("expected aspirin for a close misspelling, got %q (ok=%v)", match, ok)
	}

	if _, ok := bestMatch(sim, "zzzzzz", candidates, 0.6); ok {
		t.Error("expected no match below the threshold")
	}
}

func TestBestMatchPrefersEarlierCandidateOnTie(t *testing.T) {
	sim := LevenshteinSimilarity{}

	// Both candidates are one edit away from the query.
	match, ok := bestMatch(sim, "parol", []string{"parola", "parolx"}, 0.5)
	if !ok || match != "parola" {
		t.Errorf("expected the earlier candidate to win the tie, got %q", match)
	}
}
