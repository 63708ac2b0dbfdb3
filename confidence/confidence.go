// Package confidence combines heterogeneous trust signals into one bounded
// score with a coarse label.
package confidence

import "strings"

const (
	// DefaultBase is the starting score when no web verification ran at all
	// (the client is not configured).
	DefaultBase = 65

	// MinScore and MaxScore bound the final score; intermediate bonuses are
	// also capped at MaxScore and the uncertainty penalty is floored at
	// MinScore.
	MinScore = 30
	MaxScore = 95

	knowledgeBonus      = 10
	validationBonusStep = 5
	validationBonusCap  = 10
	uncertaintyPenalty  = 15
)

// uncertaintyMarkers flag hedging language in an answer. Turkish first, the
// language of the generated answers, with English equivalents.
var uncertaintyMarkers = []string{
	"emin değilim",
	"bilmiyorum",
	"kesin değil",
	"not sure",
	"i don't know",
	"uncertain",
}

// Score aggregates the verification base, knowledge-base match bonus,
// database-validation bonus and uncertainty penalty, in that order, into a
// score clamped to [MinScore, MaxScore] plus its label.
func Score(baseVerification int, qaTopScore float64, validatedCount int, answerText string) (int, string) {
	score := baseVerification

	if qaTopScore > 0.5 {
		score += knowledgeBonus
		if score > MaxScore {
			score = MaxScore
		}
	}

	if validatedCount > 0 {
		bonus := validationBonusStep * validatedCount
		if bonus > validationBonusCap {
			bonus = validationBonusCap
		}
		score += bonus
		if score > MaxScore {
			score = MaxScore
		}
	}

	if hasUncertainty(answerText) {
		score -= uncertaintyPenalty
		if score < MinScore {
			score = MinScore
		}
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < MinScore {
		score = MinScore
	}

	return score, Label(score)
}

// Label maps a score onto the coarse confidence scale.
func Label(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}

func hasUncertainty(answerText string) bool {
	lower := strings.ToLower(answerText)
	for _, marker := range uncertaintyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
