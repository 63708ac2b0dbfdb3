package interactions

import (
	"strings"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
)

// SeverityClassifier labels effect text by scanning keyword sets in order:
// severe first, then moderate, else minor. It is a pure type so keyword
// lists can be swapped without touching detection logic.
type SeverityClassifier struct {
	severe   []string
	moderate []string
}

// NewSeverityClassifier creates a classifier with custom keyword sets.
// Keywords are matched case-insensitively as substrings of the effect text.
func NewSeverityClassifier(severe, moderate []string) *SeverityClassifier {
	return &SeverityClassifier{
		severe:   lowerAll(severe),
		moderate: lowerAll(moderate),
	}
}

// DefaultSeverityClassifier returns the classifier with the built-in keyword
// sets. The sets carry both English and Turkish terms because effect text in
// the source tables mixes the two.
func DefaultSeverityClassifier() *SeverityClassifier {
	return NewSeverityClassifier(
		[]string{
			"life-threatening", "life threatening", "contraindicated", "avoid",
			"severe", "serious", "fatal", "dangerous",
			"ciddi", "tehlikeli", "ölümcül", "kullanmayın",
		},
		[]string{
			"monitor", "risk", "increase", "decrease", "caution", "adjust",
			"reduce", "izleyin", "dikkat", "artırabilir", "azaltabilir",
		},
	)
}

// Classify returns the severity label for an effect text.
func (c *SeverityClassifier) Classify(effect string) string {
	lower := strings.ToLower(effect)

	for _, keyword := range c.severe {
		if strings.Contains(lower, keyword) {
			return entities.SeveritySevere
		}
	}

	for _, keyword := range c.moderate {
		if strings.Contains(lower, keyword) {
			return entities.SeverityModerate
		}
	}

	return entities.SeverityMinor
}

// ClassifyLevel maps a food-food edge level label onto the severity scale.
func (c *SeverityClassifier) ClassifyLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high", "severe", "yüksek":
		return entities.SeveritySevere
	case "moderate", "medium", "orta":
		return entities.SeverityModerate
	default:
		return entities.SeverityMinor
	}
}

func lowerAll(keywords []string) []string {
	lowered := make([]string, len(keywords))
	for i, keyword := range keywords {
		lowered[i] = strings.ToLower(keyword)
	}
	return lowered
}
