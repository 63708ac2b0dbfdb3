// Package interactions detects pairwise interactions between resolved drug
// and food entities.
package interactions

import (
	"strings"

	"github.com/nutrimed/interactions-api/catalogparser"
	"github.com/nutrimed/interactions-api/catalogparser/entities"
)

// Detector produces interaction findings from resolved entities. It reads
// only the immutable catalog snapshot passed per call, so it is safe for
// concurrent use.
type Detector struct {
	classifier *SeverityClassifier
}

// NewDetector creates a detector with the default severity classifier.
func NewDetector() *Detector {
	return NewDetectorWithClassifier(DefaultSeverityClassifier())
}

// NewDetectorWithClassifier creates a detector with a custom classifier.
func NewDetectorWithClassifier(classifier *SeverityClassifier) *Detector {
	return &Detector{classifier: classifier}
}

// Detect runs all three scans over the entities in mention order and returns
// the findings grouped drug-drug first, then drug-food, then food-food. Scan
// order inside each group is preserved, so the output is deterministic for a
// given input and catalog.
func (d *Detector) Detect(catalog *entities.Catalog, drugs []entities.DrugRecord, foods []entities.FoodRecord) []entities.Finding {
	findings := d.detectDrugDrug(drugs)
	findings = append(findings, d.detectDrugFood(drugs, foods)...)
	findings = append(findings, d.detectFoodFood(catalog, foods)...)
	return findings
}

// detectDrugDrug scans each unordered pair once, in both directions: either
// drug's mentions may name the other. At most one finding per pair, first
// matching mention wins; the mention holder is reported first so which drug
// declared the interaction stays visible.
func (d *Detector) detectDrugDrug(drugs []entities.DrugRecord) []entities.Finding {
	var findings []entities.Finding

	for i := 0; i < len(drugs); i++ {
		for j := i + 1; j < len(drugs); j++ {
			finding, ok := matchMentions(d.classifier, drugs[i], drugs[j])
			if !ok {
				finding, ok = matchMentions(d.classifier, drugs[j], drugs[i])
			}
			if ok {
				findings = append(findings, finding)
			}
		}
	}

	return findings
}

// matchMentions checks the holder's mentions against the other drug's
// canonical name and salt composition.
func matchMentions(classifier *SeverityClassifier, holder, other entities.DrugRecord) (entities.Finding, bool) {
	otherName := catalogparser.Normalize(other.Name)
	otherSalt := catalogparser.Normalize(other.SaltComposition)

	for _, mention := range holder.Interactions {
		mentioned := catalogparser.Normalize(mention.Drug)
		if mentioned == "" {
			continue
		}

		if strings.Contains(otherName, mentioned) ||
			(otherSalt != "" && strings.Contains(otherSalt, mentioned)) {
			return entities.Finding{
				Type:     entities.FindingDrugDrug,
				First:    displayName(holder),
				Second:   displayName(other),
				Severity: classifier.Classify(mention.Effect),
				Effect:   mention.Effect,
			}, true
		}
	}

	return entities.Finding{}, false
}

// detectDrugFood emits a specific finding for every interaction string that
// names a mentioned food, and one informational disclosure per drug that has
// any food-interaction data at all. The disclosure is not gated on a food
// match so callers always learn the drug has food constraints.
func (d *Detector) detectDrugFood(drugs []entities.DrugRecord, foods []entities.FoodRecord) []entities.Finding {
	var findings []entities.Finding

	for _, drug := range drugs {
		for _, food := range foods {
			for _, interaction := range drug.FoodInteractions {
				if strings.Contains(strings.ToLower(interaction), food.Name) {
					findings = append(findings, entities.Finding{
						Type:     entities.FindingDrugFood,
						First:    displayName(drug),
						Second:   food.Name,
						Severity: d.classifier.Classify(interaction),
						Effect:   interaction,
					})
				}
			}
		}

		if len(drug.FoodInteractions) > 0 {
			findings = append(findings, entities.Finding{
				Type:     entities.FindingDrugFood,
				First:    displayName(drug),
				Severity: entities.SeverityInfo,
				Effect:   strings.Join(drug.FoodInteractions, " "),
			})
		}
	}

	return findings
}

// detectFoodFood emits one finding per edge matching an unordered food pair
// in either orientation.
func (d *Detector) detectFoodFood(catalog *entities.Catalog, foods []entities.FoodRecord) []entities.Finding {
	var findings []entities.Finding

	for i := 0; i < len(foods); i++ {
		for j := i + 1; j < len(foods); j++ {
			first := foods[i].Name
			second := foods[j].Name

			for _, edge := range catalog.FoodEdges {
				if (edge.Food1 == first && edge.Food2 == second) ||
					(edge.Food1 == second && edge.Food2 == first) {
					findings = append(findings, entities.Finding{
						Type:     entities.FindingFoodFood,
						First:    first,
						Second:   second,
						Severity: d.classifier.ClassifyLevel(edge.Level),
						Effect:   edge.Nutrient,
					})
				}
			}
		}
	}

	return findings
}

func displayName(drug entities.DrugRecord) string {
	if drug.DisplayName != "" {
		return drug.DisplayName
	}
	return drug.Name
}
