package entities

// FindingType tags the kind of interaction a Finding reports.
type FindingType string

const (
	FindingDrugDrug FindingType = "drug-drug"
	FindingDrugFood FindingType = "drug-food"
	FindingFoodFood FindingType = "food-food"
)

// Severity labels used by the keyword classifier and the food-food edge
// levels. SeverityInfo marks the general food-warning disclosure emitted per
// drug regardless of matched foods.
const (
	SeveritySevere   = "severe"
	SeverityModerate = "moderate"
	SeverityMinor    = "minor"
	SeverityInfo     = "info"
)

// Finding is one detected interaction between two entities. Second is empty
// for the per-drug informational disclosure.
type Finding struct {
	Type     FindingType `json:"type"`
	First    string      `json:"first"`
	Second   string      `json:"second,omitempty"`
	Severity string      `json:"severity"`
	Effect   string      `json:"effect"`
}
