// Package entities defines the data structures shared by the catalog,
// resolver and interaction detector.
package entities

// InteractionMention is one declared counterpart of a drug, re-zipped from
// the parallel-array encoding of the source tables.
type InteractionMention struct {
	Drug   string `json:"drug"`
	Effect string `json:"effect"`
}

// GenericWarnings carries the ingredient-level warning texts attached to a
// resolved drug.
type GenericWarnings struct {
	Contraindications string `json:"contraindications,omitempty"`
	Warnings          string `json:"warnings,omitempty"`
	SideEffects       string `json:"side_effects,omitempty"`
}

// DrugRecord is a canonical drug entry. Name is the normalized (lowercased,
// trimmed) unique key. FoodInteractions and Warnings are attached at
// resolution time and are never stored in the catalog itself.
type DrugRecord struct {
	Name            string               `json:"name"`
	DisplayName     string               `json:"display_name"`
	SaltComposition string               `json:"salt_composition,omitempty"`
	Description     string               `json:"description,omitempty"`
	SideEffects     string               `json:"side_effects,omitempty"`
	Interactions    []InteractionMention `json:"drug_interactions,omitempty"`
	Source          string               `json:"source"`

	// Resolution-time enrichment
	FoodInteractions []string         `json:"food_interactions,omitempty"`
	Warnings         *GenericWarnings `json:"generic_warnings,omitempty"`
}
