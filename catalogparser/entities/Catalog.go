package entities

// Catalog is the immutable result of a full source-table load. It is built
// once by the catalog parser and then only read; refreshes build a new
// Catalog and swap it atomically in the data container.
//
// DrugNames and FoodNames are the sorted canonical keys. Substring fallbacks
// iterate these slices so that which match wins is reproducible across runs,
// instead of depending on map iteration order.
type Catalog struct {
	Drugs     map[string]DrugRecord
	DrugNames []string

	Foods     map[string]FoodRecord
	FoodNames []string

	FoodEdges []FoodFoodEdge

	// FoodInteractions maps an ingredient or drug name to its free-text
	// food-interaction strings.
	FoodInteractions map[string][]string

	// GenericWarnings maps an ingredient name to its warning texts.
	GenericWarnings map[string]GenericWarnings

	// Aliases maps a brand name to a generic name. Entries whose source
	// value was null (confirmed unresolved) are not present.
	Aliases map[string]string

	// PriorityNames is the flat common-name list used only as a fuzzy
	// correction target.
	PriorityNames []string
}

// EmptyCatalog returns a catalog with all indices allocated and empty, safe
// to serve before the first load completes.
func EmptyCatalog() *Catalog {
	return &Catalog{
		Drugs:            make(map[string]DrugRecord),
		Foods:            make(map[string]FoodRecord),
		FoodInteractions: make(map[string][]string),
		GenericWarnings:  make(map[string]GenericWarnings),
		Aliases:          make(map[string]string),
	}
}
