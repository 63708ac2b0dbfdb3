package catalogparser

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/logging"
)

// drugTableOrder fixes the merge priority of the drug source tables. On a
// canonical-key conflict the earlier table wins and later tables are ignored
// for that key; there is no field-level merge.
var drugTableOrder = []string{filePrimary, fileSecondary, fileLegacyCSV, fileSynthetic}

// ParseCatalog loads every source table under dataDir and merges them into a
// single immutable catalog snapshot. Missing optional tables are logged and
// skipped; the load never fails outright, it serves whatever loaded.
func ParseCatalog(dataDir string) (*entities.Catalog, error) {
	catalog := entities.EmptyCatalog()

	loadDrugTables(dataDir, catalog)

	if interactions, err := loadFoodInteractionTable(filepath.Join(dataDir, fileDrugFood)); err != nil {
		if !warnIfMissing(err, fileDrugFood) {
			logging.Warn("Failed to load food interaction table", "error", err)
		}
	} else {
		catalog.FoodInteractions = interactions
	}

	if warnings, err := loadGenericWarningsTable(filepath.Join(dataDir, fileGenericWarnings)); err != nil {
		if !warnIfMissing(err, fileGenericWarnings) {
			logging.Warn("Failed to load generic warnings table", "error", err)
		}
	} else {
		catalog.GenericWarnings = warnings
	}

	if foods, edges, err := loadFoodFoodTable(filepath.Join(dataDir, fileFoodFood)); err != nil {
		if !warnIfMissing(err, fileFoodFood) {
			logging.Warn("Failed to load food-food table", "error", err)
		}
	} else {
		catalog.Foods = foods
		catalog.FoodEdges = edges
	}

	if aliases, err := loadAliasTable(filepath.Join(dataDir, fileAliases)); err != nil {
		if !warnIfMissing(err, fileAliases) {
			logging.Warn("Failed to load alias table", "error", err)
		}
	} else {
		catalog.Aliases = aliases
	}

	if priority, err := loadPriorityTable(filepath.Join(dataDir, filePriority)); err != nil {
		if !warnIfMissing(err, filePriority) {
			logging.Warn("Failed to load priority name list", "error", err)
		}
	} else {
		catalog.PriorityNames = priority
	}

	// Sorted key slices give the substring fallbacks a deterministic scan
	// order, independent of map iteration order.
	catalog.DrugNames = sortedKeys(catalog.Drugs)
	catalog.FoodNames = sortedFoodKeys(catalog.Foods)

	logging.Info("Catalog load completed",
		"drugs", len(catalog.Drugs),
		"foods", len(catalog.Foods),
		"food_edges", len(catalog.FoodEdges),
		"aliases", len(catalog.Aliases),
		"priority_names", len(catalog.PriorityNames),
	)

	return catalog, nil
}

// loadDrugTables reads the four drug tables concurrently and merges them in
// the fixed priority order, first writer wins.
func loadDrugTables(dataDir string, catalog *entities.Catalog) {
	loaded := make([][]entities.DrugRecord, len(drugTableOrder))

	var wg sync.WaitGroup
	for i, file := range drugTableOrder {
		wg.Add(1)

		go func(slot int, file string) {
			defer wg.Done()

			path := filepath.Join(dataDir, file)
			var records []entities.DrugRecord
			var err error

			if file == fileLegacyCSV {
				records, err = loadLegacyCSVTable(path)
			} else if file == fileSynthetic {
				records, err = loadSyntheticTable(path)
			} else {
				records, err = loadDrugTable(path)
			}

			if err != nil {
				if !warnIfMissing(err, file) {
					logging.Warn("Failed to load drug table", "file", file, "error", err)
				}
				return
			}

			loaded[slot] = records
		}(i, file)
	}
	wg.Wait()

	for i, records := range loaded {
		added := 0
		for _, record := range records {
			if _, exists := catalog.Drugs[record.Name]; exists {
				continue
			}
			catalog.Drugs[record.Name] = record
			added++
		}

		if len(records) > 0 {
			logging.Debug("Drug table merged",
				"file", drugTableOrder[i], "records", len(records), "added", added)
		}
	}
}

func sortedKeys(m map[string]entities.DrugRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFoodKeys(m map[string]entities.FoodRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
