package catalogparser

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// Source table file names, resolved against the configured data directory.
// The load order of the drug tables is part of the merge contract: earlier
// tables win on canonical-key conflicts.
const (
	filePrimary         = "drugs_primary.json"
	fileSecondary       = "drugs_secondary.json"
	fileLegacyCSV       = "drugs_legacy.csv"
	fileSynthetic       = "drugs_synthetic.json"
	fileDrugFood        = "drug_food.json"
	fileGenericWarnings = "generic_warnings.json"
	fileFoodFood        = "food_food.json"
	fileAliases         = "aliases.json"
	filePriority        = "priority_drugs.json"
)

// rawDrugEntry is the record shape of the branded drug tables. The
// drug_interactions column is itself a JSON document serialized as a string.
type rawDrugEntry struct {
	ProductName      string `json:"product_name"`
	SaltComposition  string `json:"salt_composition"`
	MedicineDesc     string `json:"medicine_desc"`
	SideEffects      string `json:"side_effects"`
	DrugInteractions string `json:"drug_interactions"`
}

// rawSyntheticEntry is the record shape of the synthetic fallback table.
type rawSyntheticEntry struct {
	DrugName          string `json:"drug_name"`
	SideEffects       string `json:"side_effects"`
	Contraindications string `json:"contraindications"`
	Warnings          string `json:"warnings"`
	Indications       string `json:"indications"`
}

// rawFoodInteractionEntry maps a drug or ingredient name to its food
// interaction strings.
type rawFoodInteractionEntry struct {
	Name             string   `json:"name"`
	FoodInteractions []string `json:"food_interactions"`
}

// rawGenericEntry is the record shape of the ingredient warnings table.
type rawGenericEntry struct {
	GenericName       string `json:"generic_name"`
	Contraindications string `json:"contraindications"`
	Warnings          string `json:"warnings"`
	SideEffects       string `json:"side_effects"`
}

// rawFoodFoodTable is the food index plus the food-food interaction edges.
type rawFoodFoodTable struct {
	MatchedFoods []string               `json:"matched_foods"`
	Interactions []entities.FoodFoodEdge `json:"interactions"`
}

// readJSONTable decodes a JSON source table into v. A missing file is
// reported via os.IsNotExist so callers can log and continue.
func readJSONTable(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return nil
}

// loadDrugTable reads one branded drug table and converts its entries into
// drug records keyed by canonical name. Entries without a product name are
// skipped.
func loadDrugTable(path string) ([]entities.DrugRecord, error) {
	var raw []rawDrugEntry
	if err := readJSONTable(path, &raw); err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	records := make([]entities.DrugRecord, 0, len(raw))
	for _, entry := range raw {
		name := Normalize(entry.ProductName)
		if name == "" {
			continue
		}

		records = append(records, entities.DrugRecord{
			Name:            name,
			DisplayName:     strings.TrimSpace(entry.ProductName),
			SaltComposition: Normalize(entry.SaltComposition),
			Description:     entry.MedicineDesc,
			SideEffects:     entry.SideEffects,
			Interactions:    parseInteractionField(entry.DrugInteractions),
			Source:          source,
		})
	}

	return records, nil
}

// loadLegacyCSVTable reads the legacy CSV drug export. Exports predating the
// JSON pipeline are encoded in Windows-1254; newer ones are UTF-8, so the
// content is sniffed and decoded accordingly.
func loadLegacyCSVTable(path string) ([]entities.DrugRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if utf8.Valid(data) {
		reader = bytes.NewReader(data)
	} else {
		reader = charmap.Windows1254.NewDecoder().Reader(bytes.NewReader(data))
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	// First row is the header; map column names to indices.
	cols := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		cols[Normalize(col)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	source := filepath.Base(path)
	records := make([]entities.DrugRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := Normalize(field(row, "product_name"))
		if name == "" {
			continue
		}

		records = append(records, entities.DrugRecord{
			Name:            name,
			DisplayName:     strings.TrimSpace(field(row, "product_name")),
			SaltComposition: Normalize(field(row, "salt_composition")),
			Description:     field(row, "medicine_desc"),
			SideEffects:     field(row, "side_effects"),
			Interactions:    parseInteractionField(field(row, "drug_interactions")),
			Source:          source,
		})
	}

	return records, nil
}

// loadSyntheticTable reads the synthetic fallback table. Synthetic records
// have no salt composition or interaction mentions; their warning texts live
// on the record description fields.
func loadSyntheticTable(path string) ([]entities.DrugRecord, error) {
	var raw []rawSyntheticEntry
	if err := readJSONTable(path, &raw); err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	records := make([]entities.DrugRecord, 0, len(raw))
	for _, entry := range raw {
		name := Normalize(entry.DrugName)
		if name == "" {
			continue
		}

		records = append(records, entities.DrugRecord{
			Name:        name,
			DisplayName: strings.TrimSpace(entry.DrugName),
			Description: entry.Indications,
			SideEffects: entry.SideEffects,
			Source:      source,
		})
	}

	return records, nil
}

// loadFoodInteractionTable reads the drug→food-interaction strings table.
func loadFoodInteractionTable(path string) (map[string][]string, error) {
	var raw []rawFoodInteractionEntry
	if err := readJSONTable(path, &raw); err != nil {
		return nil, err
	}

	interactions := make(map[string][]string, len(raw))
	for _, entry := range raw {
		name := Normalize(entry.Name)
		if name == "" {
			continue
		}
		interactions[name] = entry.FoodInteractions
	}

	return interactions, nil
}

// loadGenericWarningsTable reads the ingredient warnings table.
func loadGenericWarningsTable(path string) (map[string]entities.GenericWarnings, error) {
	var raw []rawGenericEntry
	if err := readJSONTable(path, &raw); err != nil {
		return nil, err
	}

	warnings := make(map[string]entities.GenericWarnings, len(raw))
	for _, entry := range raw {
		name := Normalize(entry.GenericName)
		if name == "" {
			continue
		}
		warnings[name] = entities.GenericWarnings{
			Contraindications: entry.Contraindications,
			Warnings:          entry.Warnings,
			SideEffects:       entry.SideEffects,
		}
	}

	return warnings, nil
}

// loadFoodFoodTable reads the food index and the food-food edges. Food names
// inside the edges are normalized at load time so detection can compare them
// directly.
func loadFoodFoodTable(path string) (map[string]entities.FoodRecord, []entities.FoodFoodEdge, error) {
	var raw rawFoodFoodTable
	if err := readJSONTable(path, &raw); err != nil {
		return nil, nil, err
	}

	foods := make(map[string]entities.FoodRecord, len(raw.MatchedFoods))
	for _, food := range raw.MatchedFoods {
		name := Normalize(food)
		if name == "" {
			continue
		}
		foods[name] = entities.FoodRecord{Name: name}
	}

	edges := make([]entities.FoodFoodEdge, 0, len(raw.Interactions))
	for _, edge := range raw.Interactions {
		edge.Food1 = Normalize(edge.Food1)
		edge.Food2 = Normalize(edge.Food2)
		if edge.Food1 == "" || edge.Food2 == "" {
			continue
		}
		edges = append(edges, edge)
	}

	return foods, edges, nil
}

// loadAliasTable reads the brand→generic enrichment cache. A null value
// means the offline batch confirmed the brand as unresolved; those entries
// are dropped so lookups treat them as "no alias" instead of re-attempting.
func loadAliasTable(path string) (map[string]string, error) {
	var raw map[string]*string
	if err := readJSONTable(path, &raw); err != nil {
		return nil, err
	}

	aliases := make(map[string]string, len(raw))
	for brand, generic := range raw {
		key := Normalize(brand)
		if key == "" || generic == nil || *generic == "" {
			continue
		}
		aliases[key] = *generic
	}

	return aliases, nil
}

// loadPriorityTable reads the common-name list used by fuzzy correction.
func loadPriorityTable(path string) ([]string, error) {
	var names []string
	if err := readJSONTable(path, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// warnIfMissing logs a missing optional source table and reports whether the
// error was a missing-file error.
func warnIfMissing(err error, file string) bool {
	if os.IsNotExist(err) {
		logging.Warn("Source table not found, continuing with reduced coverage", "file", file)
		return true
	}
	return false
}
