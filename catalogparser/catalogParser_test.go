package catalogparser

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeFixture writes one source table file into the test data dir.
func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

func TestParseCatalogMergesDrugTablesInPriorityOrder(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, filePrimary, `[
		{"product_name": "Coumadin", "salt_composition": "Warfarin (2mg)", "medicine_desc": "primary description"}
	]`)
	writeFixture(t, dir, fileSecondary, `[
		{"product_name": "Coumadin", "salt_composition": "Warfarin (5mg)", "medicine_desc": "secondary description"},
		{"product_name": "Ecopirin", "salt_composition": "Aspirin (100mg)"}
	]`)
	writeFixture(t, dir, fileSynthetic, `[
		{"drug_name": "Coumadin", "indications": "synthetic description"},
		{"drug_name": "Parol", "indications": "pain relief", "side_effects": "nausea"}
	]`)

	catalog, err := ParseCatalog(dir)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	if len(catalog.Drugs) != 3 {
		t.Fatalf("expected 3 drugs, got %d", len(catalog.Drugs))
	}

	// First writer wins: the primary table owns "coumadin".
	coumadin := catalog.Drugs["coumadin"]
	if coumadin.Description != "primary description" {
		t.Errorf("expected primary table to win, got description %q", coumadin.Description)
	}
	if coumadin.Source != filePrimary {
		t.Errorf("expected source %s, got %s", filePrimary, coumadin.Source)
	}

	if _, ok := catalog.Drugs["ecopirin"]; !ok {
		t.Error("expected secondary-only drug to be present")
	}
	if catalog.Drugs["parol"].Description != "pain relief" {
		t.Error("expected synthetic-only drug to be present")
	}
}

func TestParseCatalogSortsNameSlices(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, filePrimary, `[
		{"product_name": "Zinc Forte"},
		{"product_name": "Aspirin"},
		{"product_name": "Metformin"}
	]`)
	writeFixture(t, dir, fileFoodFood, `{
		"matched_foods": ["Peynir", "Humus", "Elma"],
		"interactions": []
	}`)

	catalog, err := ParseCatalog(dir)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	if !sort.StringsAreSorted(catalog.DrugNames) {
		t.Errorf("DrugNames not sorted: %v", catalog.DrugNames)
	}
	if !sort.StringsAreSorted(catalog.FoodNames) {
		t.Errorf("FoodNames not sorted: %v", catalog.FoodNames)
	}
	if len(catalog.FoodNames) != 3 || catalog.FoodNames[0] != "elma" {
		t.Errorf("unexpected food names: %v", catalog.FoodNames)
	}
}

func TestParseCatalogToleratesMissingTables(t *testing.T) {
	catalog, err := ParseCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("ParseCatalog failed on empty dir: %v", err)
	}

	if len(catalog.Drugs) != 0 || len(catalog.Foods) != 0 {
		t.Error("expected empty catalog from empty data dir")
	}
	if catalog.FoodInteractions == nil || catalog.Aliases == nil {
		t.Error("expected allocated empty indices")
	}
}

func TestParseCatalogSkipsConfirmedUnresolvedAliases(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, fileAliases, `{
		"Coumadin": "warfarin",
		"Majezik": null,
		"  ": "ignored",
		"Ecopirin": ""
	}`)

	catalog, err := ParseCatalog(dir)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	if len(catalog.Aliases) != 1 {
		t.Fatalf("expected 1 alias, got %d: %v", len(catalog.Aliases), catalog.Aliases)
	}
	if catalog.Aliases["coumadin"] != "warfarin" {
		t.Errorf("expected coumadin alias, got %v", catalog.Aliases)
	}
}

func TestParseCatalogNormalizesFoodEdges(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, fileFoodFood, `{
		"matched_foods": ["Humus", "Peynir"],
		"interactions": [
			{"food_1": " Humus ", "food_2": "PEYNIR", "interaction_level": "orta", "nutrient_name": "kalsiyum"},
			{"food_1": "", "food_2": "peynir", "interaction_level": "orta", "nutrient_name": "dropped"}
		]
	}`)

	catalog, err := ParseCatalog(dir)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	if len(catalog.FoodEdges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(catalog.FoodEdges))
	}

	edge := catalog.FoodEdges[0]
	if edge.Food1 != "humus" || edge.Food2 != "peynir" {
		t.Errorf("expected normalized edge names, got %q and %q", edge.Food1, edge.Food2)
	}
}

func TestLoadLegacyCSVTable(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, fileLegacyCSV,
		"product_name,salt_composition,medicine_desc,side_effects,drug_interactions\n"+
			"Parol,Paracetamol (500mg),pain reliever,rash,\n"+
			",missing name,skipped,,\n")

	records, err := loadLegacyCSVTable(filepath.Join(dir, fileLegacyCSV))
	if err != nil {
		t.Fatalf("loadLegacyCSVTable failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "parol" || records[0].SaltComposition != "paracetamol (500mg)" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestLoadLegacyCSVTableDecodesWindows1254(t *testing.T) {
	dir := t.TempDir()

	// "Ağrı" with ğ (0xF0) and ı (0xFD) in Windows-1254, invalid as UTF-8.
	raw := append([]byte("product_name,medicine_desc\n"), []byte{'A', 0xF0, 'r', 0xFD}...)
	raw = append(raw, []byte(",analgesic\n")...)
	if err := os.WriteFile(filepath.Join(dir, fileLegacyCSV), raw, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	records, err := loadLegacyCSVTable(filepath.Join(dir, fileLegacyCSV))
	if err != nil {
		t.Fatalf("loadLegacyCSVTable failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "ağrı" {
		t.Errorf("expected decoded name %q, got %q", "ağrı", records[0].Name)
	}
}
