package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/data"
	"github.com/nutrimed/interactions-api/health"
	"github.com/nutrimed/interactions-api/interactions"
	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/knowledge"
	"github.com/nutrimed/interactions-api/resolver"
	"github.com/nutrimed/interactions-api/validation"
)

type stubVerifier struct {
	result interfaces.VerificationResult
}

func (s stubVerifier) Verify(ctx context.Context, query, answer string) interfaces.VerificationResult {
	return s.result
}

type captureSink struct {
	entries chan interfaces.HistoryEntry
}

func (c *captureSink) Record(ctx context.Context, entry interfaces.HistoryEntry) {
	c.entries <- entry
}

func testCatalog() *entities.Catalog {
	catalog := entities.EmptyCatalog()

	catalog.Drugs["coumadin"] = entities.DrugRecord{
		Name:            "coumadin",
		DisplayName:     "Coumadin",
		SaltComposition: "warfarin (2mg)",
		Interactions: []entities.InteractionMention{
			{Drug: "Aspirin", Effect: "may cause severe bleeding"},
		},
	}
	catalog.Drugs["ecopirin"] = entities.DrugRecord{
		Name:            "ecopirin",
		DisplayName:     "Ecopirin",
		SaltComposition: "aspirin (100mg)",
	}

	catalog.Foods = map[string]entities.FoodRecord{
		"humus":  {Name: "humus"},
		"peynir": {Name: "peynir"},
	}
	catalog.FoodEdges = []entities.FoodFoodEdge{
		{Food1: "humus", Food2: "peynir", Level: "orta", Nutrient: "kalsiyum"},
	}
	catalog.FoodInteractions = map[string][]string{
		"warfarin": {"Avoid green leafy vegetables"},
	}

	for name := range catalog.Drugs {
		catalog.DrugNames = append(catalog.DrugNames, name)
	}
	sort.Strings(catalog.DrugNames)
	for name := range catalog.Foods {
		catalog.FoodNames = append(catalog.FoodNames, name)
	}
	sort.Strings(catalog.FoodNames)

	return catalog
}

// newTestRouter builds a handler over a loaded container and mounts it the
// way the server package does.
func newTestRouter(t *testing.T, verifier interfaces.Verifier, sink interfaces.HistorySink) (*chi.Mux, *data.DataContainer) {
	t.Helper()

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())
	container.UpdateCatalog(testCatalog())

	knowledgeBase, err := knowledge.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to build empty knowledge base: %v", err)
	}

	handler := NewHTTPHandler(
		container,
		validation.NewQueryValidator(),
		resolver.New(),
		interactions.NewDetector(),
		knowledgeBase,
		verifier,
		sink,
		health.NewHealthChecker(container),
	)

	router := chi.NewRouter()
	router.Post("/analyze", handler.AnalyzeInteractions)
	router.Get("/drug/{query}", handler.FindDrug)
	router.Get("/drug/{query}/suggestions", handler.SuggestDrugs)
	router.Get("/food/{query}", handler.FindFood)
	router.Get("/health", handler.HealthCheck)

	return router, container
}

func TestAnalyzeInteractions(t *testing.T) {
	verifier := stubVerifier{result: interfaces.VerificationResult{
		Score:   80,
		Sources: []string{"https://example.org/evidence"},
	}}
	sink := &captureSink{entries: make(chan interfaces.HistoryEntry, 1)}
	router, _ := newTestRouter(t, verifier, sink)

	body := `{"query": "coumadin, ecopirin, humus, peynir, mg"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Drugs) != 2 || len(resp.Foods) != 2 {
		t.Errorf("expected 2 drugs and 2 foods, got %v / %v", resp.Drugs, resp.Foods)
	}
	if len(resp.Unresolved) != 0 {
		t.Errorf("expected the mg token filtered before resolution, got %v", resp.Unresolved)
	}

	// Drug-drug (severe), drug-food disclosure for coumadin, food-food edge.
	if len(resp.Findings) != 3 {
		t.Fatalf("expected 3 findings, got %d: %+v", len(resp.Findings), resp.Findings)
	}
	if resp.Findings[0].Type != entities.FindingDrugDrug || resp.Findings[0].Severity != entities.SeveritySevere {
		t.Errorf("unexpected first finding: %+v", resp.Findings[0])
	}

	// Base 80 from the verifier, no knowledge hit, +10 validation bonus.
	if resp.Confidence.Score != 90 || resp.Confidence.Label != "high" {
		t.Errorf("unexpected confidence: %+v", resp.Confidence)
	}
	if len(resp.Sources) != 1 {
		t.Errorf("expected verifier sources passed through, got %v", resp.Sources)
	}

	select {
	case entry := <-sink.entries:
		if entry.ConfidenceScore != 90 || len(entry.Findings) != 3 {
			t.Errorf("unexpected history entry: %+v", entry)
		}
	case <-time.After(time.Second):
		t.Error("expected a history entry to be recorded")
	}
}

func TestAnalyzeInteractionsUnresolvedTokens(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	body := `{"query": "coumadin, nonexistent-drug-xyz"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Unresolved) != 1 || resp.Unresolved[0] != "nonexistent-drug-xyz" {
		t.Errorf("expected the unknown token reported, got %v", resp.Unresolved)
	}
}

func TestAnalyzeInteractionsValidationBonusCountsDrugsOnly(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	// Foods only: the default base gets no validation bonus, because only
	// catalog-validated medications count.
	body := `{"query": "humus, peynir"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/analyze", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Drugs) != 0 || len(resp.Foods) != 2 {
		t.Fatalf("expected foods only, got %v / %v", resp.Drugs, resp.Foods)
	}
	if resp.Confidence.Score != 65 || resp.Confidence.Label != "medium" {
		t.Errorf("expected the bare default base 65/medium, got %+v", resp.Confidence)
	}
}

func TestAnalyzeInteractionsRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", "{not json"},
		{"empty query", `{"query": ""}`},
		{"dangerous query", `{"query": "<script>alert(1)</script>"}`},
		{"only noise tokens", `{"query": "mg, 99"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/analyze", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestFindDrug(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/drug/coumadin", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var drug entities.DrugRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &drug); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if drug.Name != "coumadin" {
		t.Errorf("expected coumadin, got %q", drug.Name)
	}
	if len(drug.FoodInteractions) != 1 {
		t.Errorf("expected the enriched record, got %+v", drug)
	}
}

func TestFindDrugNotFound(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/drug/unknowndrug", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSuggestDrugs(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/drug/rin/suggestions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var suggestions []string
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0] != "ecopirin" {
		t.Errorf("expected [ecopirin], got %v", suggestions)
	}
}

func TestFindFood(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/food/humus", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/food/notafood", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown food, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponseImpl
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy status, got %q", resp.Status)
	}
}

func TestHealthCheckUnhealthyWithoutCatalog(t *testing.T) {
	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	knowledgeBase, err := knowledge.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to build empty knowledge base: %v", err)
	}

	handler := NewHTTPHandler(
		container,
		validation.NewQueryValidator(),
		resolver.New(),
		interactions.NewDetector(),
		knowledgeBase,
		nil,
		nil,
		health.NewHealthChecker(container),
	)

	router := chi.NewRouter()
	router.Get("/health", handler.HealthCheck)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before the first load, got %d", rec.Code)
	}
}
