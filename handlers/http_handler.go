// Package handlers provides HTTP request handlers for the interactions API
// endpoints. Handlers receive their collaborators by dependency injection.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/confidence"
	"github.com/nutrimed/interactions-api/interactions"
	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/knowledge"
	"github.com/nutrimed/interactions-api/logging"
	"github.com/nutrimed/interactions-api/metrics"
	"github.com/nutrimed/interactions-api/resolver"
)

// suggestionLimit caps the suggestion endpoint response.
const suggestionLimit = 5

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	validator interfaces.QueryValidator
	resolver  *resolver.Resolver
	detector  *interactions.Detector
	knowledge *knowledge.Base

	// verifier is nil when web verification is not configured; the
	// aggregator then starts from its own default base.
	verifier interfaces.Verifier
	history  interfaces.HistorySink
	health   interfaces.HealthChecker
}

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	validator interfaces.QueryValidator,
	entityResolver *resolver.Resolver,
	detector *interactions.Detector,
	knowledgeBase *knowledge.Base,
	verifier interfaces.Verifier,
	historySink interfaces.HistorySink,
	healthChecker interfaces.HealthChecker,
) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		validator: validator,
		resolver:  entityResolver,
		detector:  detector,
		knowledge: knowledgeBase,
		verifier:  verifier,
		history:   historySink,
		health:    healthChecker,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// analyzeRequest is the POST /analyze payload: a comma-separated list of
// drug and food names.
type analyzeRequest struct {
	Query string `json:"query"`
}

// analyzeResponse is the POST /analyze result.
type analyzeResponse struct {
	Query      string             `json:"query"`
	Drugs      []string           `json:"drugs"`
	Foods      []string           `json:"foods"`
	Unresolved []string           `json:"unresolved"`
	Findings   []entities.Finding `json:"findings"`
	Report     string             `json:"report"`
	Confidence confidenceResult   `json:"confidence"`
	Sources    []string           `json:"sources,omitempty"`
}

type confidenceResult struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// AnalyzeInteractions resolves every token of the query, detects pairwise
// interactions and scores the result.
func (h *HTTPHandlerImpl) AnalyzeInteractions(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validator.ValidateQuery(req.Query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens := h.validator.FilterTokens(strings.Split(req.Query, ","))
	if len(tokens) == 0 {
		h.RespondWithError(w, http.StatusBadRequest, "No usable names in query")
		return
	}

	// One snapshot for the whole request: resolution and detection must not
	// straddle a catalog swap.
	catalog := h.dataStore.GetCatalog()

	var drugs []entities.DrugRecord
	var foods []entities.FoodRecord
	var drugNames, foodNames, unresolved []string

	for _, token := range tokens {
		if drug, ok := h.resolver.ResolveDrug(catalog, token); ok {
			drugs = append(drugs, drug)
			drugNames = append(drugNames, drug.Name)
			metrics.ResolutionTotals.WithLabelValues("drug", "resolved").Inc()
			continue
		}
		metrics.ResolutionTotals.WithLabelValues("drug", "unresolved").Inc()

		if food, ok := h.resolver.ResolveFood(catalog, token); ok {
			foods = append(foods, food)
			foodNames = append(foodNames, food.Name)
			metrics.ResolutionTotals.WithLabelValues("food", "resolved").Inc()
			continue
		}
		metrics.ResolutionTotals.WithLabelValues("food", "unresolved").Inc()

		unresolved = append(unresolved, token)
	}

	findings := h.detector.Detect(catalog, drugs, foods)
	for _, finding := range findings {
		metrics.FindingTotals.WithLabelValues(string(finding.Type)).Inc()
	}

	report := composeReport(drugNames, foodNames, findings)

	base := confidence.DefaultBase
	var sources []string
	if h.verifier != nil {
		result := h.verifier.Verify(r.Context(), req.Query, report)
		base = result.Score
		sources = result.Sources
	}

	qaTop := h.knowledge.TopScore(req.Query)
	// Only catalog-validated medications feed the bonus; resolved foods are
	// membership checks, not validations.
	validated := len(drugs)
	score, label := confidence.Score(base, qaTop, validated, report)

	if h.history != nil {
		entry := interfaces.HistoryEntry{
			Drugs:           drugNames,
			Foods:           foodNames,
			Findings:        findings,
			ConfidenceScore: score,
			ConfidenceLabel: label,
			RecordedAt:      time.Now(),
		}
		// Detached from the request context: history must not block or fail
		// the response.
		go h.history.Record(context.Background(), entry)
	}

	h.RespondWithJSON(w, http.StatusOK, analyzeResponse{
		Query:      req.Query,
		Drugs:      drugNames,
		Foods:      foodNames,
		Unresolved: unresolved,
		Findings:   findings,
		Report:     report,
		Confidence: confidenceResult{Score: score, Label: label},
		Sources:    sources,
	})
}

// FindDrug resolves a single drug query and returns the enriched record.
func (h *HTTPHandlerImpl) FindDrug(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if err := h.validator.ValidateQuery(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog := h.dataStore.GetCatalog()
	drug, ok := h.resolver.ResolveDrug(catalog, query)
	if !ok {
		metrics.ResolutionTotals.WithLabelValues("drug", "unresolved").Inc()
		h.RespondWithError(w, http.StatusNotFound, "Drug not found")
		return
	}

	metrics.ResolutionTotals.WithLabelValues("drug", "resolved").Inc()
	h.RespondWithJSON(w, http.StatusOK, drug)
}

// SuggestDrugs returns canonical names containing the query, for typeahead.
func (h *HTTPHandlerImpl) SuggestDrugs(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if err := h.validator.ValidateQuery(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog := h.dataStore.GetCatalog()
	suggestions := h.resolver.Suggest(catalog, query, suggestionLimit)

	// Always 200 with an array, empty when nothing matches.
	if suggestions == nil {
		suggestions = []string{}
	}
	h.RespondWithJSON(w, http.StatusOK, suggestions)
}

// FindFood resolves a single food query.
func (h *HTTPHandlerImpl) FindFood(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if err := h.validator.ValidateQuery(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog := h.dataStore.GetCatalog()
	food, ok := h.resolver.ResolveFood(catalog, query)
	if !ok {
		metrics.ResolutionTotals.WithLabelValues("food", "unresolved").Inc()
		h.RespondWithError(w, http.StatusNotFound, "Food not found")
		return
	}

	metrics.ResolutionTotals.WithLabelValues("food", "resolved").Inc()
	h.RespondWithJSON(w, http.StatusOK, food)
}

// HealthResponseImpl defines the structure for consistent JSON ordering
type HealthResponseImpl struct {
	Status        string                 `json:"status"`
	LastUpdate    string                 `json:"last_update"`
	DataAgeHours  float64                `json:"data_age_hours"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.dataStore.GetServerStartTime())

	status, data, httpStatus := h.health.HealthCheck()

	response := HealthResponseImpl{
		Status:        status,
		LastUpdate:    h.dataStore.GetLastUpdated().Format(time.RFC3339),
		DataAgeHours:  time.Since(h.dataStore.GetLastUpdated()).Hours(),
		UptimeSeconds: uptime.Seconds(),
		Data:          data,
		System: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// composeReport renders the findings into the plain-text summary handed to
// verification and the uncertainty scan. It is a fixed-format summary, not
// generated language.
func composeReport(drugNames, foodNames []string, findings []entities.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %d drug(s) and %d food(s).", len(drugNames), len(foodNames))

	if len(findings) == 0 {
		b.WriteString(" No known interactions found.")
		return b.String()
	}

	for _, finding := range findings {
		b.WriteString(" ")
		if finding.Second != "" {
			fmt.Fprintf(&b, "[%s/%s] %s + %s: %s", finding.Type, finding.Severity,
				finding.First, finding.Second, finding.Effect)
		} else {
			fmt.Fprintf(&b, "[%s/%s] %s: %s", finding.Type, finding.Severity,
				finding.First, finding.Effect)
		}
	}

	return b.String()
}
