// Package interfaces defines core abstractions for the interactions API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
)

// HTTPHandler defines the contract for the HTTP request handlers.
type HTTPHandler interface {
	AnalyzeInteractions(w http.ResponseWriter, r *http.Request)
	FindDrug(w http.ResponseWriter, r *http.Request)
	SuggestDrugs(w http.ResponseWriter, r *http.Request)
	FindFood(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// DataStore defines the contract for catalog storage. It provides
// thread-safe access to the current catalog snapshot with atomic swaps for
// zero-downtime refreshes.
type DataStore interface {
	// GetCatalog returns the current immutable catalog snapshot.
	GetCatalog() *entities.Catalog
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	// UpdateCatalog atomically replaces the served snapshot.
	UpdateCatalog(catalog *entities.Catalog)
	BeginUpdate() bool
	EndUpdate()
}

// HealthChecker defines the contract for deriving service health from the
// catalog state.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}

// CatalogParser defines the contract for loading the source tables into a
// catalog snapshot.
type CatalogParser interface {
	ParseCatalog() (*entities.Catalog, error)
}

// Scheduler defines the contract for the catalog refresh schedule.
type Scheduler interface {
	Start() error
	Stop()
}

// VerificationResult is the outcome of the web-verification collaborator.
type VerificationResult struct {
	Score       int      `json:"score"`
	Sources     []string `json:"sources"`
	Explanation string   `json:"explanation"`
}

// Verifier defines the contract for the external web-verification
// collaborator. Implementations must degrade to a neutral default result on
// failure or timeout instead of returning an error.
type Verifier interface {
	Verify(ctx context.Context, query, answer string) VerificationResult
}

// HistoryEntry is the payload handed to the history-logging collaborator.
type HistoryEntry struct {
	Drugs           []string           `json:"drugs"`
	Foods           []string           `json:"foods"`
	Findings        []entities.Finding `json:"findings"`
	ConfidenceScore int                `json:"confidence_score"`
	ConfidenceLabel string             `json:"confidence_label"`
	RecordedAt      time.Time          `json:"recorded_at"`
}

// HistorySink defines the contract for the history-logging collaborator.
// The core only produces the payload; persistence happens elsewhere and its
// failures must not surface to the request path.
type HistorySink interface {
	Record(ctx context.Context, entry HistoryEntry)
}

// QueryValidator defines the contract for validating and filtering raw
// resolution queries before they reach the resolver.
type QueryValidator interface {
	ValidateQuery(input string) error
	FilterTokens(queries []string) []string
}
