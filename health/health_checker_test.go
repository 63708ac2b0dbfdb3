package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
)

// stubStore lets tests control catalog content and snapshot age directly.
type stubStore struct {
	catalog     *entities.Catalog
	lastUpdated time.Time
	updating    bool
}

func (s *stubStore) GetCatalog() *entities.Catalog  { return s.catalog }
func (s *stubStore) GetLastUpdated() time.Time      { return s.lastUpdated }
func (s *stubStore) IsUpdating() bool               { return s.updating }
func (s *stubStore) GetServerStartTime() time.Time  { return time.Time{} }
func (s *stubStore) SetServerStartTime(time.Time)   {}
func (s *stubStore) UpdateCatalog(*entities.Catalog) {}
func (s *stubStore) BeginUpdate() bool              { return true }
func (s *stubStore) EndUpdate()                     {}

func loadedCatalog() *entities.Catalog {
	catalog := entities.EmptyCatalog()
	catalog.Drugs["parol"] = entities.DrugRecord{Name: "parol"}
	return catalog
}

func TestHealthCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		catalog    *entities.Catalog
		age        time.Duration
		wantStatus string
		wantHTTP   int
	}{
		{"fresh catalog", loadedCatalog(), time.Hour, "healthy", http.StatusOK},
		{"missed one rebuild", loadedCatalog(), 26 * time.Hour, "degraded", http.StatusOK},
		{"missed two rebuilds", loadedCatalog(), 49 * time.Hour, "unhealthy", http.StatusServiceUnavailable},
		{"empty catalog", entities.EmptyCatalog(), time.Hour, "unhealthy", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker(&stubStore{
				catalog:     tt.catalog,
				lastUpdated: time.Now().Add(-tt.age),
			})

			status, data, httpStatus := checker.HealthCheck()
			if status != tt.wantStatus || httpStatus != tt.wantHTTP {
				t.Errorf("expected %s/%d, got %s/%d", tt.wantStatus, tt.wantHTTP, status, httpStatus)
			}
			if data["drugs"] != len(tt.catalog.Drugs) {
				t.Errorf("expected drug count %d, got %v", len(tt.catalog.Drugs), data["drugs"])
			}
		})
	}
}

func TestHealthCheckReportsUpdateInProgress(t *testing.T) {
	checker := NewHealthChecker(&stubStore{
		catalog:     loadedCatalog(),
		lastUpdated: time.Now(),
		updating:    true,
	})

	_, data, _ := checker.HealthCheck()
	if data["is_updating"] != true {
		t.Errorf("expected is_updating true, got %v", data["is_updating"])
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	checker := NewHealthChecker(&stubStore{catalog: entities.EmptyCatalog()})

	next := checker.CalculateNextUpdate()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("expected the next update in the future, got %v", next)
	}
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("expected a 06:00 schedule, got %v", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Errorf("expected the next update within a day, got %v", next)
	}
}
