// Package scheduler provides automated catalog refresh scheduling and
// staleness monitoring for the interactions API. It coordinates rebuilds
// with the data container using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/logging"
	"github.com/nutrimed/interactions-api/metrics"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog rebuilds and staleness monitoring using
// dependency injection.
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.CatalogParser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.CatalogParser) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial catalog load, schedules the daily rebuild and
// starts staleness monitoring.
func (s *Scheduler) Start() error {
	if err := s.rebuildCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	// Rebuild daily at 06:00, before the morning traffic peak.
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.rebuildCatalog(); err != nil {
			logging.Error("Failed to rebuild catalog", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule catalog rebuilds", "error", err)
		return fmt.Errorf("failed to schedule catalog rebuilds: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// rebuildCatalog parses the source tables and atomically swaps the served
// snapshot.
func (s *Scheduler) rebuildCatalog() error {
	// Prevent concurrent rebuilds
	if !s.dataStore.BeginUpdate() {
		logging.Info("Catalog rebuild already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting catalog rebuild", "time", time.Now().Format(time.RFC3339))
	start := time.Now()

	catalog, err := s.parser.ParseCatalog()
	if err != nil {
		logging.Error("Failed to parse catalog", "error", err)
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(catalog.Drugs) == 0 {
		logging.Error("Parsed catalog has no drugs, keeping current snapshot")
		return fmt.Errorf("parsed catalog has no drugs")
	}

	s.dataStore.UpdateCatalog(catalog)

	metrics.CatalogDrugs.Set(float64(len(catalog.Drugs)))
	metrics.CatalogFoods.Set(float64(len(catalog.Foods)))

	elapsed := time.Since(start)
	logging.Info("Catalog rebuild completed",
		"duration", elapsed.String(),
		"drug_count", len(catalog.Drugs),
		"food_count", len(catalog.Foods),
	)

	return nil
}

// startStalenessMonitoring warns when the snapshot misses a rebuild cycle.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Catalog hasn't been rebuilt in over 25 hours")
			}
		}
	}()
}
