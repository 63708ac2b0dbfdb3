// Package data provides thread-safe storage for the catalog snapshot.
// It holds the current immutable catalog behind an atomic pointer so that
// refreshes swap the whole snapshot with zero downtime while in-flight
// requests keep reading the one they started with.
package data

import (
	"sync/atomic"
	"time"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the catalog snapshot with atomic pointers for
// zero-downtime updates.
type DataContainer struct {
	catalog         atomic.Value // *entities.Catalog
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container serving an empty catalog until the
// first load completes.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.catalog.Store(entities.EmptyCatalog())
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetCatalog returns the current catalog snapshot. Callers must treat the
// returned catalog as read-only.
func (dc *DataContainer) GetCatalog() *entities.Catalog {
	if v := dc.catalog.Load(); v != nil {
		if catalog, ok := v.(*entities.Catalog); ok {
			return catalog
		}
	}

	logging.Warn("Catalog snapshot is empty or invalid")
	return entities.EmptyCatalog()
}

// GetLastUpdated returns the timestamp of the last catalog swap.
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog rebuild is currently in progress.
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time.
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateCatalog atomically swaps in a new catalog snapshot.
func (dc *DataContainer) UpdateCatalog(catalog *entities.Catalog) {
	if catalog == nil {
		logging.Warn("Refusing to store a nil catalog")
		return
	}

	dc.catalog.Store(catalog)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a catalog rebuild.
// Returns true if the rebuild can proceed, false if another is in progress.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a catalog rebuild.
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
