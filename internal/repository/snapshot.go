package repository

import (
	"time"

	"prodboard/pkg/contracts/domain"
)

// Snapshot is one immutable result of loading every source. Callers must
// not modify the slices or tables it holds.
type Snapshot struct {
	Records []domain.ProductionRecord
	// Columns is the renamed orders header.
	Columns []string
	// Dropped counts orders rows excluded at load time.
	Dropped int

	Capacity []domain.CapacityRecord
	// Sectors holds the sector tables that loaded; a degraded sector is
	// absent.
	Sectors map[domain.Sector]*domain.SectorCostTable
	// Composition is nil when the composition sources are not configured or
	// failed to load.
	Composition *domain.CompositionTables

	Warnings []string
	LoadedAt time.Time
	Duration time.Duration
}

// Sector returns the table of s, nil when it is unavailable.
func (s *Snapshot) Sector(sec domain.Sector) *domain.SectorCostTable {
	if s == nil {
		return nil
	}
	return s.Sectors[sec]
}
