package services

import (
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// runState is the ephemeral bookkeeping of one orchestrator run.
type runState struct {
	calendar *domain.Calendar
	zone     *time.Location
	owners   *OwnerResolver
	touched  domain.TouchedSet
	stats    *domain.RunStats
}

func newRunState(cal *domain.Calendar, owners *OwnerResolver, stats *domain.RunStats) *runState {
	return &runState{
		calendar: cal,
		zone:     cal.Zone(),
		owners:   owners,
		touched:  domain.NewTouchedSet(),
		stats:    stats,
	}
}
