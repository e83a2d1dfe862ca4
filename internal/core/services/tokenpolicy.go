package services

import (
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// SyncTokenPolicy decides between an incremental continuation and a full
// resync. The provider forbids changing the time window while a token is
// active, so a full resync is forced every refresh interval to move the
// window forward.
type SyncTokenPolicy struct {
	refreshInterval time.Duration
	now             func() time.Time
}

// NewSyncTokenPolicy creates a policy using the wall clock.
func NewSyncTokenPolicy(refreshInterval time.Duration) *SyncTokenPolicy {
	return &SyncTokenPolicy{refreshInterval: refreshInterval, now: time.Now}
}

// Decide returns the token to continue from, or "" to force a full resync.
func (p *SyncTokenPolicy) Decide(cal *domain.Calendar, forceFull bool) string {
	if forceFull {
		return ""
	}
	if cal.LastFullSyncAt.IsZero() {
		return ""
	}
	nextDue := cal.LastFullSyncAt.Add(p.refreshInterval)
	if p.now().After(nextDue) {
		return ""
	}
	return cal.ContinuationToken
}
