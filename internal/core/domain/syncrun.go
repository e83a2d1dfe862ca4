package domain

import "time"

// SyncRun is the recorded outcome of one orchestrator run.
type SyncRun struct {
	// ID is the unique identifier for the run.
	ID string

	// CalendarID identifies the calendar that was synced.
	CalendarID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run released the calendar.
	FinishedAt time.Time

	// Full is true when the run performed a full resync.
	Full bool

	// Status is the calendar status the run finished with.
	Status SyncStatus

	// Stats holds the run counters.
	Stats RunStats
}

// Duration returns how long the run took.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
