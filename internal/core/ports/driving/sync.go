package driving

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// SyncService is the sole entry point for synchronising a calendar.
type SyncService interface {
	// Sync runs one synchronisation of a calendar identified by local or
	// remote ID. Provider failures are reported through the returned
	// calendar's SyncStatus, never as an error. Errors are returned only
	// for unknown calendars, malformed remote data and storage failures.
	Sync(ctx context.Context, calendarID string, forceFull bool) (*domain.Calendar, error)

	// Status returns the in-process state of a calendar's sync.
	Status(ctx context.Context, calendarID string) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// CalendarID identifies the calendar.
	CalendarID string

	// Running indicates if a sync is currently in progress in this process.
	Running bool

	// Full is true when the running sync is a full resync.
	Full bool

	// Stats holds the counters of the running sync.
	Stats domain.RunStats
}
