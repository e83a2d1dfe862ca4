package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// SyncListener receives fire-and-forget notifications from a sync run.
// Errors returned by listeners are logged and never abort the run.
type SyncListener interface {
	// PreImport fires after the calendar is locked and before paging starts.
	PreImport(ctx context.Context, cal *domain.Calendar) error

	// PreResync fires when the provider invalidates the continuation token
	// and the run restarts as a full resync.
	PreResync(ctx context.Context, cal *domain.Calendar) error

	// EventSynced fires after an event has been created or updated.
	EventSynced(ctx context.Context, local *domain.Event, remote *domain.RemoteEvent) error

	// PostImport fires after the calendar has been released.
	PostImport(ctx context.Context, cal *domain.Calendar, run *domain.SyncRun) error
}
