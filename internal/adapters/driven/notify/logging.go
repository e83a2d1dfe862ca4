package notify

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/logger"
)

// Ensure Logging implements the interface.
var _ driven.SyncListener = Logging{}

// Logging reports run progress through the package logger. Per-event
// messages are debug level.
type Logging struct{}

// PreImport implements driven.SyncListener.
func (Logging) PreImport(_ context.Context, cal *domain.Calendar) error {
	logger.Info("Importing calendar %s (%s)", cal.Name, cal.RemoteID)
	return nil
}

// PreResync implements driven.SyncListener.
func (Logging) PreResync(_ context.Context, cal *domain.Calendar) error {
	logger.Warn("Calendar %s requires a full resync", cal.Name)
	return nil
}

// EventSynced implements driven.SyncListener.
func (Logging) EventSynced(_ context.Context, local *domain.Event, remote *domain.RemoteEvent) error {
	logger.Debug("Synced event %s as %s: %q", remote.ID, local.ID, local.Title)
	return nil
}

// PostImport implements driven.SyncListener.
func (Logging) PostImport(_ context.Context, cal *domain.Calendar, run *domain.SyncRun) error {
	if run.Status.IsError() {
		logger.Warn("Calendar %s finished with %s after %s", cal.Name, run.Status, run.Duration())
		return nil
	}
	logger.Info("Calendar %s finished with %s after %s (%s)", cal.Name, run.Status, run.Duration(), run.Stats)
	return nil
}
