package notify

import (
	"context"
	"fmt"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure History implements the interface.
var _ driven.SyncListener = (*History)(nil)

// History records every finished run in a SyncRunStore.
type History struct {
	runs driven.SyncRunStore
}

// NewHistory creates a history listener.
func NewHistory(runs driven.SyncRunStore) *History {
	return &History{runs: runs}
}

// PreImport implements driven.SyncListener.
func (h *History) PreImport(context.Context, *domain.Calendar) error { return nil }

// PreResync implements driven.SyncListener.
func (h *History) PreResync(context.Context, *domain.Calendar) error { return nil }

// EventSynced implements driven.SyncListener.
func (h *History) EventSynced(context.Context, *domain.Event, *domain.RemoteEvent) error {
	return nil
}

// PostImport records the run.
func (h *History) PostImport(ctx context.Context, _ *domain.Calendar, run *domain.SyncRun) error {
	if run == nil {
		return nil
	}
	if err := h.runs.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}
