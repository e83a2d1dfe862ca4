package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// SyncRunStore persists run history.
type SyncRunStore interface {
	// RecordRun stores the outcome of one run.
	RecordRun(ctx context.Context, run *domain.SyncRun) error

	// ListRuns returns the most recent runs for a calendar, newest first.
	ListRuns(ctx context.Context, calendarID string, limit int) ([]domain.SyncRun, error)

	// DeleteRuns removes the history of a calendar.
	DeleteRuns(ctx context.Context, calendarID string) error
}
