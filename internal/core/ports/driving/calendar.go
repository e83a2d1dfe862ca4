package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// CalendarService manages synchronised calendars and their local events.
type CalendarService interface {
	// Import creates or refreshes a local calendar from the remote one.
	Import(ctx context.Context, remoteID string) (*domain.Calendar, error)

	// Resolve finds a calendar by local ID, falling back to remote ID.
	Resolve(ctx context.Context, idOrRemoteID string) (*domain.Calendar, error)

	// List returns all local calendars.
	List(ctx context.Context) ([]domain.Calendar, error)

	// ListRemote returns the calendars visible to the remote account.
	ListRemote(ctx context.Context) ([]domain.RemoteCalendar, error)

	// Events returns a calendar's local events ordered by start.
	Events(ctx context.Context, calendarID string) ([]domain.Event, error)

	// History returns recent sync runs, newest first.
	History(ctx context.Context, calendarID string, limit int) ([]domain.SyncRun, error)

	// ResetToken discards the continuation token so the next sync is full.
	ResetToken(ctx context.Context, calendarID string) (*domain.Calendar, error)

	// Unlock clears a stale syncing flag left behind by a crashed run.
	Unlock(ctx context.Context, calendarID string) (*domain.Calendar, error)

	// DeleteEvents removes every local event of a calendar.
	DeleteEvents(ctx context.Context, calendarID string) error

	// Remove deletes a calendar together with its events and history.
	Remove(ctx context.Context, calendarID string) error

	// Export writes the calendar's visible events to w.
	Export(ctx context.Context, calendarID string, w io.Writer) error
}
