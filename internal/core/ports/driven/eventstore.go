package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// EventStore persists Event records. Events belong to exactly one calendar
// and are keyed by remote event id within it.
type EventStore interface {
	// Save stores or updates an event.
	Save(ctx context.Context, event *domain.Event) error

	// Get retrieves an event by local ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Event, error)

	// ListByCalendar returns every event of a calendar ordered by start time.
	ListByCalendar(ctx context.Context, calendarID string) ([]domain.Event, error)

	// Delete removes an event by local ID. Deleting a missing event is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByCalendar removes all events of a calendar.
	DeleteByCalendar(ctx context.Context, calendarID string) error
}
