package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// CalendarStore persists Calendar records and their sync metadata.
type CalendarStore interface {
	// Save stores or updates a calendar.
	Save(ctx context.Context, cal *domain.Calendar) error

	// Get retrieves a calendar by local ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Calendar, error)

	// GetByRemoteID retrieves a calendar by the provider's calendar ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetByRemoteID(ctx context.Context, remoteID string) (*domain.Calendar, error)

	// List returns all calendars ordered by name.
	List(ctx context.Context) ([]domain.Calendar, error)

	// Delete removes a calendar.
	Delete(ctx context.Context, id string) error
}
