package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// RemoteFeed is the calendar provider's paginated change feed.
//
// Failures must carry the provider's HTTP-style status as a
// *domain.RemoteError so that 410 can be told apart from 401/403/407
// and from every other failure.
type RemoteFeed interface {
	// ListEvents fetches one page of events for a remote calendar.
	ListEvents(ctx context.Context, remoteCalendarID string, query domain.FeedQuery) (*domain.RemotePage, error)

	// GetCalendar fetches the remote calendar's description and time zone.
	GetCalendar(ctx context.Context, remoteCalendarID string) (*domain.RemoteCalendar, error)

	// ListCalendars returns the calendars visible to the account.
	ListCalendars(ctx context.Context) ([]domain.RemoteCalendar, error)
}
