// Package calendar implements the remote change feed on the Google Calendar API.
package calendar

import (
	"context"
	"errors"
	"strconv"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/calsync/internal/connectors/google"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/logger"
)

// Ensure Feed implements the interface.
var _ driven.RemoteFeed = (*Feed)(nil)

// Feed reads events and calendars through the Google Calendar API.
// Requests are throttled and never retried.
type Feed struct {
	svc     *calendar.Service
	limiter *google.RateLimiter
}

// NewFeed creates a feed over an authenticated service.
func NewFeed(svc *calendar.Service, limiter *google.RateLimiter) *Feed {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.DefaultRateLimit)
	}
	return &Feed{svc: svc, limiter: limiter}
}

// ListEvents implements driven.RemoteFeed.
func (f *Feed) ListEvents(ctx context.Context, remoteCalendarID string, query domain.FeedQuery) (*domain.RemotePage, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := f.svc.Events.List(remoteCalendarID).Context(ctx)
	if query.PageToken != "" {
		call = call.PageToken(query.PageToken)
	}
	if query.IsIncremental() {
		// The API rejects any filter sent alongside a sync token.
		call = call.SyncToken(query.SyncToken)
	} else {
		if query.TimeMin != "" {
			call = call.TimeMin(query.TimeMin)
		}
		if query.TimeMax != "" {
			call = call.TimeMax(query.TimeMax)
		}
		if query.MaxResults > 0 {
			call = call.MaxResults(query.MaxResults)
		}
		call = call.ShowDeleted(query.ShowDeleted).SingleEvents(query.SingleEvents)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, f.fail(err)
	}

	page := &domain.RemotePage{
		Items:         make([]domain.RemoteEvent, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		NextSyncToken: resp.NextSyncToken,
	}
	for _, item := range resp.Items {
		if item == nil || item.Id == "" {
			continue
		}
		page.Items = append(page.Items, EventToRemote(item))
	}

	logger.Debug("Fetched %d events from %s", len(page.Items), remoteCalendarID)
	return page, nil
}

// GetCalendar implements driven.RemoteFeed.
func (f *Feed) GetCalendar(ctx context.Context, remoteCalendarID string) (*domain.RemoteCalendar, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cal, err := f.svc.Calendars.Get(remoteCalendarID).Context(ctx).Do()
	if err != nil {
		return nil, f.fail(err)
	}
	return CalendarToRemote(cal), nil
}

// ListCalendars implements driven.RemoteFeed.
func (f *Feed) ListCalendars(ctx context.Context) ([]domain.RemoteCalendar, error) {
	var calendars []domain.RemoteCalendar
	pageToken := ""
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := f.svc.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, f.fail(err)
		}
		for _, entry := range resp.Items {
			if entry != nil {
				calendars = append(calendars, ListEntryToRemote(entry))
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return calendars, nil
		}
	}
}

// fail translates err and starts a backoff window on 429.
func (f *Feed) fail(err error) error {
	if google.IsRateLimited(err) {
		f.limiter.RecordRateLimitError(retryAfter(err))
	}
	return google.WrapError(err)
}

// retryAfter reads the Retry-After hint in seconds, if any.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
