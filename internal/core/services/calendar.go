package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/logger"
)

// Ensure CalendarService implements the interface.
var _ driving.CalendarService = (*CalendarService)(nil)

// CalendarService manages local calendars and their events.
type CalendarService struct {
	calendars driven.CalendarStore
	events    driven.EventStore
	runs      driven.SyncRunStore
	feed      driven.RemoteFeed
	exporter  driven.EventExporter
	now       func() time.Time
}

// NewCalendarService creates a calendar service. The run store, feed and
// exporter are optional; operations needing a missing one fail with
// domain.ErrNotConfigured.
func NewCalendarService(
	calendars driven.CalendarStore,
	events driven.EventStore,
	runs driven.SyncRunStore,
	feed driven.RemoteFeed,
	exporter driven.EventExporter,
) *CalendarService {
	return &CalendarService{
		calendars: calendars,
		events:    events,
		runs:      runs,
		feed:      feed,
		exporter:  exporter,
		now:       time.Now,
	}
}

// Import creates or refreshes a local calendar from the remote one.
func (s *CalendarService) Import(ctx context.Context, remoteID string) (*domain.Calendar, error) {
	if remoteID == "" {
		return nil, fmt.Errorf("%w: empty remote calendar id", domain.ErrInvalidInput)
	}
	if s.feed == nil {
		return nil, fmt.Errorf("import calendar: remote feed %w", domain.ErrNotConfigured)
	}

	remote, err := s.feed.GetCalendar(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("get remote calendar: %w", classifyRemote(err))
	}

	now := s.now()
	cal, err := s.calendars.GetByRemoteID(ctx, remoteID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cal = &domain.Calendar{
			ID:           uuid.New().String(),
			RemoteID:     remoteID,
			SyncStatus:   domain.SyncStatusNeverSynced,
			LatestSyncAt: now,
			CreatedAt:    now,
		}
		logger.Info("Importing calendar %s", remoteID)
	case err != nil:
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	cal.Name = remote.Name
	cal.Description = remote.Description
	cal.Location = remote.Location
	if remote.TimeZone != "" {
		cal.TimeZone = remote.TimeZone
	}
	cal.UpdatedAt = now

	if err := s.calendars.Save(ctx, cal); err != nil {
		return nil, fmt.Errorf("save calendar: %w", err)
	}
	return cal, nil
}

// Resolve finds a calendar by local ID, falling back to remote ID.
func (s *CalendarService) Resolve(ctx context.Context, idOrRemoteID string) (*domain.Calendar, error) {
	return resolveCalendar(ctx, s.calendars, idOrRemoteID)
}

// List returns all local calendars.
func (s *CalendarService) List(ctx context.Context) ([]domain.Calendar, error) {
	return s.calendars.List(ctx)
}

// ListRemote returns the calendars visible to the remote account.
func (s *CalendarService) ListRemote(ctx context.Context) ([]domain.RemoteCalendar, error) {
	if s.feed == nil {
		return nil, fmt.Errorf("list remote calendars: remote feed %w", domain.ErrNotConfigured)
	}
	cals, err := s.feed.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote calendars: %w", classifyRemote(err))
	}
	return cals, nil
}

// Events returns a calendar's local events ordered by start.
func (s *CalendarService) Events(ctx context.Context, calendarID string) ([]domain.Event, error) {
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	return s.events.ListByCalendar(ctx, cal.ID)
}

// History returns recent sync runs, newest first.
func (s *CalendarService) History(ctx context.Context, calendarID string, limit int) ([]domain.SyncRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("sync history %w", domain.ErrNotConfigured)
	}
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListRuns(ctx, cal.ID, limit)
}

// ResetToken discards the continuation token so the next sync is full.
func (s *CalendarService) ResetToken(ctx context.Context, calendarID string) (*domain.Calendar, error) {
	return s.update(ctx, calendarID, func(cal *domain.Calendar) {
		cal.ClearToken()
		cal.LastFullSyncAt = time.Time{}
		cal.SyncStatus = domain.SyncStatusForcedResync
	})
}

// Unlock clears a stale syncing flag left behind by a crashed run.
func (s *CalendarService) Unlock(ctx context.Context, calendarID string) (*domain.Calendar, error) {
	return s.update(ctx, calendarID, func(cal *domain.Calendar) {
		if cal.Syncing {
			logger.Warn("Clearing stale sync lock on calendar %s", cal.ID)
		}
		cal.Syncing = false
		if cal.SyncStatus == domain.SyncStatusSyncing {
			cal.SyncStatus = domain.SyncStatusForcedResync
			cal.ClearToken()
		}
	})
}

// DeleteEvents removes every local event of a calendar and clears its token.
func (s *CalendarService) DeleteEvents(ctx context.Context, calendarID string) error {
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return err
	}
	if err := s.events.DeleteByCalendar(ctx, cal.ID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	_, err = s.update(ctx, cal.ID, func(cal *domain.Calendar) {
		cal.ClearToken()
		cal.LastFullSyncAt = time.Time{}
	})
	return err
}

// Remove deletes a calendar together with its events and history.
func (s *CalendarService) Remove(ctx context.Context, calendarID string) error {
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return err
	}
	if cal.Syncing {
		return fmt.Errorf("remove calendar %s: %w", cal.ID, domain.ErrSyncInProgress)
	}
	if err := s.events.DeleteByCalendar(ctx, cal.ID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	if s.runs != nil {
		if err := s.runs.DeleteRuns(ctx, cal.ID); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
	}
	if err := s.calendars.Delete(ctx, cal.ID); err != nil {
		return fmt.Errorf("delete calendar: %w", err)
	}
	return nil
}

// Export writes the calendar's visible events to w.
func (s *CalendarService) Export(ctx context.Context, calendarID string, w io.Writer) error {
	if s.exporter == nil {
		return fmt.Errorf("export %w", domain.ErrNotConfigured)
	}
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return err
	}
	events, err := s.events.ListByCalendar(ctx, cal.ID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	visible := make([]domain.Event, 0, len(events))
	for i := range events {
		if events[i].LocalVisible {
			visible = append(visible, events[i])
		}
	}
	if err := s.exporter.Export(w, cal, visible); err != nil {
		return fmt.Errorf("export events: %w", err)
	}
	return nil
}

// update applies fn to a calendar and saves it.
func (s *CalendarService) update(ctx context.Context, calendarID string, fn func(*domain.Calendar)) (*domain.Calendar, error) {
	cal, err := s.Resolve(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	fn(cal)
	cal.UpdatedAt = s.now()
	if err := s.calendars.Save(ctx, cal); err != nil {
		return nil, fmt.Errorf("save calendar: %w", err)
	}
	return cal, nil
}

// classifyRemote maps provider statuses onto domain errors.
func classifyRemote(err error) error {
	status, ok := domain.RemoteStatus(err)
	if !ok {
		return err
	}
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusUnauthorized, http.StatusForbidden, statusProxyAuth:
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
	default:
		return err
	}
}
