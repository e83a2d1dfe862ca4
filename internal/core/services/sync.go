package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// statusProxyAuth is 407 Proxy Authentication Required.
const statusProxyAuth = http.StatusProxyAuthRequired

// SyncOrchestrator runs the synchronisation state machine for one calendar
// at a time: token decision, pagination, reconciliation, cleanup and the
// calendar metadata update.
type SyncOrchestrator struct {
	calendars driven.CalendarStore
	events    driven.EventStore
	feed      driven.RemoteFeed
	accounts  driven.AccountDirectory
	listener  driven.SyncListener
	settings  domain.SyncSettings

	policy     *SyncTokenPolicy
	fetcher    *PageFetcher
	reconciler *EventReconciler
	cleanup    *CleanupEngine

	now   func() time.Time
	newID func() string

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// The accounts directory and listener are optional.
func NewSyncOrchestrator(
	calendars driven.CalendarStore,
	events driven.EventStore,
	feed driven.RemoteFeed,
	accounts driven.AccountDirectory,
	listener driven.SyncListener,
	settings domain.SyncSettings,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		calendars:   calendars,
		events:      events,
		feed:        feed,
		accounts:    accounts,
		listener:    listener,
		settings:    settings,
		policy:      NewSyncTokenPolicy(settings.RefreshInterval),
		fetcher:     NewPageFetcher(feed, settings),
		reconciler:  NewEventReconciler(events, listener),
		cleanup:     NewCleanupEngine(events),
		newID:       func() string { return uuid.New().String() },
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
	o.setClock(time.Now)
	return o
}

// setClock points every component at the same clock.
func (o *SyncOrchestrator) setClock(now func() time.Time) {
	o.now = now
	o.policy.now = now
	o.fetcher.now = now
	o.reconciler.now = now
}

// Sync runs one synchronisation of a calendar.
//
//nolint:gocyclo // State machine with necessary sequential steps
func (o *SyncOrchestrator) Sync(ctx context.Context, calendarID string, forceFull bool) (*domain.Calendar, error) {
	// 1. Load calendar
	cal, err := resolveCalendar(ctx, o.calendars, calendarID)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	if o.feed == nil {
		return nil, fmt.Errorf("sync calendar: remote feed %w", domain.ErrNotConfigured)
	}

	// 2. Entry guard
	if cal.Syncing {
		logger.Info("Calendar %s is already syncing, skipping", cal.ID)
		return cal, nil
	}
	if !o.tryStart(cal.ID) {
		logger.Info("Calendar %s is already syncing in this process, skipping", cal.ID)
		return cal, nil
	}
	defer o.clearStatus(cal.ID)

	run := &domain.SyncRun{ID: o.newID(), CalendarID: cal.ID, StartedAt: o.now()}
	previousStatus := cal.SyncStatus

	// 3. Lock the calendar
	cal.Syncing = true
	cal.SyncStatus = domain.SyncStatusSyncing
	if err := o.calendars.Save(ctx, cal); err != nil {
		return nil, fmt.Errorf("lock calendar: %w", err)
	}

	completed := false
	defer func() {
		if !completed {
			o.abort(ctx, cal, previousStatus)
		}
	}()

	// 4. Token decision
	token := o.policy.Decide(cal, forceFull)
	fullResync := token == ""
	if fullResync {
		logger.Info("Starting full resync for calendar %s", cal.ID)
	} else {
		logger.Info("Starting incremental sync for calendar %s", cal.ID)
	}

	stats := &domain.RunStats{}
	o.setStatus(cal.ID, fullResync, stats)

	// 5. Calendar time zone
	failed := false
	if status, ok := o.refreshZone(ctx, cal); !ok {
		cal.SyncStatus = status
		failed = true
	}

	state := newRunState(cal, NewOwnerResolver(o.accounts, o.settings.Ownership, o.settings.DefaultOwner), stats)
	o.firePreImport(ctx, cal)

	// 6. Pagination
	var lastPage *domain.RemotePage
	pageToken := ""
	restarted := false
	for !failed {
		result := o.fetcher.Fetch(ctx, cal.RemoteID, token, pageToken)

		switch result.Outcome() {
		case FetchData:
			page := result.Page
			if len(page.Items) > 0 {
				if err := o.reconciler.ApplyPage(ctx, state, page.Items); err != nil {
					return nil, fmt.Errorf("apply page: %w", err)
				}
				stats.Pages++
			}
			lastPage = page
			pageToken = page.NextPageToken
			o.setStatus(cal.ID, fullResync, stats)

		case FetchHTTPError:
			switch result.Status {
			case http.StatusGone:
				if restarted {
					logger.Error("Calendar %s: continuation invalidated twice, giving up", cal.ID)
					cal.SyncStatus = domain.SyncStatusCalendarGone
					failed = true
					break
				}
				restarted = true
				logger.Warn("Calendar %s: continuation token invalidated, restarting as full resync", cal.ID)
				if err := o.forceResync(ctx, cal, stats); err != nil {
					return nil, err
				}
				token, pageToken, fullResync, lastPage = "", "", true, nil
				o.setStatus(cal.ID, fullResync, stats)
				continue
			case http.StatusUnauthorized, http.StatusForbidden, statusProxyAuth:
				logger.Error("Calendar %s: authentication failed (status %d)", cal.ID, result.Status)
				cal.SyncStatus = domain.SyncStatusAuthError
				failed = true
			default:
				logger.Error("Calendar %s: feed request failed (status %d)", cal.ID, result.Status)
				cal.SyncStatus = domain.SyncStatusNetworkError
				failed = true
			}

		case FetchEmpty:
			logger.Error("Calendar %s: feed returned no data", cal.ID)
			cal.SyncStatus = domain.SyncStatusNetworkError
			failed = true
		}

		if failed || pageToken == "" {
			break
		}
	}

	// 7. Continuation token
	newToken := ""
	switch {
	case failed:
		cal.ClearToken()
	case lastPage != nil && lastPage.NextSyncToken != "":
		newToken = lastPage.NextSyncToken
		cal.ContinuationToken = newToken
		if fullResync {
			cal.LastFullSyncAt = o.now()
		}
	}

	// 8. Cleanup only after a complete full resync
	if fullResync && newToken != "" {
		horizon := o.settings.PastHorizon.From(o.now()).Unix()
		if _, err := o.cleanup.Cleanup(ctx, cal, state.touched, horizon, o.settings.Cleanup); err != nil {
			return nil, fmt.Errorf("cleanup: %w", err)
		}
	}

	// 9. Final status
	if !cal.SyncStatus.IsError() {
		if stats.Saved > 0 {
			cal.SyncStatus = domain.SyncStatusEventsImported
		} else {
			cal.SyncStatus = domain.SyncStatusNoChanges
		}
	}

	// 10. Release
	cal.LatestSyncAt = o.now()
	cal.Syncing = false
	cal.UpdatedAt = cal.LatestSyncAt
	if err := o.calendars.Save(ctx, cal); err != nil {
		return nil, fmt.Errorf("release calendar: %w", err)
	}
	completed = true

	run.FinishedAt = cal.LatestSyncAt
	run.Full = fullResync
	run.Status = cal.SyncStatus
	run.Stats = *stats
	logger.Info("Calendar %s: %s (%s)", cal.ID, cal.SyncStatus, stats)
	o.firePostImport(ctx, cal, run)

	return cal, nil
}

// Status returns the in-process state of a calendar's sync.
func (o *SyncOrchestrator) Status(ctx context.Context, calendarID string) (*driving.SyncStatus, error) {
	cal, err := resolveCalendar(ctx, o.calendars, calendarID)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[cal.ID]; ok {
		copied := *status
		return &copied, nil
	}
	return &driving.SyncStatus{CalendarID: cal.ID, Running: cal.Syncing}, nil
}

// refreshZone fetches the remote calendar for its time zone. On failure it
// returns the status the run should end with.
func (o *SyncOrchestrator) refreshZone(ctx context.Context, cal *domain.Calendar) (domain.SyncStatus, bool) {
	remote, err := o.feed.GetCalendar(ctx, cal.RemoteID)
	if err != nil {
		status, _ := domain.RemoteStatus(err)
		logger.Error("Calendar %s: get remote calendar failed: %v", cal.ID, err)
		switch status {
		case http.StatusNotFound, http.StatusGone:
			return domain.SyncStatusCalendarGone, false
		case http.StatusUnauthorized, http.StatusForbidden, statusProxyAuth:
			return domain.SyncStatusAuthError, false
		default:
			return domain.SyncStatusNetworkError, false
		}
	}
	if remote != nil && remote.TimeZone != "" {
		cal.TimeZone = remote.TimeZone
	}
	return "", true
}

// forceResync discards the continuation token after the provider
// invalidated it and persists the forced-resync status.
func (o *SyncOrchestrator) forceResync(ctx context.Context, cal *domain.Calendar, stats *domain.RunStats) error {
	stats.Reset()
	cal.ClearToken()
	cal.SyncStatus = domain.SyncStatusForcedResync
	if err := o.calendars.Save(ctx, cal); err != nil {
		return fmt.Errorf("save calendar: %w", err)
	}
	if o.listener != nil {
		if err := o.listener.PreResync(ctx, cal); err != nil {
			logger.Warn("Pre-resync listener failed for %s: %v", cal.ID, err)
		}
	}
	return nil
}

// abort releases a calendar after a propagated error. The previous outcome
// is restored and the token cleared so the next run starts over.
func (o *SyncOrchestrator) abort(ctx context.Context, cal *domain.Calendar, previous domain.SyncStatus) {
	cal.Syncing = false
	cal.SyncStatus = previous
	cal.ClearToken()
	cal.LatestSyncAt = o.now()
	cal.UpdatedAt = cal.LatestSyncAt
	if err := o.calendars.Save(context.WithoutCancel(ctx), cal); err != nil {
		logger.Error("Calendar %s: failed to release after error: %v", cal.ID, err)
	}
}

func (o *SyncOrchestrator) firePreImport(ctx context.Context, cal *domain.Calendar) {
	if o.listener == nil {
		return
	}
	if err := o.listener.PreImport(ctx, cal); err != nil {
		logger.Warn("Pre-import listener failed for %s: %v", cal.ID, err)
	}
}

func (o *SyncOrchestrator) firePostImport(ctx context.Context, cal *domain.Calendar, run *domain.SyncRun) {
	if o.listener == nil {
		return
	}
	if err := o.listener.PostImport(ctx, cal, run); err != nil {
		logger.Warn("Post-import listener failed for %s: %v", cal.ID, err)
	}
}

// tryStart registers an in-process run. It returns false when one is active.
func (o *SyncOrchestrator) tryStart(calendarID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.activeSyncs[calendarID]; ok {
		return false
	}
	o.activeSyncs[calendarID] = &driving.SyncStatus{CalendarID: calendarID, Running: true}
	return true
}

func (o *SyncOrchestrator) setStatus(calendarID string, full bool, stats *domain.RunStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.activeSyncs[calendarID] = &driving.SyncStatus{
		CalendarID: calendarID,
		Running:    true,
		Full:       full,
		Stats:      *stats,
	}
}

func (o *SyncOrchestrator) clearStatus(calendarID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, calendarID)
}

// resolveCalendar finds a calendar by local ID, then by remote ID.
func resolveCalendar(ctx context.Context, store driven.CalendarStore, id string) (*domain.Calendar, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty calendar id", domain.ErrInvalidInput)
	}
	cal, err := store.Get(ctx, id)
	if err == nil {
		return cal, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return store.GetByRemoteID(ctx, id)
}
