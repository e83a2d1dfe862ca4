package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/logger"
)

// EventReconciler applies pages of remote events to local event records.
type EventReconciler struct {
	events   driven.EventStore
	listener driven.SyncListener
	dates    DateParser
	now      func() time.Time
	newID    func() string
}

// NewEventReconciler creates a reconciler. The listener may be nil.
func NewEventReconciler(events driven.EventStore, listener driven.SyncListener) *EventReconciler {
	return &EventReconciler{
		events:   events,
		listener: listener,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// pageIndex maps remote event ids to the local events of a calendar.
type pageIndex struct {
	byRemoteID map[string]*domain.Event
	counts     map[string]int
}

func (r *EventReconciler) index(ctx context.Context, calendarID string) (*pageIndex, error) {
	events, err := r.events.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	idx := &pageIndex{
		byRemoteID: make(map[string]*domain.Event, len(events)),
		counts:     make(map[string]int, len(events)),
	}
	for i := range events {
		e := &events[i]
		idx.counts[e.RemoteEventID]++
		if _, ok := idx.byRemoteID[e.RemoteEventID]; !ok {
			idx.byRemoteID[e.RemoteEventID] = e
		}
	}
	return idx, nil
}

// ApplyPage reconciles one page of remote events in list order, updating
// the run's touched set and counters.
func (r *EventReconciler) ApplyPage(ctx context.Context, run *runState, items []domain.RemoteEvent) error {
	if len(items) == 0 {
		return nil
	}

	idx, err := r.index(ctx, run.calendar.ID)
	if err != nil {
		return err
	}

	for i := range items {
		remote := &items[i]
		existing := idx.byRemoteID[remote.ID]

		if remote.Status == domain.EventStatusCancelled {
			if err := r.applyCancellation(ctx, run, idx, remote, existing); err != nil {
				return err
			}
			continue
		}

		run.touched.MarkSeen(remote.ID)
		run.stats.Received++

		event, err := r.applyUpdate(ctx, run, remote, existing)
		if err != nil {
			return err
		}

		if existing == nil {
			run.stats.Created++
			idx.byRemoteID[remote.ID] = event
			idx.counts[remote.ID]++
		} else {
			run.stats.Updated++
		}
		run.stats.Saved = run.stats.Created + run.stats.Updated

		r.notify(ctx, event, remote)
	}

	return nil
}

func (r *EventReconciler) applyCancellation(
	ctx context.Context,
	run *runState,
	idx *pageIndex,
	remote *domain.RemoteEvent,
	existing *domain.Event,
) error {
	if existing != nil {
		if n := idx.counts[remote.ID]; n > 1 {
			logger.Warn("Calendar %s: %d local events share remote id %s", run.calendar.ID, n, remote.ID)
		}
		if err := r.events.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete event %s: %w", remote.ID, err)
		}
		delete(idx.byRemoteID, remote.ID)
		idx.counts[remote.ID]--
	}
	run.touched.MarkCancelled(remote.ID)
	run.stats.Cancelled++
	return nil
}

func (r *EventReconciler) applyUpdate(
	ctx context.Context,
	run *runState,
	remote *domain.RemoteEvent,
	existing *domain.Event,
) (*domain.Event, error) {
	created, err := r.dates.ParseAudit(remote.Created)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", remote.ID, err)
	}
	updated, err := r.dates.ParseAudit(remote.Updated)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", remote.ID, err)
	}
	start, err := r.dates.ParseEventTime(remote.Start, run.zone)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", remote.ID, err)
	}
	end := start
	if !remote.End.IsEmpty() {
		end, err = r.dates.ParseEventTime(remote.End, run.zone)
		if err != nil {
			return nil, fmt.Errorf("event %s end: %w", remote.ID, err)
		}
	}

	owner, err := run.owners.Resolve(ctx, remote.Organizer)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", remote.ID, err)
	}

	now := r.now()
	event := existing
	if event == nil {
		event = &domain.Event{
			ID:            r.newID(),
			CalendarID:    run.calendar.ID,
			RemoteEventID: remote.ID,
			CreatedAt:     now,
		}
	}

	event.ICalID = remote.ICalUID
	event.RecurrenceParentID = remote.RecurringEventID
	event.StartAt = start
	event.EndAt = end
	event.EndUnspecified = remote.EndTimeUnspecified
	event.Status = remote.Status
	event.LocalVisible = true
	event.OwnerID = owner
	event.Title = remote.Summary
	event.Description = remote.Description
	event.Location = remote.Location
	event.HTMLLink = remote.HTMLLink
	event.Locked = remote.Locked
	event.Transparency = remote.Transparency
	event.Visibility = remote.Visibility
	event.GuestsCanInviteOthers = remote.GuestsCanInviteOthers
	event.GuestsCanModify = remote.GuestsCanModify
	event.GuestsCanSeeOtherGuests = remote.GuestsCanSeeOtherGuests
	event.Organizer = remote.Organizer
	event.Creator = remote.Creator
	event.RemoteCreatedAt = created
	event.RemoteUpdatedAt = updated
	event.UpdatedAt = now

	if err := r.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event %s: %w", remote.ID, err)
	}
	return event, nil
}

func (r *EventReconciler) notify(ctx context.Context, event *domain.Event, remote *domain.RemoteEvent) {
	if r.listener == nil {
		return
	}
	if err := r.listener.EventSynced(ctx, event, remote); err != nil {
		logger.Warn("Event sync listener failed for %s: %v", remote.ID, err)
	}
}
