package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

func newTestReconciler(events driven.EventStore, listener driven.SyncListener) *EventReconciler {
	r := NewEventReconciler(events, listener)
	r.now = fixedClock
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("local-%d", n)
	}
	return r
}

func newTestRun(cal *domain.Calendar) *runState {
	return newRunState(cal, NewOwnerResolver(nil, domain.OwnershipFixed, "7"), &domain.RunStats{})
}

func TestEventReconciler_CreatesEvents(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	listener := &recordingListener{}
	r := newTestReconciler(events, listener)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	err := r.ApplyPage(context.Background(), run, []domain.RemoteEvent{remoteEvent("a", 9), remoteEvent("b", 11)})
	require.NoError(t, err)

	stored, err := events.ListByCalendar(context.Background(), "cal-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)

	first := stored[0]
	assert.Equal(t, "local-1", first.ID)
	assert.Equal(t, "a", first.RemoteEventID)
	assert.Equal(t, "a@google.com", first.ICalID)
	assert.Equal(t, "Event a", first.Title)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC).Unix(), first.StartAt)
	assert.Equal(t, time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC).Unix(), first.EndAt)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).Unix(), first.RemoteCreatedAt)
	assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC).Unix(), first.RemoteUpdatedAt)
	assert.Equal(t, "7", first.OwnerID)
	assert.True(t, first.LocalVisible)
	assert.Equal(t, testNow, first.CreatedAt)

	assert.Equal(t, 2, run.stats.Received)
	assert.Equal(t, 2, run.stats.Created)
	assert.Equal(t, 0, run.stats.Updated)
	assert.Equal(t, 2, run.stats.Saved)
	assert.True(t, run.touched.Contains("a"))
	assert.True(t, run.touched["b"])
	assert.Equal(t, []string{"a->local-1", "b->local-2"}, listener.synced)
}

func TestEventReconciler_UpdatesExistingEvent(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	created := testNow.Add(-48 * time.Hour)
	require.NoError(t, events.EventStore.Save(ctx, &domain.Event{
		ID:            "existing",
		CalendarID:    "cal-1",
		RemoteEventID: "a",
		Title:         "Old title",
		LocalVisible:  false,
		CreatedAt:     created,
	}))

	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	require.NoError(t, r.ApplyPage(ctx, run, []domain.RemoteEvent{remoteEvent("a", 9)}))

	stored, err := events.Get(ctx, "existing")
	require.NoError(t, err)
	assert.Equal(t, "Event a", stored.Title)
	assert.True(t, stored.LocalVisible)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, testNow, stored.UpdatedAt)
	assert.Equal(t, 1, events.EventStore.Count())
	assert.Equal(t, 1, run.stats.Updated)
	assert.Equal(t, 0, run.stats.Created)
	assert.Equal(t, 1, run.stats.Saved)
}

func TestEventReconciler_RepeatedItemOnPage(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	updated := remoteEvent("a", 9)
	updated.Summary = "Renamed"
	require.NoError(t, r.ApplyPage(context.Background(), run, []domain.RemoteEvent{remoteEvent("a", 9), updated}))

	assert.Equal(t, 1, events.EventStore.Count())
	assert.Equal(t, 1, run.stats.Created)
	assert.Equal(t, 1, run.stats.Updated)

	stored, err := events.Get(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestEventReconciler_Cancellation(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	require.NoError(t, events.EventStore.Save(ctx, &domain.Event{ID: "existing", CalendarID: "cal-1", RemoteEventID: "a"}))

	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	err := r.ApplyPage(ctx, run, []domain.RemoteEvent{cancelledEvent("a"), cancelledEvent("never-seen")})
	require.NoError(t, err)

	assert.Equal(t, 0, events.EventStore.Count())
	assert.Equal(t, 2, run.stats.Cancelled)
	assert.Equal(t, 0, run.stats.Received)
	assert.Equal(t, 0, run.stats.Saved)
	seen, ok := run.touched["a"]
	assert.True(t, ok)
	assert.False(t, seen)
	assert.True(t, run.touched.Contains("never-seen"))
	assert.False(t, run.touched["never-seen"])
}

func TestEventReconciler_CancellationWithDuplicates(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	require.NoError(t, events.EventStore.Save(ctx, &domain.Event{ID: "dup-1", CalendarID: "cal-1", RemoteEventID: "a", StartAt: 1}))
	require.NoError(t, events.EventStore.Save(ctx, &domain.Event{ID: "dup-2", CalendarID: "cal-1", RemoteEventID: "a", StartAt: 2}))

	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	require.NoError(t, r.ApplyPage(ctx, run, []domain.RemoteEvent{cancelledEvent("a")}))

	assert.Equal(t, 1, events.EventStore.Count())
	_, err := events.Get(ctx, "dup-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventReconciler_CancelThenRecreate(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	require.NoError(t, events.EventStore.Save(ctx, &domain.Event{ID: "existing", CalendarID: "cal-1", RemoteEventID: "a"}))

	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	require.NoError(t, r.ApplyPage(ctx, run, []domain.RemoteEvent{cancelledEvent("a"), remoteEvent("a", 9)}))

	stored, err := events.ListByCalendar(ctx, "cal-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "local-1", stored[0].ID)
	assert.True(t, run.touched["a"])
	assert.Equal(t, 1, run.stats.Created)
}

func TestEventReconciler_AllDayAndMissingEnd(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1", TimeZone: "Europe/Paris"})

	allDay := domain.RemoteEvent{
		ID:     "holiday",
		Status: domain.EventStatusConfirmed,
		Start:  domain.RemoteDateTime{Date: "2024-07-14"},
		End:    domain.RemoteDateTime{Date: "2024-07-15"},
	}
	openEnded := domain.RemoteEvent{
		ID:                 "reminder",
		Status:             domain.EventStatusTentative,
		Start:              domain.RemoteDateTime{DateTime: "2024-07-14T08:00:00Z"},
		EndTimeUnspecified: true,
	}
	require.NoError(t, r.ApplyPage(ctx, run, []domain.RemoteEvent{allDay, openEnded}))

	holiday, err := events.Get(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 13, 22, 0, 0, 0, time.UTC).Unix(), holiday.StartAt)
	assert.Equal(t, time.Date(2024, 7, 14, 22, 0, 0, 0, time.UTC).Unix(), holiday.EndAt)

	reminder, err := events.Get(ctx, "local-2")
	require.NoError(t, err)
	assert.Equal(t, reminder.StartAt, reminder.EndAt)
	assert.True(t, reminder.EndUnspecified)
	assert.Equal(t, domain.EventStatusTentative, reminder.Status)
}

func TestEventReconciler_ResolvesOwnerFromOrganizer(t *testing.T) {
	ctx := context.Background()
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)
	cal := &domain.Calendar{ID: "cal-1"}
	run := newRunState(cal, NewOwnerResolver(newDirectory(t), domain.OwnershipByEmail, ""), &domain.RunStats{})

	stranger := remoteEvent("b", 10)
	stranger.Organizer = domain.Person{Email: "nobody@example.com"}
	require.NoError(t, r.ApplyPage(ctx, run, []domain.RemoteEvent{remoteEvent("a", 9), stranger}))

	a, err := events.Get(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, "42", a.OwnerID)

	b, err := events.Get(ctx, "local-2")
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousAccount, b.OwnerID)
}

func TestEventReconciler_InvalidDateFailsPage(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	broken := remoteEvent("a", 9)
	broken.Start = domain.RemoteDateTime{DateTime: "not a time"}

	err := r.ApplyPage(context.Background(), run, []domain.RemoteEvent{broken})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Equal(t, 0, events.EventStore.Count())
}

func TestEventReconciler_SaveErrorPropagates(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore(), saveErr: errors.New("disk full")}
	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	err := r.ApplyPage(context.Background(), run, []domain.RemoteEvent{remoteEvent("a", 9)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEventReconciler_ListenerErrorIsNotFatal(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	listener := &recordingListener{err: errors.New("hook failed")}
	r := newTestReconciler(events, listener)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	require.NoError(t, r.ApplyPage(context.Background(), run, []domain.RemoteEvent{remoteEvent("a", 9)}))
	assert.Equal(t, 1, events.EventStore.Count())
	assert.Len(t, listener.synced, 1)
}

func TestEventReconciler_WithoutListener(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)
	run := newTestRun(&domain.Calendar{ID: "cal-1"})

	require.NotPanics(t, func() {
		require.NoError(t, r.ApplyPage(context.Background(), run, []domain.RemoteEvent{remoteEvent("a", 9)}))
	})
	assert.Equal(t, 1, events.EventStore.Count())
	assert.Equal(t, 1, run.stats.Created)
}

func TestEventReconciler_EmptyPageSkipsStore(t *testing.T) {
	events := &countingEventStore{EventStore: memory.NewEventStore()}
	r := newTestReconciler(events, nil)

	require.NoError(t, r.ApplyPage(context.Background(), newTestRun(&domain.Calendar{ID: "cal-1"}), nil))
	assert.Zero(t, events.calls)
}
