package services

import (
	"context"
	"errors"
	"io"
	stdsync "sync"
	"time"

	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/calsync/internal/core/domain"
)

// --- Mock implementations shared by the service tests ---

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// feedResponse is one scripted reply of mockFeed.ListEvents.
type feedResponse struct {
	page *domain.RemotePage
	err  error
}

// mockFeed replays scripted pages and records every query.
type mockFeed struct {
	mu          stdsync.Mutex
	responses   []feedResponse
	queries     []domain.FeedQuery
	calendar    *domain.RemoteCalendar
	calendarErr error
	calendars   []domain.RemoteCalendar
	getCalls    int
}

func newMockFeed(responses ...feedResponse) *mockFeed {
	return &mockFeed{
		responses: responses,
		calendar:  &domain.RemoteCalendar{ID: "team@example.com", Name: "Team", TimeZone: "UTC"},
	}
}

func (m *mockFeed) ListEvents(_ context.Context, _ string, query domain.FeedQuery) (*domain.RemotePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if len(m.responses) == 0 {
		return nil, errors.New("unexpected feed call")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.page, resp.err
}

func (m *mockFeed) GetCalendar(_ context.Context, _ string) (*domain.RemoteCalendar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.calendarErr != nil {
		return nil, m.calendarErr
	}
	return m.calendar, nil
}

func (m *mockFeed) ListCalendars(_ context.Context) ([]domain.RemoteCalendar, error) {
	return m.calendars, nil
}

func (m *mockFeed) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries) + m.getCalls
}

// statusErr builds a feed failure carrying an HTTP status.
func statusErr(status int) feedResponse {
	return feedResponse{err: domain.NewRemoteError(status, errors.New("remote failure"))}
}

func pageOf(nextPage, nextSync string, items ...domain.RemoteEvent) feedResponse {
	return feedResponse{page: &domain.RemotePage{Items: items, NextPageToken: nextPage, NextSyncToken: nextSync}}
}

// remoteEvent builds a confirmed timed event starting at hour h of 2024-06-10.
func remoteEvent(id string, h int) domain.RemoteEvent {
	start := time.Date(2024, 6, 10, h, 0, 0, 0, time.UTC)
	return domain.RemoteEvent{
		ID:        id,
		ICalUID:   id + "@google.com",
		Status:    domain.EventStatusConfirmed,
		Summary:   "Event " + id,
		Start:     domain.RemoteDateTime{DateTime: start.Format(time.RFC3339)},
		End:       domain.RemoteDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339)},
		Organizer: domain.Person{Name: "Ana Lima", Email: "ana@example.com"},
		Created:   "2024-05-01T09:00:00.000Z",
		Updated:   "2024-05-02T09:00:00.000Z",
	}
}

func cancelledEvent(id string) domain.RemoteEvent {
	return domain.RemoteEvent{ID: id, Status: domain.EventStatusCancelled}
}

// countingCalendarStore counts writes on top of the memory store.
type countingCalendarStore struct {
	*memory.CalendarStore
	saves int
	saved []domain.Calendar
}

func (s *countingCalendarStore) Save(ctx context.Context, cal *domain.Calendar) error {
	s.saves++
	s.saved = append(s.saved, *cal)
	return s.CalendarStore.Save(ctx, cal)
}

// countingEventStore counts every call on top of the memory store.
type countingEventStore struct {
	*memory.EventStore
	calls   int
	saveErr error
}

func (s *countingEventStore) Save(ctx context.Context, e *domain.Event) error {
	s.calls++
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.EventStore.Save(ctx, e)
}

func (s *countingEventStore) ListByCalendar(ctx context.Context, id string) ([]domain.Event, error) {
	s.calls++
	return s.EventStore.ListByCalendar(ctx, id)
}

func (s *countingEventStore) Delete(ctx context.Context, id string) error {
	s.calls++
	return s.EventStore.Delete(ctx, id)
}

// recordingListener records hook invocations in order.
type recordingListener struct {
	mu     stdsync.Mutex
	hooks  []string
	synced []string
	runs   []domain.SyncRun
	err    error
}

func (l *recordingListener) record(hook string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
	return l.err
}

func (l *recordingListener) PreImport(context.Context, *domain.Calendar) error {
	return l.record("pre-import")
}

func (l *recordingListener) PreResync(context.Context, *domain.Calendar) error {
	return l.record("pre-resync")
}

func (l *recordingListener) EventSynced(_ context.Context, local *domain.Event, remote *domain.RemoteEvent) error {
	l.mu.Lock()
	l.synced = append(l.synced, remote.ID+"->"+local.ID)
	l.mu.Unlock()
	return l.err
}

func (l *recordingListener) PostImport(_ context.Context, _ *domain.Calendar, run *domain.SyncRun) error {
	l.mu.Lock()
	l.runs = append(l.runs, *run)
	l.mu.Unlock()
	return l.record("post-import")
}

// countingDirectory counts lookups on top of the memory account store.
type countingDirectory struct {
	*memory.AccountStore
	lookups int
	err     error
}

func (d *countingDirectory) FindAccountByEmail(ctx context.Context, email string) (string, error) {
	d.lookups++
	if d.err != nil {
		return "", d.err
	}
	return d.AccountStore.FindAccountByEmail(ctx, email)
}

func (d *countingDirectory) FindAccountByName(ctx context.Context, name string) (string, error) {
	d.lookups++
	if d.err != nil {
		return "", d.err
	}
	return d.AccountStore.FindAccountByName(ctx, name)
}

// mockExporter writes one line per event.
type mockExporter struct {
	exported []domain.Event
}

func (m *mockExporter) Export(w io.Writer, _ *domain.Calendar, events []domain.Event) error {
	m.exported = events
	for i := range events {
		if _, err := io.WriteString(w, events[i].RemoteEventID+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockExporter) ContentType() string { return "text/plain" }
