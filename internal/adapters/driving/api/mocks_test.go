package api

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
)

// mockCalendarService serves calendars keyed by local and remote id.
type mockCalendarService struct {
	calendars []domain.Calendar
	events    map[string][]domain.Event
	runs      map[string][]domain.SyncRun
	listErr   error
	exportErr error
	lastLimit int
}

var _ driving.CalendarService = (*mockCalendarService)(nil)

func (m *mockCalendarService) Import(context.Context, string) (*domain.Calendar, error) {
	return nil, domain.ErrNotConfigured
}

func (m *mockCalendarService) Resolve(_ context.Context, id string) (*domain.Calendar, error) {
	for i := range m.calendars {
		if m.calendars[i].ID == id || m.calendars[i].RemoteID == id {
			cal := m.calendars[i]
			return &cal, nil
		}
	}
	return nil, fmt.Errorf("calendar %s: %w", id, domain.ErrNotFound)
}

func (m *mockCalendarService) List(context.Context) ([]domain.Calendar, error) {
	return m.calendars, m.listErr
}

func (m *mockCalendarService) ListRemote(context.Context) ([]domain.RemoteCalendar, error) {
	return nil, nil
}

func (m *mockCalendarService) Events(_ context.Context, calendarID string) ([]domain.Event, error) {
	return m.events[calendarID], nil
}

func (m *mockCalendarService) History(_ context.Context, calendarID string, limit int) ([]domain.SyncRun, error) {
	m.lastLimit = limit
	return m.runs[calendarID], nil
}

func (m *mockCalendarService) ResetToken(context.Context, string) (*domain.Calendar, error) {
	return nil, nil
}

func (m *mockCalendarService) Unlock(context.Context, string) (*domain.Calendar, error) {
	return nil, nil
}

func (m *mockCalendarService) DeleteEvents(context.Context, string) error { return nil }

func (m *mockCalendarService) Remove(context.Context, string) error { return nil }

func (m *mockCalendarService) Export(_ context.Context, calendarID string, w io.Writer) error {
	if m.exportErr != nil {
		_, _ = io.WriteString(w, "partial")
		return m.exportErr
	}
	_, err := fmt.Fprintf(w, "BEGIN:VCALENDAR\r\nX-CAL:%s\r\nEND:VCALENDAR\r\n", calendarID)
	return err
}

// mockSyncService records sync requests.
type mockSyncService struct {
	calls  []syncCall
	result *domain.Calendar
	err    error
}

type syncCall struct {
	id   string
	full bool
}

var _ driving.SyncService = (*mockSyncService)(nil)

func (m *mockSyncService) Sync(_ context.Context, id string, full bool) (*domain.Calendar, error) {
	m.calls = append(m.calls, syncCall{id: id, full: full})
	return m.result, m.err
}

func (m *mockSyncService) Status(context.Context, string) (*driving.SyncStatus, error) {
	return nil, nil
}
