package cli

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calsync/internal/adapters/driven/export/ics"
	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/core/services"
)

// fakeFeed serves a fixed set of remote calendars.
type fakeFeed struct {
	calendars []domain.RemoteCalendar
}

func (f *fakeFeed) ListEvents(context.Context, string, domain.FeedQuery) (*domain.RemotePage, error) {
	return &domain.RemotePage{}, nil
}

func (f *fakeFeed) GetCalendar(_ context.Context, id string) (*domain.RemoteCalendar, error) {
	for i := range f.calendars {
		if f.calendars[i].ID == id {
			rc := f.calendars[i]
			return &rc, nil
		}
	}
	return nil, domain.NewRemoteError(http.StatusNotFound, domain.ErrNotFound)
}

func (f *fakeFeed) ListCalendars(context.Context) ([]domain.RemoteCalendar, error) {
	return f.calendars, nil
}

// mockSyncService returns a scripted result and reports a running status.
type mockSyncService struct {
	mu     sync.Mutex
	calls  []bool
	result domain.SyncStatus
	err    error
	onSync func()
}

func (m *mockSyncService) Sync(_ context.Context, id string, full bool) (*domain.Calendar, error) {
	m.mu.Lock()
	m.calls = append(m.calls, full)
	onSync := m.onSync
	m.mu.Unlock()

	if onSync != nil {
		onSync()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Calendar{ID: id, Name: "Team", SyncStatus: m.result}, nil
}

func (m *mockSyncService) Status(_ context.Context, id string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{CalendarID: id, Running: true, Stats: domain.RunStats{Received: 5, Pages: 1}}, nil
}

func (m *mockSyncService) fullFlags() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.calls...)
}

// fixture wires real services over memory stores.
type fixture struct {
	calendars *memory.CalendarStore
	events    *memory.EventStore
	runs      *memory.SyncRunStore
	accounts  *memory.AccountStore
	feed      *fakeFeed
	syncer    *mockSyncService
	settings  *services.SettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		calendars: memory.NewCalendarStore(),
		events:    memory.NewEventStore(),
		runs:      memory.NewSyncRunStore(),
		accounts:  memory.NewAccountStore(),
		feed:      &fakeFeed{calendars: []domain.RemoteCalendar{
			{ID: "team@example.com", Name: "Team", TimeZone: "Europe/Lisbon"},
			{ID: "rooms@example.com", Name: "Rooms"},
		}},
		syncer:   &mockSyncService{result: domain.SyncStatusEventsImported},
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}

	ctx := context.Background()
	require.NoError(t, f.calendars.Save(ctx, &domain.Calendar{
		ID:                "cal-1",
		RemoteID:          "team@example.com",
		Name:              "Team",
		SyncStatus:        domain.SyncStatusNoChanges,
		ContinuationToken: "tok",
	}))

	SetServices(Services{
		Sync:      f.syncer,
		Calendars: services.NewCalendarService(f.calendars, f.events, f.runs, f.feed, ics.NewExporter()),
		Settings:  f.settings,
		Accounts:  services.NewAccountService(f.accounts),
	})
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags()
	})
	return f
}

func (f *fixture) seedEvent(t *testing.T, id, title string, visible bool) {
	t.Helper()
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.events.Save(context.Background(), &domain.Event{
		ID:            id,
		CalendarID:    "cal-1",
		RemoteEventID: "r-" + id,
		ICalID:        id + "@google.com",
		Title:         title,
		StartAt:       start.Unix(),
		EndAt:         start.Add(time.Hour).Unix(),
		Status:        domain.EventStatusConfirmed,
		LocalVisible:  visible,
	}))
}

// resetFlags restores flag variables, which cobra keeps between runs.
func resetFlags() {
	verbose = false
	syncFull = false
	historyLimit = 10
	eventsAll = false
	exportOutput = ""
	accountEmail = ""
	accountName = ""
	loginPort = 0
	loginNoBrowser = false
	loginTimeout = 5 * time.Minute
	watchSchedule = ""
	watchNoInitial = false
	serveAddr = ""
	versionShort = false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), t, args...)
}

func executeContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	// Subcommands keep the context of their first run unless replaced.
	setContext(rootCmd, ctx)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}
