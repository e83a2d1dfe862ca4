package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.calsync/data/calsync.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".calsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "calsync.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CalendarStore returns a CalendarStore interface backed by this store.
func (s *Store) CalendarStore() driven.CalendarStore {
	return &calendarStore{store: s}
}

// EventStore returns an EventStore interface backed by this store.
func (s *Store) EventStore() driven.EventStore {
	return &eventStore{store: s}
}

// AccountStore returns an AccountStore interface backed by this store.
func (s *Store) AccountStore() driven.AccountStore {
	return &accountStore{store: s}
}

// SyncRunStore returns a SyncRunStore interface backed by this store.
func (s *Store) SyncRunStore() driven.SyncRunStore {
	return &syncRunStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ==================== Calendar Store ====================

// calendarStore implements driven.CalendarStore.
type calendarStore struct {
	store *Store
}

var _ driven.CalendarStore = (*calendarStore)(nil)

const calendarColumns = `id, remote_id, name, description, location, time_zone,
	continuation_token, last_full_sync_at, latest_sync_at, sync_status, syncing,
	created_at, updated_at`

// Save stores or updates a calendar.
func (s *calendarStore) Save(ctx context.Context, cal *domain.Calendar) error {
	if cal == nil || cal.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO calendars (`+calendarColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			name = excluded.name,
			description = excluded.description,
			location = excluded.location,
			time_zone = excluded.time_zone,
			continuation_token = excluded.continuation_token,
			last_full_sync_at = excluded.last_full_sync_at,
			latest_sync_at = excluded.latest_sync_at,
			sync_status = excluded.sync_status,
			syncing = excluded.syncing,
			updated_at = excluded.updated_at
	`, cal.ID, cal.RemoteID, cal.Name, cal.Description, cal.Location, cal.TimeZone,
		nullString(cal.ContinuationToken),
		formatNullableTime(cal.LastFullSyncAt), formatNullableTime(cal.LatestSyncAt),
		string(cal.SyncStatus), boolToInt(cal.Syncing),
		formatNullableTime(cal.CreatedAt), formatNullableTime(cal.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving calendar: %w", err)
	}
	return nil
}

// Get retrieves a calendar by local ID.
func (s *calendarStore) Get(ctx context.Context, id string) (*domain.Calendar, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+calendarColumns+` FROM calendars WHERE id = ?`, id)
	return scanCalendar(row)
}

// GetByRemoteID retrieves a calendar by its provider ID.
func (s *calendarStore) GetByRemoteID(ctx context.Context, remoteID string) (*domain.Calendar, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+calendarColumns+` FROM calendars WHERE remote_id = ?`, remoteID)
	return scanCalendar(row)
}

// List returns all calendars ordered by name.
func (s *calendarStore) List(ctx context.Context) ([]domain.Calendar, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+calendarColumns+` FROM calendars ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}
	defer rows.Close()

	var calendars []domain.Calendar //nolint:prealloc // size unknown from query
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, *cal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}

	return calendars, nil
}

// Delete removes a calendar. Its events and history cascade.
func (s *calendarStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}
	return nil
}

// scanCalendar scans a single calendar row.
func scanCalendar(row rowScanner) (*domain.Calendar, error) {
	var cal domain.Calendar
	var token, lastFull, latest, createdAt, updatedAt sql.NullString
	var status string
	var syncing int

	if err := row.Scan(&cal.ID, &cal.RemoteID, &cal.Name, &cal.Description, &cal.Location, &cal.TimeZone,
		&token, &lastFull, &latest, &status, &syncing, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}

	cal.ContinuationToken = token.String
	cal.LastFullSyncAt = parseNullableTime(lastFull)
	cal.LatestSyncAt = parseNullableTime(latest)
	cal.SyncStatus = domain.SyncStatus(status)
	cal.Syncing = syncing == 1
	cal.CreatedAt = parseNullableTime(createdAt)
	cal.UpdatedAt = parseNullableTime(updatedAt)

	return &cal, nil
}

// ==================== Event Store ====================

// eventStore implements driven.EventStore.
type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

const eventColumns = `id, calendar_id, remote_event_id, ical_id, recurrence_parent_id,
	start_at, end_at, end_unspecified, status, local_visible, owner_id,
	title, description, location, html_link, locked, transparency, visibility,
	guests_can_invite_others, guests_can_modify, guests_can_see_other_guests,
	organizer_name, organizer_email, creator_name, creator_email,
	remote_created_at, remote_updated_at, created_at, updated_at`

// Save stores or updates an event.
func (s *eventStore) Save(ctx context.Context, e *domain.Event) error {
	if e == nil || e.ID == "" || e.CalendarID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			calendar_id = excluded.calendar_id,
			remote_event_id = excluded.remote_event_id,
			ical_id = excluded.ical_id,
			recurrence_parent_id = excluded.recurrence_parent_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			end_unspecified = excluded.end_unspecified,
			status = excluded.status,
			local_visible = excluded.local_visible,
			owner_id = excluded.owner_id,
			title = excluded.title,
			description = excluded.description,
			location = excluded.location,
			html_link = excluded.html_link,
			locked = excluded.locked,
			transparency = excluded.transparency,
			visibility = excluded.visibility,
			guests_can_invite_others = excluded.guests_can_invite_others,
			guests_can_modify = excluded.guests_can_modify,
			guests_can_see_other_guests = excluded.guests_can_see_other_guests,
			organizer_name = excluded.organizer_name,
			organizer_email = excluded.organizer_email,
			creator_name = excluded.creator_name,
			creator_email = excluded.creator_email,
			remote_created_at = excluded.remote_created_at,
			remote_updated_at = excluded.remote_updated_at,
			updated_at = excluded.updated_at
	`, e.ID, e.CalendarID, e.RemoteEventID, e.ICalID, e.RecurrenceParentID,
		e.StartAt, e.EndAt, boolToInt(e.EndUnspecified), string(e.Status), boolToInt(e.LocalVisible), e.OwnerID,
		e.Title, e.Description, e.Location, e.HTMLLink, boolToInt(e.Locked), e.Transparency, e.Visibility,
		boolToInt(e.GuestsCanInviteOthers), boolToInt(e.GuestsCanModify), boolToInt(e.GuestsCanSeeOtherGuests),
		e.Organizer.Name, e.Organizer.Email, e.Creator.Name, e.Creator.Email,
		e.RemoteCreatedAt, e.RemoteUpdatedAt, formatNullableTime(e.CreatedAt), formatNullableTime(e.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving event: %w", err)
	}
	return nil
}

// Get retrieves an event by local ID.
func (s *eventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// ListByCalendar returns every event of a calendar ordered by start time.
func (s *eventStore) ListByCalendar(ctx context.Context, calendarID string) ([]domain.Event, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE calendar_id = ?
		ORDER BY start_at, id
	`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// Delete removes an event. Deleting a missing event is not an error.
func (s *eventStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// DeleteByCalendar removes all events of a calendar.
func (s *eventStore) DeleteByCalendar(ctx context.Context, calendarID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM events WHERE calendar_id = ?", calendarID)
	if err != nil {
		return fmt.Errorf("deleting events: %w", err)
	}
	return nil
}

// scanEvent scans a single event row.
func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	var status string
	var endUnspecified, visible, locked, canInvite, canModify, canSee int
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(&e.ID, &e.CalendarID, &e.RemoteEventID, &e.ICalID, &e.RecurrenceParentID,
		&e.StartAt, &e.EndAt, &endUnspecified, &status, &visible, &e.OwnerID,
		&e.Title, &e.Description, &e.Location, &e.HTMLLink, &locked, &e.Transparency, &e.Visibility,
		&canInvite, &canModify, &canSee,
		&e.Organizer.Name, &e.Organizer.Email, &e.Creator.Name, &e.Creator.Email,
		&e.RemoteCreatedAt, &e.RemoteUpdatedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	e.EndUnspecified = endUnspecified == 1
	e.Status = domain.ParseEventStatus(status)
	e.LocalVisible = visible == 1
	e.Locked = locked == 1
	e.GuestsCanInviteOthers = canInvite == 1
	e.GuestsCanModify = canModify == 1
	e.GuestsCanSeeOtherGuests = canSee == 1
	e.CreatedAt = parseNullableTime(createdAt)
	e.UpdatedAt = parseNullableTime(updatedAt)

	return &e, nil
}

// ==================== Account Store ====================

// accountStore implements driven.AccountStore.
type accountStore struct {
	store *Store
}

var _ driven.AccountStore = (*accountStore)(nil)

// Save stores or updates an account.
func (s *accountStore) Save(ctx context.Context, account domain.Account) error {
	if account.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, name)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name
	`, account.ID, account.Email, account.Name)

	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

// List returns all accounts ordered by ID.
func (s *accountStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT id, email, name FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

// Delete removes an account.
func (s *accountStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// FindAccountByEmail matches email case-insensitively.
func (s *accountStore) FindAccountByEmail(ctx context.Context, email string) (string, error) {
	return s.find(ctx, "SELECT id FROM accounts WHERE email != '' AND email = ? COLLATE NOCASE ORDER BY id LIMIT 1", email)
}

// FindAccountByName matches display names exactly.
func (s *accountStore) FindAccountByName(ctx context.Context, name string) (string, error) {
	return s.find(ctx, "SELECT id FROM accounts WHERE name != '' AND name = ? ORDER BY id LIMIT 1", name)
}

func (s *accountStore) find(ctx context.Context, query, arg string) (string, error) {
	var id string
	if err := s.store.db.QueryRowContext(ctx, query, arg).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("finding account: %w", err)
	}
	return id, nil
}
