package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored values sort
// chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// syncRunStore implements driven.SyncRunStore.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// RecordRun logs the outcome of one sync run.
func (s *syncRunStore) RecordRun(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, calendar_id, started_at, finished_at, full_resync, status,
			received, created, updated, saved, cancelled, pages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CalendarID,
		run.StartedAt.UTC().Format(timeLayout),
		formatNullableTime(run.FinishedAt),
		boolToInt(run.Full),
		string(run.Status),
		run.Stats.Received, run.Stats.Created, run.Stats.Updated,
		run.Stats.Saved, run.Stats.Cancelled, run.Stats.Pages)

	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs of a calendar, newest first.
// A non-positive limit returns every run.
func (s *syncRunStore) ListRuns(ctx context.Context, calendarID string, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, calendar_id, started_at, finished_at, full_resync, status,
			received, created, updated, saved, cancelled, pages
		FROM sync_runs
		WHERE calendar_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, calendarID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.SyncRun, 0)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return runs, nil
}

// DeleteRuns removes the history of a calendar.
func (s *syncRunStore) DeleteRuns(ctx context.Context, calendarID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_runs WHERE calendar_id = ?", calendarID)
	if err != nil {
		return fmt.Errorf("deleting sync runs: %w", err)
	}
	return nil
}

// scanSyncRun scans a sync run from *sql.Rows.
func scanSyncRun(rows *sql.Rows) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var startedAt string
	var finishedAt sql.NullString
	var full int
	var status string

	if err := rows.Scan(&run.ID, &run.CalendarID, &startedAt, &finishedAt, &full, &status,
		&run.Stats.Received, &run.Stats.Created, &run.Stats.Updated,
		&run.Stats.Saved, &run.Stats.Cancelled, &run.Stats.Pages); err != nil {
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = t
	}
	run.FinishedAt = parseNullableTime(finishedAt)
	run.Full = full == 1
	run.Status = domain.SyncStatus(status)

	return &run, nil
}

// formatNullableTime formats a time as a UTC RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
