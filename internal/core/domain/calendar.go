package domain

import "time"

// SyncStatus is the single authoritative outcome signal of a sync run.
type SyncStatus string

const (
	// SyncStatusNeverSynced is the state of a calendar that has not run yet.
	SyncStatusNeverSynced SyncStatus = "never synced"
	// SyncStatusSyncing is set while a run is in progress.
	SyncStatusSyncing SyncStatus = "syncing"
	// SyncStatusEventsImported means the last run saved at least one event.
	SyncStatusEventsImported SyncStatus = "events imported"
	// SyncStatusNoChanges means the last run saved nothing.
	SyncStatusNoChanges SyncStatus = "no changes"
	// SyncStatusForcedResync means the provider invalidated the continuation token.
	SyncStatusForcedResync SyncStatus = "forced resync"
	// SyncStatusAuthError means the provider rejected the credentials (401/403/407).
	SyncStatusAuthError SyncStatus = "auth error"
	// SyncStatusNetworkError covers timeouts, 5xx and every other failure status.
	SyncStatusNetworkError SyncStatus = "net error"
	// SyncStatusCalendarGone means the remote calendar no longer exists.
	SyncStatusCalendarGone SyncStatus = "no calendar"
)

// IsError reports whether the status records a failed run.
func (s SyncStatus) IsError() bool {
	switch s {
	case SyncStatusAuthError, SyncStatusNetworkError, SyncStatusCalendarGone:
		return true
	default:
		return false
	}
}

// String returns the status label.
func (s SyncStatus) String() string {
	return string(s)
}

// Calendar is one synchronised remote calendar.
type Calendar struct {
	// ID is the local identifier.
	ID string

	// RemoteID is the provider's calendar identifier. Immutable once set.
	RemoteID string

	// Name is the remote calendar summary.
	Name string

	// Description is the remote calendar description.
	Description string

	// Location is the remote calendar location.
	Location string

	// TimeZone is the IANA zone used for date-only event values.
	TimeZone string

	// ContinuationToken is the provider sync token from the last completed run.
	// Only valid together with the time window that produced it.
	ContinuationToken string

	// LastFullSyncAt is when a full resync last completed with a new token.
	// Zero when no full resync has completed.
	LastFullSyncAt time.Time

	// LatestSyncAt is stamped at the end of every run.
	LatestSyncAt time.Time

	// SyncStatus is the outcome of the last run.
	SyncStatus SyncStatus

	// Syncing is the persisted re-entrancy guard. A crash mid-run leaves it
	// set until an operator clears it.
	Syncing bool

	// CreatedAt is when the calendar was imported.
	CreatedAt time.Time

	// UpdatedAt is when the calendar record was last written.
	UpdatedAt time.Time
}

// HasToken reports whether an incremental continuation is available.
func (c *Calendar) HasToken() bool {
	return c.ContinuationToken != ""
}

// ClearToken discards the continuation token.
func (c *Calendar) ClearToken() {
	c.ContinuationToken = ""
}

// Zone returns the calendar's time zone, falling back to UTC when the
// zone is empty or unknown.
func (c *Calendar) Zone() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RemoteCalendar is the provider's description of a calendar.
type RemoteCalendar struct {
	ID          string
	Name        string
	Description string
	Location    string
	TimeZone    string
}
