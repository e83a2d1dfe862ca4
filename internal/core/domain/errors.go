package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDate indicates a remote date value could not be parsed.
	// It signals a provider contract change or a local bug and is never swallowed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrCalendarGone indicates the remote calendar no longer exists.
	ErrCalendarGone = errors.New("calendar gone")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrNotConfigured indicates a required collaborator is missing.
	ErrNotConfigured = errors.New("not configured")
)

// RemoteError carries the HTTP-style status code reported by the remote
// provider across the feed boundary.
type RemoteError struct {
	StatusCode int
	Err        error
}

// NewRemoteError wraps err with a provider status code.
func NewRemoteError(status int, err error) *RemoteError {
	return &RemoteError{StatusCode: status, Err: err}
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote status %d: %v", e.StatusCode, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// RemoteStatus extracts the provider status code from err.
// The second return value is false when err carries no status.
func RemoteStatus(err error) (int, bool) {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr.StatusCode, true
	}
	return 0, false
}
