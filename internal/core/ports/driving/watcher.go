package driving

import "context"

// Watcher runs periodic syncs of a single calendar.
type Watcher interface {
	// Start schedules the calendar and blocks until ctx is cancelled.
	Start(ctx context.Context) error

	// Stop halts scheduling and waits for a running sync to finish.
	Stop() error
}
