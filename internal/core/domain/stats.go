package domain

import "fmt"

// RunStats counts what one sync run did. Reset at run start, never persisted
// on the calendar itself.
type RunStats struct {
	// Received counts non-cancelled events seen.
	Received int
	// Created counts events stored for the first time.
	Created int
	// Updated counts events that overwrote an existing record.
	Updated int
	// Saved is Created plus Updated.
	Saved int
	// Cancelled counts cancellations reported by the feed.
	Cancelled int
	// Pages counts fetched pages that carried at least one item.
	Pages int
}

// Reset zeroes all counters.
func (s *RunStats) Reset() {
	*s = RunStats{}
}

// String renders a one-line summary.
func (s RunStats) String() string {
	return fmt.Sprintf("received=%d created=%d updated=%d saved=%d cancelled=%d pages=%d",
		s.Received, s.Created, s.Updated, s.Saved, s.Cancelled, s.Pages)
}

// TouchedSet records which remote event ids a run has seen and how:
// true for create/update, false for cancellation.
type TouchedSet map[string]bool

// NewTouchedSet returns an empty set.
func NewTouchedSet() TouchedSet {
	return make(TouchedSet)
}

// MarkSeen records id as created or updated this run.
func (t TouchedSet) MarkSeen(id string) {
	t[id] = true
}

// MarkCancelled records id as cancelled this run.
func (t TouchedSet) MarkCancelled(id string) {
	t[id] = false
}

// Contains reports whether id was mentioned this run in either way.
func (t TouchedSet) Contains(id string) bool {
	_, ok := t[id]
	return ok
}
