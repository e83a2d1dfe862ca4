package notify

import (
	"context"
	"errors"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure Multi implements the interface.
var _ driven.SyncListener = (*Multi)(nil)

// Multi forwards every notification to each listener in order. All
// listeners are called even when one fails; the errors are joined.
type Multi struct {
	listeners []driven.SyncListener
}

// NewMulti creates a fan-out listener. Nil listeners are skipped.
func NewMulti(listeners ...driven.SyncListener) *Multi {
	m := &Multi{}
	for _, l := range listeners {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
	return m
}

// Len returns the number of wrapped listeners.
func (m *Multi) Len() int {
	return len(m.listeners)
}

// PreImport implements driven.SyncListener.
func (m *Multi) PreImport(ctx context.Context, cal *domain.Calendar) error {
	return m.each(func(l driven.SyncListener) error { return l.PreImport(ctx, cal) })
}

// PreResync implements driven.SyncListener.
func (m *Multi) PreResync(ctx context.Context, cal *domain.Calendar) error {
	return m.each(func(l driven.SyncListener) error { return l.PreResync(ctx, cal) })
}

// EventSynced implements driven.SyncListener.
func (m *Multi) EventSynced(ctx context.Context, local *domain.Event, remote *domain.RemoteEvent) error {
	return m.each(func(l driven.SyncListener) error { return l.EventSynced(ctx, local, remote) })
}

// PostImport implements driven.SyncListener.
func (m *Multi) PostImport(ctx context.Context, cal *domain.Calendar, run *domain.SyncRun) error {
	return m.each(func(l driven.SyncListener) error { return l.PostImport(ctx, cal, run) })
}

func (m *Multi) each(fn func(driven.SyncListener) error) error {
	var errs []error
	for _, l := range m.listeners {
		if err := fn(l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
