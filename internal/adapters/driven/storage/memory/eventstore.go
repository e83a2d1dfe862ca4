package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]domain.Event
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]domain.Event),
	}
}

// Save stores or updates an event.
func (s *EventStore) Save(_ context.Context, event *domain.Event) error {
	if event == nil || event.ID == "" || event.CalendarID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = *event
	return nil
}

// Get retrieves an event by local ID.
func (s *EventStore) Get(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &event, nil
}

// ListByCalendar returns every event of a calendar ordered by start time.
func (s *EventStore) ListByCalendar(_ context.Context, calendarID string) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Event, 0)
	for _, event := range s.events {
		if event.CalendarID == calendarID {
			result = append(result, event)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartAt == result[j].StartAt {
			return result[i].ID < result[j].ID
		}
		return result[i].StartAt < result[j].StartAt
	})
	return result, nil
}

// Delete removes an event by local ID.
func (s *EventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

// DeleteByCalendar removes all events of a calendar.
func (s *EventStore) DeleteByCalendar(_ context.Context, calendarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, event := range s.events {
		if event.CalendarID == calendarID {
			delete(s.events, id)
		}
	}
	return nil
}

// Count returns the total number of stored events.
func (s *EventStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
