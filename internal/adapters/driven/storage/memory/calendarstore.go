package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure CalendarStore implements the interface.
var _ driven.CalendarStore = (*CalendarStore)(nil)

// CalendarStore is an in-memory implementation of driven.CalendarStore.
// Records are copied on the way in and out so callers never share state.
type CalendarStore struct {
	mu        sync.RWMutex
	calendars map[string]domain.Calendar
}

// NewCalendarStore creates a new in-memory calendar store.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{
		calendars: make(map[string]domain.Calendar),
	}
}

// Save stores or updates a calendar.
func (s *CalendarStore) Save(_ context.Context, cal *domain.Calendar) error {
	if cal == nil || cal.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[cal.ID] = *cal
	return nil
}

// Get retrieves a calendar by local ID.
func (s *CalendarStore) Get(_ context.Context, id string) (*domain.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cal, ok := s.calendars[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cal, nil
}

// GetByRemoteID retrieves a calendar by remote ID.
func (s *CalendarStore) GetByRemoteID(_ context.Context, remoteID string) (*domain.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cal := range s.calendars {
		if cal.RemoteID == remoteID {
			found := cal
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all calendars ordered by name.
func (s *CalendarStore) List(_ context.Context) ([]domain.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Calendar, 0, len(s.calendars))
	for _, cal := range s.calendars {
		result = append(result, cal)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Delete removes a calendar.
func (s *CalendarStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.calendars, id)
	return nil
}
