package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure SyncRunStore implements the interface.
var _ driven.SyncRunStore = (*SyncRunStore)(nil)

// SyncRunStore is an in-memory implementation of driven.SyncRunStore.
type SyncRunStore struct {
	mu   sync.RWMutex
	runs []domain.SyncRun
}

// NewSyncRunStore creates a new in-memory run store.
func NewSyncRunStore() *SyncRunStore {
	return &SyncRunStore{}
}

// RecordRun stores the outcome of one run.
func (s *SyncRunStore) RecordRun(_ context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// ListRuns returns the most recent runs for a calendar, newest first.
func (s *SyncRunStore) ListRuns(_ context.Context, calendarID string, limit int) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SyncRun, 0)
	for _, run := range s.runs {
		if run.CalendarID == calendarID {
			result = append(result, run)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteRuns removes the history of a calendar.
func (s *SyncRunStore) DeleteRuns(_ context.Context, calendarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.runs[:0]
	for _, run := range s.runs {
		if run.CalendarID != calendarID {
			kept = append(kept, run)
		}
	}
	s.runs = kept
	return nil
}
