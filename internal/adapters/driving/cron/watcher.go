// Package cron schedules periodic synchronisation of a calendar with robfig/cron.
package cron

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.Watcher = (*Watcher)(nil)

// ParseSchedule parses a standard five-field cron spec or a descriptor
// such as "@hourly" or "@every 15m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", domain.ErrInvalidInput, spec, err)
	}
	return schedule, nil
}

// Watcher runs incremental syncs of one calendar on a schedule.
// Ticks that fire while a sync is still running are skipped.
type Watcher struct {
	syncer     driving.SyncService
	calendarID string
	schedule   cron.Schedule

	// RunOnStart triggers a sync as soon as Start is called.
	RunOnStart bool

	// OnSync, when set, receives the outcome of every scheduled sync.
	OnSync func(cal *domain.Calendar, err error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	runs    atomic.Int64
}

// NewWatcher creates a watcher for calendarID.
func NewWatcher(svc driving.SyncService, calendarID string, schedule cron.Schedule) *Watcher {
	return &Watcher{
		syncer:     svc,
		calendarID: calendarID,
		schedule:   schedule,
	}
}

// Start schedules the calendar and blocks until ctx is cancelled or Stop
// is called. A running sync is allowed to finish before Start returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher for %s: %w", w.calendarID, domain.ErrSyncInProgress)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	stopCh, done := w.stopCh, w.done
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(done)
	}()

	// The immediate run and scheduled ticks share one skip guard.
	job := cron.NewChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})).
		Then(cron.FuncJob(func() { w.tick(ctx) }))

	c := cron.New(cron.WithLogger(cronLogger{}))
	c.Schedule(w.schedule, job)

	logger.Info("Watching calendar %s", w.calendarID)
	c.Start()

	var initial sync.WaitGroup
	if w.RunOnStart {
		initial.Add(1)
		go func() {
			defer initial.Done()
			job.Run()
		}()
	}

	select {
	case <-ctx.Done():
	case <-stopCh:
	}

	<-c.Stop().Done()
	initial.Wait()
	logger.Info("Stopped watching calendar %s after %d syncs", w.calendarID, w.Runs())
	return nil
}

// Stop halts scheduling and waits for a running sync to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, done := w.stopCh, w.done
	select {
	case <-stopCh:
	default:
		close(stopCh)
	}
	w.mu.Unlock()

	<-done
	return nil
}

// Runs returns the number of syncs started by the watcher.
func (w *Watcher) Runs() int64 {
	return w.runs.Load()
}

func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.runs.Add(1)

	cal, err := w.syncer.Sync(ctx, w.calendarID, false)
	switch {
	case err != nil:
		logger.Error("Scheduled sync of %s failed: %v", w.calendarID, err)
	case cal.SyncStatus.IsError():
		logger.Warn("Scheduled sync of %s finished with %s", w.calendarID, cal.SyncStatus)
	default:
		logger.Debug("Scheduled sync of %s finished with %s", w.calendarID, cal.SyncStatus)
	}

	if w.OnSync != nil {
		w.OnSync(cal, err)
	}
}

// cronLogger routes cron's own messages through the levelled logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
