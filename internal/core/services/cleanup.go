package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/logger"
)

// CleanupReport summarises what a cleanup pass did.
type CleanupReport struct {
	// Deleted counts events removed, including forced deletes.
	Deleted int
	// Unpublished counts old events hidden under the unpublish policy.
	Unpublished int
	// Kept counts old events left alone under the none policy.
	Kept int
	// Anomalies counts touched-set entries that disagreed with the store.
	Anomalies int
}

// CleanupEngine retires local events that a completed full resync did not
// mention. It must only run when the touched set covers the whole window.
type CleanupEngine struct {
	events driven.EventStore
}

// NewCleanupEngine creates a cleanup engine.
func NewCleanupEngine(events driven.EventStore) *CleanupEngine {
	return &CleanupEngine{events: events}
}

// Cleanup compares touched against the calendar's local events. Events
// ending before horizon (UTC epoch seconds) are subject to policy; events
// ending at or after it are deleted outright. Events named in touched are
// never retired.
func (c *CleanupEngine) Cleanup(
	ctx context.Context,
	cal *domain.Calendar,
	touched domain.TouchedSet,
	horizon int64,
	policy domain.CleanupPolicy,
) (CleanupReport, error) {
	var report CleanupReport

	events, err := c.events.ListByCalendar(ctx, cal.ID)
	if err != nil {
		return report, fmt.Errorf("list events: %w", err)
	}

	local := make(map[string][]domain.Event, len(events))
	for i := range events {
		local[events[i].RemoteEventID] = append(local[events[i].RemoteEventID], events[i])
	}

	for remoteID, seen := range touched {
		found, ok := local[remoteID]
		switch {
		case !seen && ok:
			report.Anomalies++
			logger.Error("Calendar %s: event %s marked as deleted but is back", cal.ID, remoteID)
			for i := range found {
				if err := c.events.Delete(ctx, found[i].ID); err != nil {
					return report, fmt.Errorf("delete event %s: %w", remoteID, err)
				}
				report.Deleted++
			}
		case seen && !ok:
			report.Anomalies++
			logger.Warn("Calendar %s: event %s marked as updated but now is not found", cal.ID, remoteID)
		}
		delete(local, remoteID)
	}

	for remoteID, found := range local {
		for i := range found {
			event := &found[i]
			if event.EndAt >= horizon {
				if err := c.events.Delete(ctx, event.ID); err != nil {
					return report, fmt.Errorf("delete event %s: %w", remoteID, err)
				}
				report.Deleted++
				continue
			}

			switch policy {
			case domain.CleanupDeleteOld:
				if err := c.events.Delete(ctx, event.ID); err != nil {
					return report, fmt.Errorf("delete event %s: %w", remoteID, err)
				}
				report.Deleted++
			case domain.CleanupUnpublishOld:
				if !event.LocalVisible {
					report.Kept++
					continue
				}
				event.LocalVisible = false
				if err := c.events.Save(ctx, event); err != nil {
					return report, fmt.Errorf("unpublish event %s: %w", remoteID, err)
				}
				report.Unpublished++
			default:
				report.Kept++
			}
		}
	}

	logger.Info("Calendar %s cleanup: deleted=%d unpublished=%d kept=%d anomalies=%d",
		cal.ID, report.Deleted, report.Unpublished, report.Kept, report.Anomalies)
	return report, nil
}
