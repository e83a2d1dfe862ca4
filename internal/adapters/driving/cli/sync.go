package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
)

var syncFull bool

// syncPollInterval is how often progress is printed during a sync.
var syncPollInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync [calendar]",
	Short: "Synchronise a calendar with its remote feed",
	Long: `Runs one synchronisation of a calendar identified by local or remote ID.
The run is incremental when the calendar holds a valid continuation token,
otherwise every event in the configured window is fetched again.

Provider failures (authorisation, network, deleted calendar) are recorded
in the calendar's sync status and make the command exit with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "force a full resync")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errNotConfigured("sync")
	}

	cmd.Printf("Synchronising calendar: %s...\n", args[0])

	cal, err := syncWithProgress(cmd.Context(), cmd, syncService, args[0], syncFull)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	st := styles.ForWriter(cmd.OutOrStderr())
	cmd.Printf("Calendar %s: %s\n", cal.Name, st.Status(cal.SyncStatus))
	if cal.SyncStatus.IsError() {
		return fmt.Errorf("sync failed: %s", cal.SyncStatus)
	}
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	svc driving.SyncService,
	calendarID string,
	full bool,
) (*domain.Calendar, error) {
	type result struct {
		cal *domain.Calendar
		err error
	}
	done := make(chan result, 1)
	go func() {
		cal, err := svc.Sync(ctx, calendarID, full)
		done <- result{cal: cal, err: err}
	}()

	ticker := time.NewTicker(syncPollInterval)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case r := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return r.cal, r.err
		case <-ticker.C:
			// Best effort: status errors only hide progress.
			status, err := svc.Status(ctx, calendarID)
			if err == nil && status != nil && status.Running && status.Stats.Received > lastCount {
				cmd.Printf("\rReceived %d events (%d pages)", status.Stats.Received, status.Stats.Pages)
				lastCount = status.Stats.Received
			}
		}
	}
}
