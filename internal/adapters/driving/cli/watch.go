package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/calsync/internal/adapters/driving/cron"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/services"
	"github.com/custodia-labs/calsync/internal/logger"
)

var (
	watchSchedule  string
	watchNoInitial bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [calendar]",
	Short: "Synchronise a calendar periodically",
	Long: `Synchronises a calendar on a cron schedule until interrupted.
The schedule defaults to watch.schedule and accepts standard five-field
cron expressions as well as descriptors such as "@hourly" or "@every 15m".`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron schedule (overrides watch.schedule)")
	watchCmd.Flags().BoolVar(&watchNoInitial, "no-initial", false, "wait for the first scheduled tick instead of syncing at once")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errNotConfigured("sync")
	}

	spec := watchSchedule
	if spec == "" && settingsService != nil {
		spec, _ = settingsService.Get(services.KeyWatchSchedule)
	}
	schedule, err := cron.ParseSchedule(spec)
	if err != nil {
		return err
	}

	// Long-running commands log by default.
	logger.SetVerbose(true)
	logger.SetTimestamps(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := styles.ForWriter(cmd.OutOrStderr())
	watcher := cron.NewWatcher(syncService, args[0], schedule)
	watcher.RunOnStart = !watchNoInitial
	watcher.OnSync = func(cal *domain.Calendar, err error) {
		if err != nil {
			cmd.Printf("Sync failed: %v\n", err)
			return
		}
		cmd.Printf("Calendar %s: %s\n", cal.Name, st.Status(cal.SyncStatus))
	}

	cmd.Printf("Watching calendar %s (%s). Press Ctrl+C to stop.\n", args[0], spec)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
