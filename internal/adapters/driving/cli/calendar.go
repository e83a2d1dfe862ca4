package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/adapters/driving/cli/styles"
)

var historyLimit int

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Manage synchronised calendars",
	Long: `Import remote calendars, inspect their sync state and perform the
administrative operations that recover a calendar after a crash or a
corrupted token.

Calendars are addressed by local ID or by remote calendar ID.`,
}

var calendarImportCmd = &cobra.Command{
	Use:   "import [remote-id]",
	Short: "Import or refresh a remote calendar",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarImport,
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local calendars",
	RunE:  runCalendarList,
}

var calendarShowCmd = &cobra.Command{
	Use:   "show [calendar]",
	Short: "Show a calendar's sync state",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarShow,
}

var calendarRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "List calendars visible to the Google account",
	RunE:  runCalendarRemote,
}

var calendarResetCmd = &cobra.Command{
	Use:   "reset [calendar]",
	Short: "Discard the continuation token so the next sync is full",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarReset,
}

var calendarUnlockCmd = &cobra.Command{
	Use:   "unlock [calendar]",
	Short: "Clear a stale syncing flag left by a crashed run",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarUnlock,
}

var calendarPurgeCmd = &cobra.Command{
	Use:   "purge [calendar]",
	Short: "Delete every local event of a calendar",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarPurge,
}

var calendarRemoveCmd = &cobra.Command{
	Use:   "remove [calendar]",
	Short: "Remove a calendar with its events and history",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarRemove,
}

var calendarHistoryCmd = &cobra.Command{
	Use:   "history [calendar]",
	Short: "Show recent sync runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarHistory,
}

func init() {
	calendarHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs")

	calendarCmd.AddCommand(calendarImportCmd)
	calendarCmd.AddCommand(calendarListCmd)
	calendarCmd.AddCommand(calendarShowCmd)
	calendarCmd.AddCommand(calendarRemoteCmd)
	calendarCmd.AddCommand(calendarResetCmd)
	calendarCmd.AddCommand(calendarUnlockCmd)
	calendarCmd.AddCommand(calendarPurgeCmd)
	calendarCmd.AddCommand(calendarRemoveCmd)
	calendarCmd.AddCommand(calendarHistoryCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendarImport(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Import(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to import calendar: %w", err)
	}

	cmd.Printf("Imported calendar %s (%s)\n", cal.Name, cal.ID)
	return nil
}

func runCalendarList(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	calendars, err := calendarService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list calendars: %w", err)
	}

	if len(calendars) == 0 {
		cmd.Println("No calendars imported. Run 'calsync calendar import <remote-id>'.")
		return nil
	}

	st := styles.ForWriter(cmd.OutOrStderr())
	for i := range calendars {
		cal := &calendars[i]
		cmd.Printf("%s  %s  %s  %s\n",
			st.Render(st.Muted, cal.ID), cal.Name, cal.RemoteID, st.Status(cal.SyncStatus))
	}
	return nil
}

func runCalendarShow(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}

	st := styles.ForWriter(cmd.OutOrStderr())
	cmd.Println(st.Render(st.Title, cal.Name))
	cmd.Printf("  ID:             %s\n", cal.ID)
	cmd.Printf("  Remote ID:      %s\n", cal.RemoteID)
	if cal.Description != "" {
		cmd.Printf("  Description:    %s\n", cal.Description)
	}
	if cal.TimeZone != "" {
		cmd.Printf("  Time zone:      %s\n", cal.TimeZone)
	}
	cmd.Printf("  Status:         %s\n", st.Status(cal.SyncStatus))
	cmd.Printf("  Syncing:        %s\n", yesNo(cal.Syncing))
	cmd.Printf("  Token:          %s\n", yesNo(cal.HasToken()))
	cmd.Printf("  Last full sync: %s\n", formatTimestamp(cal.LastFullSyncAt))
	cmd.Printf("  Latest sync:    %s\n", formatTimestamp(cal.LatestSyncAt))
	return nil
}

func runCalendarRemote(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	remote, err := calendarService.ListRemote(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list remote calendars: %w", err)
	}

	if len(remote) == 0 {
		cmd.Println("No calendars visible to this account.")
		return nil
	}
	for _, rc := range remote {
		cmd.Printf("%s  %s\n", rc.ID, rc.Name)
	}
	return nil
}

func runCalendarReset(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.ResetToken(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to reset calendar: %w", err)
	}

	cmd.Printf("Calendar %s will be fully resynchronised on the next run.\n", cal.ID)
	return nil
}

func runCalendarUnlock(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Unlock(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to unlock calendar: %w", err)
	}

	cmd.Printf("Calendar %s unlocked.\n", cal.ID)
	return nil
}

func runCalendarPurge(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	if err := calendarService.DeleteEvents(cmd.Context(), cal.ID); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}

	cmd.Printf("Deleted all local events of calendar %s.\n", cal.ID)
	return nil
}

func runCalendarRemove(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	if err := calendarService.Remove(cmd.Context(), cal.ID); err != nil {
		return fmt.Errorf("failed to remove calendar: %w", err)
	}

	cmd.Printf("Calendar %s removed.\n", cal.ID)
	return nil
}

func runCalendarHistory(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	runs, err := calendarService.History(cmd.Context(), cal.ID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sync runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	st := styles.ForWriter(cmd.OutOrStderr())
	for i := range runs {
		run := &runs[i]
		kind := "incremental"
		if run.Full {
			kind = "full"
		}
		cmd.Printf("%s  %-11s  %-15s  %s  received=%d created=%d updated=%d cancelled=%d pages=%d\n",
			formatTimestamp(run.StartedAt), kind, st.Status(run.Status),
			run.Duration().Round(time.Millisecond),
			run.Stats.Received, run.Stats.Created, run.Stats.Updated, run.Stats.Cancelled, run.Stats.Pages)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
