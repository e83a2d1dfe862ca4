package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/adapters/driving/cli/styles"
)

var (
	eventsAll    bool
	exportOutput string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect and export local events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list [calendar]",
	Short: "List the local events of a calendar",
	Long: `Lists the local events of a calendar ordered by start time.
Only visible events are shown unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runEventsList,
}

var eventsExportCmd = &cobra.Command{
	Use:   "export [calendar]",
	Short: "Export visible events as iCalendar",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsExport,
}

func init() {
	eventsListCmd.Flags().BoolVarP(&eventsAll, "all", "a", false, "include unpublished events")
	eventsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsExportCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	cal, err := calendarService.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	events, err := calendarService.Events(cmd.Context(), cal.ID)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	st := styles.ForWriter(cmd.OutOrStderr())
	shown := 0
	for i := range events {
		e := &events[i]
		if !eventsAll && !e.LocalVisible {
			continue
		}
		title := e.Title
		if title == "" {
			title = "(no title)"
		}
		line := fmt.Sprintf("%s  %s  %s", e.Start().Local().Format("2006-01-02 15:04"), title, e.RemoteEventID)
		if !e.LocalVisible {
			line = st.Render(st.Muted, line+"  [unpublished]")
		}
		cmd.Println(line)
		shown++
	}

	if shown == 0 {
		cmd.Println("No events.")
	}
	return nil
}

func runEventsExport(cmd *cobra.Command, args []string) (err error) {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := calendarService.Export(cmd.Context(), args[0], w); err != nil {
		return fmt.Errorf("failed to export calendar: %w", err)
	}
	return nil
}
