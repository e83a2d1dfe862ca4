package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/adapters/driving/api"
	"github.com/custodia-labs/calsync/internal/core/services"
	"github.com/custodia-labs/calsync/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Starts the HTTP API on server.address (or --addr).

Endpoints:
  GET  /api/health
  GET  /api/calendars
  GET  /api/calendars/{id}
  POST /api/calendars/{id}/sync?full=true
  GET  /api/calendars/{id}/events
  GET  /api/calendars/{id}/runs
  GET  /api/calendars/{id}/export.ics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errNotConfigured("calendar")
	}
	if syncService == nil {
		return errNotConfigured("sync")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		addr, _ = settingsService.Get(services.KeyServerAddress)
	}

	logger.SetVerbose(true)
	logger.SetTimestamps(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(calendarService, syncService, version)
	cmd.Printf("Serving API on http://%s/api\n", addr)
	if err := api.NewServer(addr, router).ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve failed: %w", err)
	}
	return nil
}
