// Command calsync synchronises Google calendars into a local event store.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/custodia-labs/calsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/calsync/internal/adapters/driven/export/ics"
	"github.com/custodia-labs/calsync/internal/adapters/driven/notify"
	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/calsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/calsync/internal/connectors/google"
	"github.com/custodia-labs/calsync/internal/connectors/google/calendar"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/core/services"
	"github.com/custodia-labs/calsync/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for one command run.
func bootstrap(opts cli.Options) (cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return cli.Services{}, nil, err
	}
	settings := services.NewSettingsService(configStore)

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return cli.Services{}, nil, err
	}

	feed := openFeed(settings)
	runs := store.SyncRunStore()
	listener := notify.NewMulti(notify.Logging{}, notify.NewHistory(runs))

	svcs := cli.Services{
		Sync: services.NewSyncOrchestrator(
			store.CalendarStore(), store.EventStore(), feed, store.AccountStore(), listener, settings.SyncSettings()),
		Calendars: services.NewCalendarService(
			store.CalendarStore(), store.EventStore(), runs, feed, ics.NewExporter()),
		Settings: settings,
		Accounts: services.NewAccountService(store.AccountStore()),
	}

	release := func() {
		if err := store.Close(); err != nil {
			logger.Error("Closing database: %v", err)
		}
	}
	return svcs, release, nil
}

// openFeed connects to Google Calendar. Without credentials or a stored
// token the feed stays nil and remote operations report not configured.
func openFeed(settings *services.SettingsService) driven.RemoteFeed {
	cfg := calendar.DefaultConfig()
	cfg.CredentialsFile = settings.String(services.KeyCredentialsFile)
	cfg.TokenFile = settings.String(services.KeyTokenFile)
	cfg.RateLimit.RequestsPerSecond = settings.Float(services.KeyRequestsPerSecond)

	feed, err := calendar.Open(context.Background(), cfg)
	switch {
	case errors.Is(err, google.ErrNoToken):
		logger.Warn("Not logged in to Google. Run 'calsync account login'.")
		return nil
	case err != nil:
		logger.Warn("Google Calendar unavailable: %v", err)
		return nil
	}
	return feed
}
