// Package cli implements the calsync command line with cobra.
//
// Commands reach the core through the driving ports held in package-level
// variables. main installs a Bootstrap that builds them from the global
// flags; tests assign the variables directly.
package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/logger"
)

var version = "dev"

// Global flags.
var (
	verbose   bool
	dataDir   string
	configDir string
)

// Services used by commands.
var (
	syncService     driving.SyncService
	calendarService driving.CalendarService
	settingsService driving.SettingsService
	accountService  driving.AccountService
)

// Services groups the driving ports the commands depend on.
type Services struct {
	Sync      driving.SyncService
	Calendars driving.CalendarService
	Settings  driving.SettingsService
	Accounts  driving.AccountService
}

// Options carries the global flags to a Bootstrap.
type Options struct {
	// DataDir holds the SQLite database.
	DataDir string
	// ConfigDir holds config.toml.
	ConfigDir string
}

// Bootstrap builds the services for one command run. The returned
// function releases them and may be nil.
type Bootstrap func(opts Options) (Services, func(), error)

var (
	bootstrap Bootstrap
	release   func()
)

var rootCmd = &cobra.Command{
	Use:   "calsync",
	Short: "Synchronise Google calendars into a local event store",
	Long: `calsync mirrors the events of remote Google calendars into a local
database. Runs are incremental when a continuation token is available and
fall back to a full resync over a bounded time window otherwise.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug, info and warning messages")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDir("data"), "directory holding the local database")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", defaultDir(""), "directory holding config.toml")
}

func defaultDir(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".calsync", sub)
}

// SetVersion sets the version reported by 'calsync version'.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the hook that wires services before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices assigns the services used by commands.
func SetServices(s Services) {
	syncService = s.Sync
	calendarService = s.Calendars
	settingsService = s.Settings
	accountService = s.Accounts
}

// Execute runs the root command and releases the services afterwards.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	svcs, cleanup, err := bootstrap(Options{DataDir: dataDir, ConfigDir: configDir})
	if err != nil {
		return err
	}
	SetServices(svcs)
	release = cleanup
	return nil
}

func teardown() {
	if release != nil {
		release()
		release = nil
	}
}

// errNotConfigured reports a service that main did not wire.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
