package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"verbose", "data-dir", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_BootstrapReceivesFlags(t *testing.T) {
	f := newFixture(t)
	wired := Services{Sync: f.syncer, Calendars: calendarService, Settings: settingsService, Accounts: accountService}
	SetServices(Services{})

	var got Options
	released := 0
	SetBootstrap(func(opts Options) (Services, func(), error) {
		got = opts
		return wired, func() { released++ }, nil
	})
	defer SetBootstrap(nil)

	dir := t.TempDir()
	rootCmd.SetArgs([]string{"calendar", "list", "--data-dir", dir + "/data", "--config", dir})
	defer rootCmd.SetArgs(nil)

	err := Execute()

	require.NoError(t, err)
	assert.Equal(t, Options{DataDir: dir + "/data", ConfigDir: dir}, got)
	assert.Equal(t, 1, released)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	newFixture(t)
	SetBootstrap(func(Options) (Services, func(), error) {
		return Services{}, nil, errors.New("database is locked")
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "calendar", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	newFixture(t)
	SetBootstrap(func(Options) (Services, func(), error) {
		return Services{}, nil, errors.New("should not run")
	})
	defer SetBootstrap(nil)

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "calsync version")
}
