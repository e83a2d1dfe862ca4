package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and change the settings stored in config.toml.

Keys:
  sync.past_horizon          window start relative to now (e.g. -1h, -2w)
  sync.future_horizon        window end relative to now (e.g. 1y1d)
  sync.refresh_interval      period after which a full resync is forced
  sync.page_size             maximum events per page
  sync.ownership             fixed, by_email or by_name
  sync.default_owner         account id owning unmatched events
  sync.cleanup               none, delete_old or unpublish_old
  google.credentials_file    OAuth client JSON
  google.token_file          stored OAuth token
  google.requests_per_second feed rate limit
  server.address             listen address of 'calsync serve'
  watch.schedule             cron schedule of 'calsync watch'`,
	RunE: runConfigGet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting, or all settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if len(args) == 1 {
		value, ok := settingsService.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		cmd.Println(value)
		return nil
	}

	keys := settingsService.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		value, _ := settingsService.Get(k)
		cmd.Printf("%-*s = %q\n", width, k, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	cmd.Printf("%s set to %q\n", args[0], args[1])
	return nil
}
