package driving

import "github.com/custodia-labs/calsync/internal/core/domain"

// SettingsService exposes configuration consumed by the sync engine.
type SettingsService interface {
	// SyncSettings returns the configured sync settings, with defaults for
	// anything missing or invalid.
	SyncSettings() domain.SyncSettings

	// Get returns the raw value of a configuration key.
	Get(key string) (string, bool)

	// Set validates and stores a configuration value.
	Set(key, value string) error

	// Keys lists the known configuration keys.
	Keys() []string
}
