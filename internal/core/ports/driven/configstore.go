package driven

// ConfigStore provides access to application configuration.
// Keys are dotted paths ("sync.refresh_interval") over a nested document.
type ConfigStore interface {
	// Get retrieves a raw value and reports whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when absent or not a string.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when absent or not numeric.
	GetInt(key string) int

	// GetFloat returns the value as a float64, or 0 when absent or not numeric.
	GetFloat(key string) float64

	// GetBool returns the value as a bool, or false when absent or not a bool.
	GetBool(key string) bool

	// Keys lists every configured key in sorted order.
	Keys() []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
