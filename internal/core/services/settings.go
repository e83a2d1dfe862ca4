package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyPastHorizon       = "sync.past_horizon"
	KeyFutureHorizon     = "sync.future_horizon"
	KeyRefreshInterval   = "sync.refresh_interval"
	KeyPageSize          = "sync.page_size"
	KeyOwnership         = "sync.ownership"
	KeyDefaultOwner      = "sync.default_owner"
	KeyCleanup           = "sync.cleanup"
	KeyCredentialsFile   = "google.credentials_file"
	KeyTokenFile         = "google.token_file"
	KeyRequestsPerSecond = "google.requests_per_second"
	KeyServerAddress     = "server.address"
	KeyWatchSchedule     = "watch.schedule"
)

// setting describes one known configuration key.
type setting struct {
	def      string
	validate func(string) error
	convert  func(string) any
}

func validateOffset(s string) error {
	_, err := domain.ParseOffset(s)
	return err
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: duration %q", domain.ErrInvalidInput, s)
	}
	if d <= 0 {
		return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: expected a positive integer, got %q", domain.ErrInvalidInput, s)
	}
	return nil
}

func validatePositiveFloat(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("%w: expected a positive number, got %q", domain.ErrInvalidInput, s)
	}
	return nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: value must not be empty", domain.ErrInvalidInput)
	}
	return nil
}

func toInt(s string) any {
	n, _ := strconv.Atoi(s)
	return n
}

func toFloat(s string) any {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

var knownSettings = map[string]setting{
	KeyPastHorizon:     {def: "-1h", validate: validateOffset},
	KeyFutureHorizon:   {def: "1y1d", validate: validateOffset},
	KeyRefreshInterval: {def: "8h", validate: validateDuration},
	KeyPageSize:        {def: "128", validate: validatePositiveInt, convert: toInt},
	KeyOwnership: {def: string(domain.OwnershipByEmail), validate: func(s string) error {
		_, err := domain.ParseOwnershipPolicy(s)
		return err
	}},
	KeyDefaultOwner: {def: ""},
	KeyCleanup: {def: string(domain.CleanupUnpublishOld), validate: func(s string) error {
		_, err := domain.ParseCleanupPolicy(s)
		return err
	}},
	KeyCredentialsFile:   {def: "~/.calsync/credentials.json", validate: validateNonEmpty},
	KeyTokenFile:         {def: "~/.calsync/token.json", validate: validateNonEmpty},
	KeyRequestsPerSecond: {def: "5", validate: validatePositiveFloat, convert: toFloat},
	KeyServerAddress:     {def: "127.0.0.1:8080", validate: validateNonEmpty},
	KeyWatchSchedule:     {def: "@every 15m", validate: validateNonEmpty},
}

// SettingsService reads and writes configuration through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// SyncSettings returns the sync engine configuration. Missing or invalid
// values fall back to defaults.
func (s *SettingsService) SyncSettings() domain.SyncSettings {
	defaults := domain.DefaultSyncSettings()

	settings := domain.SyncSettings{
		PastHorizon:     s.getOffset(KeyPastHorizon, defaults.PastHorizon),
		FutureHorizon:   s.getOffset(KeyFutureHorizon, defaults.FutureHorizon),
		RefreshInterval: s.getDuration(KeyRefreshInterval, defaults.RefreshInterval),
		PageSize:        int64(s.getInt(KeyPageSize, int(defaults.PageSize))),
		Ownership:       defaults.Ownership,
		DefaultOwner:    s.configStore.GetString(KeyDefaultOwner),
		Cleanup:         defaults.Cleanup,
	}

	if p, err := domain.ParseOwnershipPolicy(s.configStore.GetString(KeyOwnership)); err == nil {
		settings.Ownership = p
	}
	if p, err := domain.ParseCleanupPolicy(s.configStore.GetString(KeyCleanup)); err == nil {
		settings.Cleanup = p
	}

	return settings
}

// Get returns the effective value of a known key as a string. The boolean
// is false for unknown keys.
func (s *SettingsService) Get(key string) (string, bool) {
	def, ok := knownSettings[key]
	if !ok {
		return "", false
	}
	raw, exists := s.configStore.Get(key)
	if !exists {
		return def.def, true
	}
	return fmt.Sprint(raw), true
}

// String returns the effective value of a known key, or "" for unknown keys.
func (s *SettingsService) String(key string) string {
	v, _ := s.Get(key)
	return v
}

// Float returns the effective value of a numeric key.
func (s *SettingsService) Float(key string) float64 {
	f, err := strconv.ParseFloat(s.String(key), 64)
	if err != nil {
		f, _ = strconv.ParseFloat(knownSettings[key].def, 64)
	}
	return f
}

// Set validates and stores a value for a known key.
func (s *SettingsService) Set(key, value string) error {
	def, ok := knownSettings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if def.validate != nil {
		if err := def.validate(value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	var stored any = value
	if def.convert != nil {
		stored = def.convert(value)
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the known configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownSettings))
	for k := range knownSettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// getOffset retrieves an offset value with a default.
func (s *SettingsService) getOffset(key string, defaultVal domain.Offset) domain.Offset {
	if str := s.configStore.GetString(key); str != "" {
		if off, err := domain.ParseOffset(str); err == nil {
			return off
		}
	}
	return defaultVal
}

// getDuration retrieves a positive duration with a default.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if str := s.configStore.GetString(key); str != "" {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

// getInt retrieves a positive int value with a default.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); exists {
		if n := s.configStore.GetInt(key); n > 0 {
			return n
		}
	}
	return defaultVal
}
