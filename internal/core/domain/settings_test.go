package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		input string
		want  Offset
	}{
		{"-1h", Offset{Clock: -time.Hour}},
		{"1y1d", Offset{Years: 1, Days: 1}},
		{"+2w", Offset{Days: 14}},
		{"3mo", Offset{Months: 3}},
		{"1h30m", Offset{Clock: 90 * time.Minute}},
		{"-1d12h", Offset{Days: -1, Clock: -12 * time.Hour}},
		{" 45s ", Offset{Clock: 45 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOffset(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOffset_Invalid(t *testing.T) {
	for _, input := range []string{"", "-", "h", "1", "1x", "1h-2m", "abc"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseOffset(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestOffset_From(t *testing.T) {
	base := time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 28, 11, 0, 0, 0, time.UTC), MustParseOffset("-1h").From(base))
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), MustParseOffset("1y1d").From(base))
	assert.Equal(t, time.Date(2024, 3, 28, 12, 0, 0, 0, time.UTC), MustParseOffset("1mo").From(base))
}

func TestOffset_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-1h", "-1h"},
		{"1y1d", "1y1d"},
		{"2w", "14d"},
		{"90m", "1h30m"},
		{"0s", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseOffset(tt.input).String())
		})
	}
}

func TestMustParseOffset_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseOffset("nope") })
}

func TestDefaultSyncSettings(t *testing.T) {
	s := DefaultSyncSettings()

	assert.Equal(t, Offset{Clock: -time.Hour}, s.PastHorizon)
	assert.Equal(t, Offset{Years: 1, Days: 1}, s.FutureHorizon)
	assert.Equal(t, 8*time.Hour, s.RefreshInterval)
	assert.Equal(t, int64(128), s.PageSize)
	assert.Equal(t, OwnershipByEmail, s.Ownership)
	assert.Equal(t, CleanupUnpublishOld, s.Cleanup)
}

func TestSyncSettings_Window(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	start, end := DefaultSyncSettings().Window(now)

	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), end)
}
