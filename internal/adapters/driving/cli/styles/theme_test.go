package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
}

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	palette := []lipgloss.Color{theme.Primary, theme.Muted, theme.Success, theme.Warning, theme.Error}

	seen := make(map[string]bool)
	for _, c := range palette {
		s := string(c)
		assert.False(t, seen[s], "duplicate colour: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil, true)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
	assert.True(t, styles.Enabled())
}

func TestStyles_DisabledRendersPlainText(t *testing.T) {
	styles := NewStyles(DefaultTheme(), false)

	assert.Equal(t, "title", styles.Render(styles.Title, "title"))

	for _, status := range []domain.SyncStatus{
		domain.SyncStatusNeverSynced,
		domain.SyncStatusSyncing,
		domain.SyncStatusEventsImported,
		domain.SyncStatusNoChanges,
		domain.SyncStatusForcedResync,
		domain.SyncStatusAuthError,
		domain.SyncStatusNetworkError,
		domain.SyncStatusCalendarGone,
	} {
		assert.Equal(t, status.String(), styles.Status(status))
	}
}

func TestStyles_EnabledKeepsText(t *testing.T) {
	styles := NewStyles(DefaultTheme(), true)

	assert.Contains(t, styles.Status(domain.SyncStatusAuthError), "auth error")
	assert.Contains(t, styles.Status(domain.SyncStatusEventsImported), "events imported")
}

func TestForWriter_NonTerminal(t *testing.T) {
	var buf bytes.Buffer

	assert.False(t, IsTerminal(&buf))
	assert.False(t, ForWriter(&buf).Enabled())
}
