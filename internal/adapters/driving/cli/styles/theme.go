// Package styles provides the colour theme for calsync terminal output.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates a completed sync.
	Success lipgloss.Color

	// Warning indicates a sync that is running or was forced.
	Warning lipgloss.Color

	// Error indicates a failed sync.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme   *Theme
	enabled bool

	// Title style for headers.
	Title lipgloss.Style

	// Muted style for ids and timestamps.
	Muted lipgloss.Style

	// Success style for healthy sync states.
	Success lipgloss.Style

	// Warning style for transitional sync states.
	Warning lipgloss.Style

	// Error style for failed sync states.
	Error lipgloss.Style
}

// NewStyles creates styles from a theme. Disabled styles render text
// unchanged.
func NewStyles(theme *Theme, enabled bool) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:   theme,
		enabled: enabled,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),
	}
}

// ForWriter enables styling only when w is a terminal.
func ForWriter(w io.Writer) *Styles {
	return NewStyles(DefaultTheme(), IsTerminal(w))
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Enabled reports whether styles are applied.
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Render applies style to text when styling is enabled.
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// Status renders a calendar sync status in the colour of its outcome.
func (s *Styles) Status(status domain.SyncStatus) string {
	switch {
	case status.IsError():
		return s.Render(s.Error, status.String())
	case status == domain.SyncStatusEventsImported || status == domain.SyncStatusNoChanges:
		return s.Render(s.Success, status.String())
	case status == domain.SyncStatusNeverSynced:
		return s.Render(s.Muted, status.String())
	default:
		return s.Render(s.Warning, status.String())
	}
}
