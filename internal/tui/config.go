package tui

import (
	"time"

	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Journal         *journal.Journal
	GlamourStyle    string
	ProjectionRate  float64
	Width           int
	Height          int
	MarkdownWrap    int
	RefreshInterval time.Duration
	ShowHelp        bool
	AltScreen       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Width:           80,
		Height:          24,
		MarkdownWrap:    76,
		ProjectionRate:  0.12,
		RefreshInterval: 2 * time.Second,
		ShowHelp:        true,
		AltScreen:       true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithGlamourStyle overrides the theme's markdown style. Use "ascii" or
// "notty" for output without escape sequences.
func WithGlamourStyle(style string) Option {
	return func(c *Config) {
		c.GlamourStyle = style
	}
}

// WithJournal enables the activity tab, which reads call statistics from j.
func WithJournal(j *journal.Journal) Option {
	return func(c *Config) {
		c.Journal = j
	}
}

// WithProjectionRate sets the annual return used for local goal projections.
func WithProjectionRate(rate float64) Option {
	return func(c *Config) {
		c.ProjectionRate = rate
	}
}

// WithAltScreen controls whether the program takes over the whole terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

// WithHelp controls whether key help is shown.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
