package tui

import (
	"time"

	"github.com/Veraticus/spendcraft/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Theme          themes.Theme
	Location       *time.Location
	Currency       string
	BackupInterval time.Duration
	Width          int
	Height         int
	// AltScreen runs the program full screen.
	AltScreen bool
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Dark,
		Location:  time.Local,
		Currency:  "₹",
		Width:     100,
		Height:    30,
		AltScreen: true,
	}
}

// WithTheme sets the starting theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithCurrency sets the currency symbol.
func WithCurrency(symbol string) Option {
	return func(c *Config) {
		if symbol != "" {
			c.Currency = symbol
		}
	}
}

// WithLocation sets the zone dates are shown in.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithBackupInterval sets the auto-backup period.
func WithBackupInterval(d time.Duration) Option {
	return func(c *Config) {
		c.BackupInterval = d
	}
}
