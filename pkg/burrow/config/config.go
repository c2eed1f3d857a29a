// Package config loads burrow configuration from the XDG config directory
// and BURROW_-prefixed environment variables using viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level        string            `mapstructure:"level"`
	Path         string            `mapstructure:"path"`
	ConsoleLevel string            `mapstructure:"console_level"`
	Components   map[string]string `mapstructure:"components"`
}

// ScanConfig configures the scanning engine.
type ScanConfig struct {
	Workers            int      `mapstructure:"workers"`
	EventBuffer        int      `mapstructure:"event_buffer"`
	ProgressIntervalMS int      `mapstructure:"progress_interval_ms"`
	StopTimeoutMS      int      `mapstructure:"stop_timeout_ms"`
	Exclude            []string `mapstructure:"exclude"`

	// MinSize is a human-readable size threshold ("10M", "1.5G"); entries
	// below it are hidden from summaries. Empty means no threshold.
	MinSize string `mapstructure:"min_size"`
}

// Config represents the application configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/burrow/config.yaml
//   - $HOME/.config/burrow/config.yaml
//
// Environment variables are prefixed with BURROW_
// (e.g. BURROW_SCAN_WORKERS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "burrow"))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "burrow"))

	return load(v)
}

// LoadFile loads configuration from an explicit file path instead of the
// XDG search path. Unlike Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("BURROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file on the search path is fine; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyBounds()
	return &cfg, nil
}

// DefaultConfigPath returns the XDG path where burrow looks for its
// config file first.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "burrow", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.workers", DefaultWorkers)
	v.SetDefault("scan.event_buffer", DefaultEventBuffer)
	v.SetDefault("scan.progress_interval_ms", DefaultProgressIntervalMS)
	v.SetDefault("scan.stop_timeout_ms", DefaultStopTimeoutMS)
	v.SetDefault("scan.exclude", DefaultExclusions)
	v.SetDefault("scan.min_size", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console_level", "")
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"rollup":  "info",
	})
}

// applyBounds clamps nonsensical values back to defaults.
func (c *Config) applyBounds() {
	if c.Scan.Workers < 1 {
		c.Scan.Workers = DefaultWorkers
	}
	if c.Scan.EventBuffer < 1 {
		c.Scan.EventBuffer = DefaultEventBuffer
	}
	if c.Scan.ProgressIntervalMS < 0 {
		c.Scan.ProgressIntervalMS = DefaultProgressIntervalMS
	}
	if c.Scan.StopTimeoutMS < 1 {
		c.Scan.StopTimeoutMS = DefaultStopTimeoutMS
	}
}
