// Package config loads the optional lrc-maker YAML configuration.
// A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds user-tunable settings.
type Config struct {
	// Player poll cadence in milliseconds.
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// MPRIS bus names (or prefixes) tried first during discovery.
	PreferredPlayers []string `yaml:"preferred_players"`

	// Debug log destination; the terminal itself is owned by the editor.
	LogFile string `yaml:"log_file"`
}

func defaultConfig() *Config {
	c := &Config{}
	c.PollIntervalMs = 150
	c.PreferredPlayers = nil // player package defaults apply

	if cache, err := os.UserCacheDir(); err == nil {
		c.LogFile = filepath.Join(cache, "lrc-maker", "lrc-maker.log")
	} else {
		c.LogFile = "lrc-maker.log"
	}
	return c
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lrc-maker.yaml"
	}
	return filepath.Join(dir, "lrc-maker", "config.yaml")
}

// Load reads the config at path, falling back to defaults when the
// file does not exist. Fields present in the file override defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = 150
	}
	return cfg, nil
}

// PollInterval returns the poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
