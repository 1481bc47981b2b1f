// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads the nsmctl configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-nsm/pkg/nsm"
)

// Config represents the complete nsmctl configuration
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DeviceConfig selects the NSM character device
type DeviceConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"` // info, debug
}

// MetricsConfig controls Prometheus metric recording
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device:  DeviceConfig{Path: nsm.DevFile},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads a YAML configuration file, fills unset fields with defaults and
// applies environment overrides. An empty path yields the defaults with
// overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		if cfg.Device.Path == "" {
			cfg.Device.Path = nsm.DevFile
		}
		if cfg.Logging.Level == "" {
			cfg.Logging.Level = "info"
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with the NSM_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("NSM_DEVICE"); v != "" {
		c.Device.Path = v
	}
	if v := os.Getenv("NSM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for values no component can act on.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "info", "debug":
	default:
		return fmt.Errorf("config: unknown logging level %q", c.Logging.Level)
	}
	if c.Device.Path == "" {
		return fmt.Errorf("config: empty device path")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Logging.Level == "debug"
}
