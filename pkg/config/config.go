// Package config loads device configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultDeviceName   = "matter-light"
	DefaultDatabasePath = "matter-light.db"
	DefaultLogLevel     = "info"
)

// Config holds the device configuration.
type Config struct {
	// DeviceName names the device in logs.
	DeviceName string `yaml:"device_name"`

	// DatabasePath is the attribute store file.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// InitialOnOff is the on/off state when nothing was restored.
	InitialOnOff bool `yaml:"initial_on_off"`

	// InitialLevel is the level when nothing was restored.
	InitialLevel uint8 `yaml:"initial_level"`

	// DirtyQueueSize is the persistence queue capacity.
	// Zero selects the store default.
	DirtyQueueSize int `yaml:"dirty_queue_size"`

	// TickInterval is the level transition step period.
	// Zero selects the cluster default.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DeviceName:   DefaultDeviceName,
		DatabasePath: DefaultDatabasePath,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.DirtyQueueSize < 0 {
		return fmt.Errorf("dirty_queue_size must not be negative")
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick_interval must not be negative")
	}
	return nil
}
