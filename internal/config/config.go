// Package config loads the simulator launch configuration.
//
// The config file customizes how the Spectre executable is invoked:
// its name, fixed arguments, an optional shell prefix/postfix wrapper
// (environment modules, license wrappers), and the session timeouts.
//
// Config file locations (priority order):
//  1. $GOSPECTRE_CONFIG
//  2. ./gospectre.yaml
//  3. $XDG_CONFIG_HOME/gospectre/config.yaml
//  4. ~/.config/gospectre/config.yaml
//  5. /etc/gospectre/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the stock Spectre invocation
func DefaultConfig() *Config {
	return &Config{
		Spectre: SpectreConfig{
			Executable: "spectre",
			Args:       []string{"-64", "-format", "nutbin"},
		},
		Timeouts: TimeoutConfig{
			Launch:  Duration(120 * time.Second),
			Command: Duration(120 * time.Second),
			Quit:    Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level: "info",
			Mode:  LogModeFifo,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Spectre.Executable == "" {
		c.Spectre.Executable = "spectre"
	}
	if c.Spectre.Args == nil {
		c.Spectre.Args = []string{"-64", "-format", "nutbin"}
	}
	if c.Timeouts.Launch == 0 {
		c.Timeouts.Launch = Duration(120 * time.Second)
	}
	if c.Timeouts.Command == 0 {
		c.Timeouts.Command = Duration(120 * time.Second)
	}
	if c.Timeouts.Quit == 0 {
		c.Timeouts.Quit = Duration(5 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Mode == "" {
		c.Log.Mode = LogModeFifo
	}
}

// Wrapped reports whether the invocation must go through a shell because
// a command prefix or postfix is configured.
func (c *Config) Wrapped() bool {
	return c.Spectre.CommandPrefix != "" || c.Spectre.CommandPostfix != ""
}
