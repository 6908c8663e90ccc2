package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Spectre  SpectreConfig `yaml:"spectre"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Log      LogConfig     `yaml:"log"`
}

// SpectreConfig describes how the simulator binary is launched
type SpectreConfig struct {
	// Executable is the simulator binary name or path
	Executable string `yaml:"executable"`

	// Args are fixed arguments passed on every launch
	Args []string `yaml:"args"`

	// CommandPrefix is prepended to the command line. When set, the
	// whole invocation runs through /bin/sh -c, so shell syntax like
	// "module load spectre/21.1 &&" works.
	CommandPrefix string `yaml:"command_prefix,omitempty"`

	// CommandPostfix is appended after the spectre arguments when the
	// invocation is shell-wrapped.
	CommandPostfix string `yaml:"command_postfix,omitempty"`
}

// TimeoutConfig bounds the waiting states of a session
type TimeoutConfig struct {
	Launch  Duration `yaml:"launch"`  // wait for the first interactive prompt
	Command Duration `yaml:"command"` // wait for each command response
	Quit    Duration `yaml:"quit"`    // graceful-exit wait before kill
}

// Log modes accepted in LogConfig.Mode
const (
	LogModeFifo = "fifo" // drain the simulator log through a named pipe
	LogModeFile = "file" // keep the simulator log on disk
	LogModeNone = "none" // no =log redirect at all
)

// LogConfig controls client logging and simulator log handling
type LogConfig struct {
	Level string `yaml:"level"` // logrus level name: trace, debug, info, warn, error
	Mode  string `yaml:"mode"`  // fifo, file, or none
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
