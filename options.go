package gospectre

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gospectre/internal/config"
)

// Option customizes how a session is started.
type Option func(*options)

type options struct {
	includes      []string
	rawPath       string
	logPath       string
	logMode       string
	configPath    string
	timeout       time.Duration
	launchTimeout time.Duration
	extraArgs     []string
	aps           string
	xPreset       string
	logger        logrus.FieldLogger
	follow        bool
}

// Accepted values for WithAPS and WithXPreset.
var (
	apsSettings = map[string]bool{
		"liberal":      true,
		"moderate":     true,
		"conservative": true,
	}
	xSettings = map[string]bool{
		"cx": true,
		"ax": true,
		"mx": true,
		"lx": true,
		"vx": true,
	}
)

func (o *options) validate() error {
	if o.aps != "" && !apsSettings[o.aps] {
		return fmt.Errorf("invalid aps setting %q, want liberal, moderate or conservative", o.aps)
	}
	if o.xPreset != "" && !xSettings[o.xPreset] {
		return fmt.Errorf("invalid preset %q, want cx, ax, mx, lx or vx", o.xPreset)
	}
	if o.aps != "" && o.xPreset != "" {
		return fmt.Errorf("aps and preset settings are mutually exclusive")
	}
	switch o.logMode {
	case "", config.LogModeFifo, config.LogModeFile, config.LogModeNone:
	default:
		return fmt.Errorf("invalid log mode %q, want fifo, file or none", o.logMode)
	}
	return nil
}

// WithIncludes adds -I include directories to the simulator command line.
func WithIncludes(dirs ...string) Option {
	return func(o *options) {
		o.includes = append(o.includes, dirs...)
	}
}

// WithRawPath sets the raw results path instead of a generated temp file.
func WithRawPath(path string) Option {
	return func(o *options) {
		o.rawPath = path
	}
}

// WithLogPath sets where the simulator log goes in fifo and file modes.
func WithLogPath(path string) Option {
	return func(o *options) {
		o.logPath = path
	}
}

// WithLogMode overrides the configured log handling: "fifo" drains the
// log through a named pipe, "file" keeps it on disk, "none" drops the
// redirect entirely.
func WithLogMode(mode string) Option {
	return func(o *options) {
		o.logMode = mode
	}
}

// WithConfigPath loads the launch configuration from an explicit file
// instead of the search path.
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithTimeout overrides the per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLaunchTimeout overrides the wait for the first prompt.
func WithLaunchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.launchTimeout = d
	}
}

// WithArgs appends extra arguments to the simulator command line.
func WithArgs(args ...string) Option {
	return func(o *options) {
		o.extraArgs = append(o.extraArgs, args...)
	}
}

// WithAPS enables accelerated parallel simulation with the given
// errpreset: liberal, moderate or conservative.
func WithAPS(setting string) Option {
	return func(o *options) {
		o.aps = setting
	}
}

// WithXPreset selects a Spectre X performance preset: cx, ax, mx, lx
// or vx.
func WithXPreset(setting string) Option {
	return func(o *options) {
		o.xPreset = setting
	}
}

// WithLogger routes session logging through the given logger instead of
// one built from the config file's log level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithLogFollow forwards simulator log lines to the session logger
// while the session runs. Only effective in file log mode.
func WithLogFollow() Option {
	return func(o *options) {
		o.follow = true
	}
}
