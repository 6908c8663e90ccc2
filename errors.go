package gospectre

import (
	"fmt"
	"time"
)

// LaunchError means a session could not be brought up: the executable
// is missing, the netlist is unreadable, an option is invalid, or the
// first prompt never arrived.
type LaunchError struct {
	Netlist string
	Command string // assembled command line, when one was built
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch simulator for %s: %v", e.Netlist, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// SessionNotInteractiveError means a dispatch operation was called on a
// session started without the interactive prompt.
type SessionNotInteractiveError struct {
	Op string
}

func (e *SessionNotInteractiveError) Error() string {
	return fmt.Sprintf("%s requires an interactive session", e.Op)
}

// UnknownEntityError means the simulator answered a named lookup or
// mutation with its failure sentinel: no analysis, instance, or
// parameter by that name exists.
type UnknownEntityError struct {
	Kind    string // "analysis", "instance", "parameter", ...
	Name    string
	Command string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("no %s named %q", e.Kind, e.Name)
}

// ParseError means a response block or a command could not be
// interpreted: a malformed numeric token, a missing sentinel, or a
// command with unbalanced parentheses.
type ParseError struct {
	Command string
	Output  string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response of %s: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError means the prompt did not return within the command
// timeout. The session stays alive; only the call fails.
type TimeoutError struct {
	Command string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("no prompt within %s", e.Elapsed)
	}
	return fmt.Sprintf("no prompt within %s after %s", e.Elapsed, e.Command)
}

// ResultNotFoundError means the raw results file is missing or holds no
// plots for the request.
type ResultNotFoundError struct {
	Path     string
	Analysis string // set when one analysis was requested
}

func (e *ResultNotFoundError) Error() string {
	if e.Analysis != "" {
		return fmt.Sprintf("no results for analysis %q in %s", e.Analysis, e.Path)
	}
	return fmt.Sprintf("no results in %s", e.Path)
}
