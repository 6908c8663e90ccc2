// Package repl drives an interactive simulator prompt over a byte channel.
//
// A Transport carries the raw bytes of one simulator process; REPL layers
// the prompt discipline on top: send one command line, accumulate output
// until the prompt pattern appears, hand back the block in between. Reads
// are bounded by a timeout and a timeout never kills the process, the
// caller decides what to do with the session.
package repl

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrTimeout means the prompt did not come back within the bound.
	// The process is left running.
	ErrTimeout = errors.New("timed out waiting for prompt")
	// ErrClosed means the output channel ended before the prompt.
	ErrClosed = errors.New("output channel closed")
	// ErrNotRunning means the process has already exited.
	ErrNotRunning = errors.New("process not running")
)

// Proc is a running simulator process.
type Proc interface {
	// Alive reports whether the process is still running.
	Alive() bool
	// Wait blocks until the process exits.
	Wait() error
	// Kill terminates the process immediately.
	Kill() error
	// Close releases the process's channel handles.
	Close() error
}

// Transport is a Proc that exposes its interactive byte channel.
type Transport interface {
	Proc
	io.ReadWriter
}

// REPL reads and writes one prompt cycle at a time.
type REPL struct {
	t       Transport
	prompt  *regexp.Regexp
	timeout time.Duration
	chunks  chan []byte
	pending []byte
	log     logrus.FieldLogger
}

// New wraps a transport and starts draining its output. The timeout
// bounds each Expect.
func New(t Transport, prompt *regexp.Regexp, timeout time.Duration, log logrus.FieldLogger) *REPL {
	r := &REPL{
		t:       t,
		prompt:  prompt,
		timeout: timeout,
		chunks:  make(chan []byte, 64),
		log:     log,
	}
	go r.pump()
	return r
}

// pump moves transport output into the chunk channel until the channel
// ends. A pty read fails once the child exits; that closes the chunks.
func (r *REPL) pump() {
	defer close(r.chunks)
	for {
		buf := make([]byte, 4096)
		n, err := r.t.Read(buf)
		if n > 0 {
			r.chunks <- buf[:n]
		}
		if err != nil {
			return
		}
	}
}

// Expect reads until the prompt appears and returns the text before it.
func (r *REPL) Expect() (string, error) {
	return r.expect(r.timeout)
}

// ExpectWithin is Expect with a one-off bound, used for the first prompt
// after launch.
func (r *REPL) ExpectWithin(d time.Duration) (string, error) {
	return r.expect(d)
}

func (r *REPL) expect(d time.Duration) (string, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		if loc := r.prompt.FindIndex(r.pending); loc != nil {
			out := string(r.pending[:loc[0]])
			r.pending = append([]byte(nil), r.pending[loc[1]:]...)
			return out, nil
		}
		select {
		case chunk, ok := <-r.chunks:
			if !ok {
				return "", ErrClosed
			}
			r.pending = append(r.pending, chunk...)
		case <-timer.C:
			return "", ErrTimeout
		}
	}
}

// Send writes one command line to the process.
func (r *REPL) Send(command string) error {
	if !r.t.Alive() {
		return ErrNotRunning
	}
	r.log.WithField("command", command).Debug("send")
	if _, err := r.t.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("send %q: %w", command, err)
	}
	return nil
}

// Run sends a command and returns its response block, with carriage
// returns and the echoed command line stripped.
func (r *REPL) Run(command string) (string, error) {
	if err := r.Send(command); err != nil {
		return "", err
	}
	out, err := r.Expect()
	if err != nil {
		return "", err
	}

	out = strings.ReplaceAll(out, "\r", "")
	if first, rest, found := strings.Cut(out, "\n"); found && strings.TrimSpace(first) == command {
		return rest, nil
	} else if !found && strings.TrimSpace(out) == command {
		return "", nil
	}
	return out, nil
}

// Alive reports whether the underlying process still runs.
func (r *REPL) Alive() bool { return r.t.Alive() }

// Close releases the transport. Pending output is discarded.
func (r *REPL) Close() error { return r.t.Close() }
