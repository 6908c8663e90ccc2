// Package logtail handles the simulator's log stream: draining it into
// a named pipe so long sessions don't fill the disk, or following a
// real log file and forwarding its lines to the client logger.
package logtail

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Drain is a named pipe that swallows a simulator log stream.
//
// Pointing the simulator's =log redirect at a regular file grows it
// without bound on long interactive sessions; pointing it at a FIFO
// with no reader blocks the simulator on its first log write. Drain
// creates the FIFO and keeps a reader attached that discards
// everything written to it.
type Drain struct {
	path string
	done chan struct{}
}

// NewDrain creates a FIFO at path and starts discarding its contents.
// The path must not already exist.
func NewDrain(path string) (*Drain, error) {
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return nil, fmt.Errorf("mkfifo %s: %w", path, err)
	}

	d := &Drain{
		path: path,
		done: make(chan struct{}),
	}
	go d.drain()

	return d, nil
}

// Path returns the FIFO path, suitable for the simulator's =log argument.
func (d *Drain) Path() string {
	return d.path
}

func (d *Drain) drain() {
	defer close(d.done)

	// Blocks until a writer opens the pipe. EOF arrives once the last
	// writer closes, which for a single simulator process means exit.
	f, err := os.Open(d.path)
	if err != nil {
		return
	}
	defer f.Close()

	io.Copy(io.Discard, f)
}

// Close releases the drain goroutine and removes the FIFO. Safe to call
// whether or not the simulator ever opened its log.
func (d *Drain) Close() error {
	for {
		select {
		case <-d.done:
			return os.Remove(d.path)
		default:
		}

		// Opening the write side completes the reader's blocked open;
		// closing it again delivers EOF so the goroutine exits.
		w, err := os.OpenFile(d.path, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			w.Close()
			break
		}
		if !errors.Is(err, unix.ENXIO) {
			return fmt.Errorf("unblock log drain: %w", err)
		}

		// ENXIO: the reader is not in its open call yet. Either the
		// goroutine has not been scheduled or it already finished;
		// the select above catches the latter on the next pass.
		time.Sleep(time.Millisecond)
	}

	<-d.done
	return os.Remove(d.path)
}
