package repl

import (
	"io"
	"os/exec"
)

// Batch runs a non-interactive simulation to completion. It has no
// command channel; the simulator reads the netlist, runs every analysis
// and exits.
type Batch struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// StartBatch launches cmd detached from any terminal with its output
// discarded; the simulator writes its own log file.
func StartBatch(cmd *exec.Cmd) (*Batch, error) {
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	b := &Batch{cmd: cmd, done: make(chan struct{})}
	go func() {
		b.err = cmd.Wait()
		close(b.done)
	}()
	return b, nil
}

// Alive reports whether the run is still in progress.
func (b *Batch) Alive() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the run finishes and returns its exit error.
func (b *Batch) Wait() error {
	<-b.done
	return b.err
}

// Kill aborts the run.
func (b *Batch) Kill() error {
	if !b.Alive() {
		return nil
	}
	return b.cmd.Process.Kill()
}

// Close is a no-op; a batch run holds no channel handles.
func (b *Batch) Close() error { return nil }
