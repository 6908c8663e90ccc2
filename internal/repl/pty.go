package repl

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// PTY runs a local process under a pseudo terminal. Spectre only enters
// its interactive loop when it believes a terminal is attached.
type PTY struct {
	cmd  *exec.Cmd
	f    *os.File
	done chan struct{}
	err  error
}

// StartPTY launches cmd with its stdio attached to a fresh pty.
func StartPTY(cmd *exec.Cmd) (*PTY, error) {
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}

	p := &PTY{cmd: cmd, f: f, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *PTY) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *PTY) Write(b []byte) (int, error) { return p.f.Write(b) }

// Alive reports whether the child is still running.
func (p *PTY) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the child exits.
func (p *PTY) Wait() error {
	<-p.done
	return p.err
}

// Kill terminates the child immediately.
func (p *PTY) Kill() error {
	if !p.Alive() {
		return nil
	}
	return p.cmd.Process.Kill()
}

// Close releases the pty master.
func (p *PTY) Close() error { return p.f.Close() }
