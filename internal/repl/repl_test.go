package repl

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

var prompt = regexp.MustCompile(`\r\n>\s`)

// fakeTransport scripts the byte stream of a simulator process: every
// written command line is answered by the handle function.
type fakeTransport struct {
	pr     *io.PipeReader
	pw     *io.PipeWriter
	handle func(cmd string) string

	mu    sync.Mutex
	alive bool
	sent  []string
	done  chan struct{}
}

func newFakeTransport(handle func(string) string) *fakeTransport {
	pr, pw := io.Pipe()
	return &fakeTransport{
		pr:     pr,
		pw:     pw,
		handle: handle,
		alive:  true,
		done:   make(chan struct{}),
	}
}

func (f *fakeTransport) Read(b []byte) (int, error) { return f.pr.Read(b) }

func (f *fakeTransport) Write(b []byte) (int, error) {
	cmd := strings.TrimRight(string(b), "\n")
	f.mu.Lock()
	f.sent = append(f.sent, cmd)
	f.mu.Unlock()

	if f.handle != nil {
		if reply := f.handle(cmd); reply != "" {
			go f.pw.Write([]byte(reply))
		}
	}
	return len(b), nil
}

func (f *fakeTransport) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

func (f *fakeTransport) Wait() error {
	<-f.done
	return nil
}

func (f *fakeTransport) Kill() error { return f.Close() }

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alive {
		f.alive = false
		close(f.done)
		f.pw.Close()
	}
	return nil
}

// emit pushes unsolicited output, e.g. the banner before the first prompt.
func (f *fakeTransport) emit(s string) {
	go f.pw.Write([]byte(s))
}

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// reply builds a pty-style response: echoed command, body, next prompt.
func reply(cmd, body string) string {
	if body == "" {
		return cmd + "\r\n> "
	}
	return cmd + "\r\n" + body + "\r\n> "
}

func TestRunStripsEchoAndCR(t *testing.T) {
	ft := newFakeTransport(func(cmd string) string {
		return reply(cmd, "(\"ac1\" \"ac\")")
	})
	r := New(ft, prompt, time.Second, testLogger())
	defer r.Close()

	out, err := r.Run("(sclListAnalysis)")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "(\"ac1\" \"ac\")" {
		t.Errorf("Run() = %q, want the bare response block", out)
	}
	if strings.Contains(out, "\r") {
		t.Error("carriage returns should be stripped")
	}
}

func TestRunEmptyResponse(t *testing.T) {
	ft := newFakeTransport(func(cmd string) string {
		return reply(cmd, "")
	})
	r := New(ft, prompt, time.Second, testLogger())
	defer r.Close()

	out, err := r.Run("(sclQuit)")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "" {
		t.Errorf("Run() = %q, want empty block", out)
	}
}

func TestRunSequential(t *testing.T) {
	ft := newFakeTransport(func(cmd string) string {
		switch cmd {
		case "(sclListNet)":
			return reply(cmd, "(\"in\" \"out\")")
		default:
			return reply(cmd, "t")
		}
	})
	r := New(ft, prompt, time.Second, testLogger())
	defer r.Close()

	first, err := r.Run("(sclListNet)")
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	second, err := r.Run("(sclCreateAnalysis \"ac1\" \"ac\")")
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	if !strings.Contains(first, "\"in\"") {
		t.Errorf("first response = %q", first)
	}
	if strings.TrimSpace(second) != "t" {
		t.Errorf("second response = %q, want t", second)
	}
}

func TestExpectWithinFirstPrompt(t *testing.T) {
	ft := newFakeTransport(nil)
	r := New(ft, prompt, time.Second, testLogger())
	defer r.Close()

	ft.emit("spectre (R) loading...\r\n> ")

	banner, err := r.ExpectWithin(time.Second)
	if err != nil {
		t.Fatalf("ExpectWithin() error: %v", err)
	}
	if !strings.Contains(banner, "loading") {
		t.Errorf("banner = %q", banner)
	}
}

func TestRunTimeoutKeepsProcess(t *testing.T) {
	ft := newFakeTransport(func(cmd string) string { return "" })
	r := New(ft, prompt, 50*time.Millisecond, testLogger())
	defer r.Close()

	_, err := r.Run("(sclRun \"all\")")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if !r.Alive() {
		t.Error("a timeout must not kill the process")
	}
}

func TestExpectAfterChannelEnd(t *testing.T) {
	ft := newFakeTransport(func(cmd string) string { return "" })
	r := New(ft, prompt, time.Second, testLogger())

	if err := r.Send("(sclQuit)"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	ft.Close()

	if _, err := r.Expect(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expect() error = %v, want ErrClosed", err)
	}
}

func TestSendNotRunning(t *testing.T) {
	ft := newFakeTransport(nil)
	r := New(ft, prompt, time.Second, testLogger())
	ft.Close()

	if err := r.Send("(sclListNet)"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Send() error = %v, want ErrNotRunning", err)
	}
}
