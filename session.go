package gospectre

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"gospectre/internal/config"
	"gospectre/internal/logtail"
	"gospectre/internal/repl"
	"gospectre/scl"
)

// promptPattern matches the interactive prompt that terminates each
// response block.
var promptPattern = regexp.MustCompile(`\r\n>\s`)

// Remote locates and authenticates the SSH host that runs the
// simulator. Key takes precedence over Password when both are set.
type Remote struct {
	Host          string
	Port          int // 0 means 22
	User          string
	Password      string
	Key           []byte // PEM-encoded private key
	KeyPassphrase string
}

// Session owns one running simulator process attached to one netlist.
//
// A Session is not safe for concurrent use: dispatch is synchronous
// request/response on a single command channel. Serialize access, or
// give each goroutine its own session (see Pool).
type Session struct {
	netlist     string
	rawPath     string
	logPath     string
	logMode     string
	interactive bool

	proc    repl.Proc
	repl    *repl.REPL
	timeout time.Duration
	quit    time.Duration
	offset  int64

	drain        *logtail.Drain
	followCancel context.CancelFunc
	followDone   chan struct{}

	log     logrus.FieldLogger
	stopped bool
}

// Start launches an interactive simulator session on the local host and
// waits for its first prompt. The caller owns the returned session and
// must Stop it.
func Start(netlist string, opts ...Option) (*Session, error) {
	return start(netlist, true, nil, opts)
}

// StartBatch launches the simulator without the interactive prompt: it
// reads the netlist, runs every analysis and exits on its own. Dispatch
// methods fail with SessionNotInteractiveError; RunAll waits for the
// process and loads what it wrote.
func StartBatch(netlist string, opts ...Option) (*Session, error) {
	return start(netlist, false, nil, opts)
}

// StartRemote launches an interactive session on an SSH host under a
// remote pty. The netlist and raw paths must be valid on both ends,
// which in practice means a shared filesystem.
func StartRemote(netlist string, remote Remote, opts ...Option) (*Session, error) {
	return start(netlist, true, &remote, opts)
}

func start(netlist string, interactive bool, remote *Remote, opts []Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) (*Session, error) {
		return nil, &LaunchError{Netlist: netlist, Err: err}
	}

	if err := o.validate(); err != nil {
		return fail(err)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return fail(err)
	}

	log := o.logger
	if log == nil {
		l := logrus.New()
		if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			l.SetLevel(lvl)
		}
		log = l
	}

	// Validate the launch before touching the filesystem, so a failed
	// start leaves nothing behind.
	exe := cfg.Spectre.Executable
	if remote == nil && !cfg.Wrapped() {
		if _, err := exec.LookPath(exe); err != nil {
			return fail(fmt.Errorf("simulator executable: %w", err))
		}
	}
	if err := checkNetlist(netlist); err != nil {
		return fail(err)
	}

	timeout := cfg.Timeouts.Command.Duration()
	if o.timeout > 0 {
		timeout = o.timeout
	}
	launchTimeout := cfg.Timeouts.Launch.Duration()
	if o.launchTimeout > 0 {
		launchTimeout = o.launchTimeout
	}

	s := &Session{
		netlist:     netlist,
		interactive: interactive,
		timeout:     timeout,
		quit:        cfg.Timeouts.Quit.Duration(),
		log:         log,
	}

	s.rawPath = o.rawPath
	var tempRaw bool
	if s.rawPath == "" {
		raw, err := rawTemp(netlist)
		if err != nil {
			return fail(err)
		}
		s.rawPath = raw
		tempRaw = true
	}

	cleanup := func() {
		if s.drain != nil {
			s.drain.Close()
		}
		if tempRaw {
			os.Remove(s.rawPath)
		}
	}

	s.logMode = o.logMode
	if s.logMode == "" {
		s.logMode = cfg.Log.Mode
	}
	// A local FIFO cannot reach a process on another host.
	if remote != nil && s.logMode == config.LogModeFifo {
		s.logMode = config.LogModeFile
	}

	switch s.logMode {
	case config.LogModeFifo:
		s.logPath = o.logPath
		if s.logPath == "" {
			s.logPath = defaultLogPath(s.rawPath)
		}
		drain, err := logtail.NewDrain(s.logPath)
		if err != nil {
			cleanup()
			return fail(err)
		}
		s.drain = drain
	case config.LogModeFile:
		s.logPath = o.logPath
		if s.logPath == "" {
			s.logPath = defaultLogPath(s.rawPath)
		}
	}

	args := buildArgs(netlist, s.rawPath, s.logPath, cfg.Spectre.Args, &o, interactive)

	var cmdLine string
	if interactive {
		var t repl.Transport
		if remote != nil {
			cmdLine = shellLine(cfg, exe, args)
			t, err = repl.DialSSH(sshConfig(*remote, launchTimeout), cmdLine)
		} else {
			cmd := localCommand(cfg, exe, args)
			cmdLine = strings.Join(cmd.Args, " ")
			t, err = repl.StartPTY(cmd)
		}
		if err != nil {
			cleanup()
			return nil, &LaunchError{Netlist: netlist, Command: cmdLine, Err: err}
		}
		s.proc = t
		s.repl = repl.New(t, promptPattern, timeout, log)

		banner, err := s.repl.ExpectWithin(launchTimeout)
		if err != nil {
			s.proc.Kill()
			s.repl.Close()
			cleanup()
			switch {
			case errors.Is(err, repl.ErrTimeout):
				err = &TimeoutError{Elapsed: launchTimeout}
			case errors.Is(err, repl.ErrClosed):
				err = fmt.Errorf("simulator exited before first prompt: %w", s.proc.Wait())
			}
			return nil, &LaunchError{Netlist: netlist, Command: cmdLine, Err: err}
		}
		log.WithField("banner", scl.LastLine(banner)).Debug("simulator ready")
	} else {
		cmd := localCommand(cfg, exe, args)
		cmdLine = strings.Join(cmd.Args, " ")
		p, err := repl.StartBatch(cmd)
		if err != nil {
			cleanup()
			return nil, &LaunchError{Netlist: netlist, Command: cmdLine, Err: err}
		}
		s.proc = p
	}

	log.WithFields(logrus.Fields{
		"netlist": netlist,
		"raw":     s.rawPath,
	}).Debug("simulator started")

	if o.follow && s.logMode != config.LogModeFile {
		log.WithField("log_mode", s.logMode).Warn("log follower needs file log mode")
	}
	if o.follow && s.logMode == config.LogModeFile {
		ctx, cancel := context.WithCancel(context.Background())
		s.followCancel = cancel
		s.followDone = make(chan struct{})
		go func() {
			defer close(s.followDone)
			f := logtail.NewFollower(s.logPath, log)
			if err := f.Follow(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("log follower stopped")
			}
		}()
	}

	return s, nil
}

// Stop ends the session: it asks the simulator to quit, waits out the
// grace period, kills it if still alive, and releases the command
// channel and log plumbing. Stop is idempotent.
func (s *Session) Stop() error {
	return s.stop(false)
}

// StopRemoveRaw stops the session and deletes the raw results file.
func (s *Session) StopRemoveRaw() error {
	return s.stop(true)
}

func (s *Session) stop(removeRaw bool) error {
	if !s.stopped {
		s.stopped = true

		if s.proc.Alive() {
			if s.repl != nil {
				// Best effort; the kill below covers a refusal.
				s.repl.Send(scl.Quit())
			}
			done := make(chan struct{})
			go func() {
				s.proc.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(s.quit):
				s.log.Warn("simulator refused to exit, killing")
				s.proc.Kill()
				<-done
			}
		}

		if s.repl != nil {
			s.repl.Close()
		} else {
			s.proc.Close()
		}

		if s.followCancel != nil {
			s.followCancel()
			<-s.followDone
		}
		if s.drain != nil {
			if err := s.drain.Close(); err != nil {
				s.log.WithError(err).Warn("close log drain")
			}
		}
		s.log.WithField("netlist", s.netlist).Debug("session stopped")
	}

	if removeRaw {
		if err := os.Remove(s.rawPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove raw file: %w", err)
		}
	}
	return nil
}

// Netlist returns the netlist path the session was started with.
func (s *Session) Netlist() string { return s.netlist }

// RawPath returns the raw results file the simulator writes to.
func (s *Session) RawPath() string { return s.rawPath }

// LogPath returns the simulator log destination, empty in log mode none.
func (s *Session) LogPath() string { return s.logPath }

// Interactive reports whether the session accepts dispatch commands.
func (s *Session) Interactive() bool { return s.interactive }

// Alive reports whether the simulator process is still running.
func (s *Session) Alive() bool { return s.proc.Alive() }

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

// checkNetlist verifies the netlist exists and is a readable file.
// Remote sessions assume a shared filesystem, so the check applies to
// them too.
func checkNetlist(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("netlist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("netlist %s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("netlist: %w", err)
	}
	f.Close()
	return nil
}

// rawTemp creates a temp raw-results path named after the netlist.
func rawTemp(netlist string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(netlist), filepath.Ext(netlist))
	f, err := os.CreateTemp("", base+"_*.raw")
	if err != nil {
		return "", fmt.Errorf("raw results file: %w", err)
	}
	f.Close()
	return f.Name(), nil
}

// defaultLogPath names the log after the raw file.
func defaultLogPath(raw string) string {
	return strings.TrimSuffix(raw, filepath.Ext(raw)) + ".log"
}

// buildArgs assembles the simulator argument vector:
//
//	<netlist> -I<dir>... -raw <raw> =log <log> <config args> <presets> <extra> [+interactive]
func buildArgs(netlist, raw, logPath string, fixed []string, o *options, interactive bool) []string {
	args := []string{netlist}
	for _, inc := range o.includes {
		args = append(args, "-I"+inc)
	}
	args = append(args, "-raw", raw)
	if logPath != "" {
		args = append(args, "=log", logPath)
	}
	args = append(args, fixed...)
	if o.aps != "" {
		args = append(args, "++aps="+o.aps)
	}
	if o.xPreset != "" {
		args = append(args, "+preset="+o.xPreset)
	}
	args = append(args, o.extraArgs...)
	if interactive {
		args = append(args, "+interactive")
	}
	return args
}

// localCommand builds the exec.Cmd for a local launch, going through
// /bin/sh when a command prefix or postfix is configured.
func localCommand(cfg *config.Config, exe string, args []string) *exec.Cmd {
	if cfg.Wrapped() {
		return exec.Command("/bin/sh", "-c", shellLine(cfg, exe, args))
	}
	return exec.Command(exe, args...)
}

// shellLine flattens the invocation into one shell command line.
func shellLine(cfg *config.Config, exe string, args []string) string {
	parts := make([]string, 0, len(args)+3)
	if cfg.Spectre.CommandPrefix != "" {
		parts = append(parts, cfg.Spectre.CommandPrefix)
	}
	parts = append(parts, exe)
	parts = append(parts, args...)
	if cfg.Spectre.CommandPostfix != "" {
		parts = append(parts, cfg.Spectre.CommandPostfix)
	}
	return strings.Join(parts, " ")
}

func sshConfig(r Remote, timeout time.Duration) repl.SSHConfig {
	return repl.SSHConfig{
		Host:          r.Host,
		Port:          r.Port,
		User:          r.User,
		Password:      r.Password,
		Key:           r.Key,
		KeyPassphrase: r.KeyPassphrase,
		Timeout:       timeout,
	}
}

// exitError wraps a batch run failure, attaching the tail of the
// simulator log when one is on disk.
func (s *Session) exitError(err error) error {
	if s.logMode == config.LogModeFile {
		if tail := tailFile(s.logPath, 2048); tail != "" {
			return fmt.Errorf("simulator run failed: %w\n%s", err, tail)
		}
	}
	return fmt.Errorf("simulator run failed: %w", err)
}

// tailFile returns up to max bytes from the end of a file, starting at
// a line boundary when one is found.
func tailFile(path string, max int64) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ""
	}
	off := info.Size() - max
	if off < 0 {
		off = 0
	}
	buf := make([]byte, info.Size()-off)
	if _, err := f.ReadAt(buf, off); err != nil && err != io.EOF {
		return ""
	}
	out := string(buf)
	if off > 0 {
		if i := strings.IndexByte(out, '\n'); i >= 0 {
			out = out[i+1:]
		}
	}
	return strings.TrimRight(out, "\n")
}
