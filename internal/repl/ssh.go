package repl

import (
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig locates and authenticates the remote host that runs the
// simulator. Key takes precedence over Password when both are set.
type SSHConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Key           []byte // PEM-encoded private key
	KeyPassphrase string
	Timeout       time.Duration
}

func (c SSHConfig) clientConfig() (*ssh.ClientConfig, error) {
	if c.User == "" {
		return nil, fmt.Errorf("ssh user not set")
	}

	var auth []ssh.AuthMethod
	switch {
	case len(c.Key) > 0:
		var signer ssh.Signer
		var err error
		if c.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(c.Key, []byte(c.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(c.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	case c.Password != "":
		auth = append(auth, ssh.Password(c.Password))
	default:
		return nil, fmt.Errorf("no ssh auth method: set Key or Password")
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.Timeout,
	}, nil
}

// SSH runs the simulator on a remote host, under a remote pty so the
// interactive prompt behaves as it does locally.
type SSH struct {
	client *ssh.Client
	sess   *ssh.Session
	stdin  io.WriteCloser
	stdout io.Reader
	done   chan struct{}
	err    error
}

// DialSSH connects to the host described by cfg and starts command on a
// remote pty.
func DialSSH(cfg SSHConfig, command string) (*SSH, error) {
	config, err := cfg.clientConfig()
	if err != nil {
		return nil, fmt.Errorf("build ssh config: %w", err)
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, port)

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("establish ssh connection: %w", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sess, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := sess.RequestPty("xterm", 40, 120, modes); err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("request pty: %w", err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("open stdin: %w", err)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("open stdout: %w", err)
	}

	if err := sess.Start(command); err != nil {
		sess.Close()
		client.Close()
		return nil, fmt.Errorf("start %q: %w", command, err)
	}

	s := &SSH{
		client: client,
		sess:   sess,
		stdin:  stdin,
		stdout: stdout,
		done:   make(chan struct{}),
	}
	go func() {
		s.err = sess.Wait()
		close(s.done)
	}()
	return s, nil
}

func (s *SSH) Read(b []byte) (int, error)  { return s.stdout.Read(b) }
func (s *SSH) Write(b []byte) (int, error) { return s.stdin.Write(b) }

// Alive reports whether the remote command is still running.
func (s *SSH) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the remote command exits.
func (s *SSH) Wait() error {
	<-s.done
	return s.err
}

// Kill signals the remote command to terminate.
func (s *SSH) Kill() error {
	if !s.Alive() {
		return nil
	}
	return s.sess.Signal(ssh.SIGKILL)
}

// Close tears down the session and the connection.
func (s *SSH) Close() error {
	s.sess.Close()
	return s.client.Close()
}
