package ssh

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"al.essio.dev/pkg/shellescape"
	"golang.org/x/crypto/ssh"

	"github.com/calamari-project/devmode/internal/exec"
)

// Run executes a command on the remote host and captures its output.
// The argument vector is shell-quoted into a single remote command line.
// A non-zero exit from the remote command is not an error.
func (c *Connection) Run(ctx context.Context, name string, args ...string) (*exec.ExecResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("connection is not established")
	}
	if name == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	code, err := c.wait(ctx, session, commandLine(name, args))
	if err != nil {
		return nil, err
	}

	return &exec.ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}, nil
}

// RunStreaming executes a command on the remote host with output
// connected to the local terminal, returning the remote exit code
// untouched
func (c *Connection) RunStreaming(ctx context.Context, name string, args ...string) (int, error) {
	if c.client == nil {
		return 0, fmt.Errorf("connection is not established")
	}
	if name == "" {
		return 0, fmt.Errorf("command cannot be empty")
	}

	session, err := c.client.NewSession()
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	session.Stdin = os.Stdin
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr

	return c.wait(ctx, session, commandLine(name, args))
}

// wait runs the command and blocks until it exits or the context is
// done, extracting the remote exit status
func (c *Connection) wait(ctx context.Context, session *ssh.Session, cmd string) (int, error) {
	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		// Best effort; the remote process may outlive the session
		session.Signal(ssh.SIGTERM)
		session.Close()
		return 0, fmt.Errorf("remote command aborted: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*ssh.ExitError); ok {
				return exitErr.ExitStatus(), nil
			}
			return 0, fmt.Errorf("failed to execute remote command: %w", err)
		}
		return 0, nil
	}
}

// commandLine quotes an argument vector into a single remote shell
// command; the pillar payload in particular must survive intact
func commandLine(name string, args []string) string {
	return shellescape.QuoteCommand(append([]string{name}, args...))
}
