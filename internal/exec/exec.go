package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
)

// ExecResult contains the result of a command execution
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Local runs commands on the local machine
type Local struct {
	// Dir is the working directory for commands; empty means inherit
	// the current process working directory
	Dir string
	// Env is extra environment appended to the inherited environment
	Env []string
}

// NewLocal creates a Local runner that inherits the current working
// directory and environment
func NewLocal() *Local {
	return &Local{}
}

// Run executes a command and captures its output. A non-zero exit from
// the command is not an error; the status is returned in the result.
func (l *Local) Run(ctx context.Context, name string, args ...string) (*ExecResult, error) {
	if name == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = l.Dir
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		exitErr, ok := err.(*osexec.ExitError)
		if !ok {
			// Spawn failure, not a command failure
			return nil, fmt.Errorf("failed to execute %s: %w", name, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	if ctx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("command %s timed out", name)
	}

	return result, nil
}

// RunStreaming executes a command with stdin, stdout and stderr connected
// to the current process. The command's exit code is returned untouched
// so callers can propagate it verbatim.
func (l *Local) RunStreaming(ctx context.Context, name string, args ...string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("command cannot be empty")
	}

	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = l.Dir
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}

	// Pass the terminal through so the command can prompt (sudo password)
	// and stream its own output unmodified
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*osexec.ExitError); ok {
			if ctx.Err() == context.DeadlineExceeded {
				return exitErr.ExitCode(), fmt.Errorf("command %s timed out", name)
			}
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	return 0, nil
}

// LookPath reports the absolute path of a binary, or an error if it is
// not on PATH
func LookPath(name string) (string, error) {
	path, err := osexec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return path, nil
}
