package salt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"

	"github.com/calamari-project/devmode/internal/exec"
	"github.com/calamari-project/devmode/internal/pillar"
)

const (
	// DefaultBinary is the Salt client used for masterless application
	DefaultBinary = "salt-call"
	// DefaultFileRoot is where the dev-mode state tree lives, relative
	// to the invoking working directory
	DefaultFileRoot = "vagrant/devmode/salt/roots"
)

// ExitError reports a non-zero exit from the Salt client. The client's
// own output has already been streamed through; the code is the only
// diagnostic left to surface.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Runner executes a command and reports its outcome. The local and SSH
// runners both satisfy this.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*exec.ExecResult, error)
	RunStreaming(ctx context.Context, name string, args ...string) (int, error)
}

// Call describes one invocation of the Salt client
type Call struct {
	// Binary is the Salt client executable, looked up on PATH
	Binary string
	// FileRoot is the state tree root passed via --file-root
	FileRoot string
	// LogLevel, when set, is passed via --log-level
	LogLevel string
	// Sudo runs the client under sudo
	Sudo bool
	// Test passes test=True so states render without applying changes
	Test bool
	// Timeout bounds the run; zero means no limit
	Timeout time.Duration
}

// NewCall returns a Call with the defaults the dev environment uses:
// salt-call under sudo against the dev-mode state tree
func NewCall() *Call {
	return &Call{
		Binary:   DefaultBinary,
		FileRoot: DefaultFileRoot,
		Sudo:     true,
	}
}

// Validate checks the call is runnable
func (c *Call) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("binary cannot be empty")
	}
	if c.FileRoot == "" {
		return fmt.Errorf("file root cannot be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// Args builds the argument vector for applying states with a serialized
// pillar payload. The states string is passed through verbatim; its
// format (comma-separated names) belongs to the Salt client, not to us.
func (c *Call) Args(states, payload string) []string {
	args := []string{"--local", fmt.Sprintf("--file-root=%s", c.FileRoot)}
	if c.LogLevel != "" {
		args = append(args, fmt.Sprintf("--log-level=%s", c.LogLevel))
	}
	args = append(args, "state.sls", states, fmt.Sprintf("pillar=%s", payload))
	if c.Test {
		args = append(args, "test=True")
	}
	return args
}

// Command returns the executable name and full argument vector,
// including the sudo prefix when elevation is requested
func (c *Call) Command(states, payload string) (string, []string) {
	args := c.Args(states, payload)
	if c.Sudo {
		return "sudo", append([]string{c.Binary}, args...)
	}
	return c.Binary, args
}

// CommandLine renders the invocation as a single shell-quoted string,
// used for dry runs and for execution on a remote host
func (c *Call) CommandLine(states, payload string) string {
	name, args := c.Command(states, payload)
	return shellescape.QuoteCommand(append([]string{name}, args...))
}

// Apply runs the named states with the given payload, streaming the
// client's output through unchanged. The returned exit code is the
// client's own, untouched; err is non-nil only when the invocation
// itself could not run to completion.
func (c *Call) Apply(ctx context.Context, runner Runner, states string, payload pillar.Payload) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(states) == "" {
		return 0, fmt.Errorf("no states given")
	}

	serialized, err := payload.Serialize()
	if err != nil {
		return 0, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	name, args := c.Command(states, serialized)
	return runner.RunStreaming(ctx, name, args...)
}

// Available probes the Salt client and returns its version string
func (c *Call) Available(ctx context.Context, runner Runner) (string, error) {
	if c.Binary == "" {
		return "", fmt.Errorf("binary cannot be empty")
	}

	// The version probe never needs elevation
	result, err := runner.Run(ctx, c.Binary, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to probe %s: %w", c.Binary, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%s --version exited with code %d: %s",
			c.Binary, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return strings.TrimSpace(result.Stdout), nil
}
