package sudo

import (
	"context"
	"strings"

	"github.com/calamari-project/devmode/internal/exec"
)

// CommandRunner is the subset of the local runner the probes need
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*exec.ExecResult, error)
}

// Status represents the state of sudo access for the invoking user
type Status int

const (
	// NotInstalled means the sudo command is not available on the system
	NotInstalled Status = iota
	// NoAccess means sudo is installed but the user is not in sudoers
	NoAccess
	// RequiresPassword means the user has sudo but must enter a password
	RequiresPassword
	// Passwordless means the user has full passwordless sudo access
	Passwordless
)

// String returns a human-readable description of the sudo status
func (s Status) String() string {
	switch s {
	case NotInstalled:
		return "sudo not installed"
	case NoAccess:
		return "user not in sudoers"
	case RequiresPassword:
		return "sudo requires password"
	case Passwordless:
		return "passwordless sudo configured"
	default:
		return "unknown"
	}
}

// GetStatus returns the detailed sudo status for the invoking user
func GetStatus(ctx context.Context, runner CommandRunner) (Status, error) {
	// First check if sudo exists at all
	result, err := runner.Run(ctx, "which", "sudo")
	if err != nil || result.ExitCode != 0 {
		return NotInstalled, nil
	}

	// Check if the user can run sudo without a password
	result, err = runner.Run(ctx, "sudo", "-n", "true")
	if err != nil {
		return NoAccess, nil
	}

	if result.ExitCode == 0 {
		return Passwordless, nil
	}

	// sudo -n writes the password-requirement hint to stderr
	stderr := result.Stderr
	if stderr == "" {
		stderr = result.Stdout
	}

	if strings.Contains(stderr, "password is required") ||
		strings.Contains(stderr, "a password is required") {
		return RequiresPassword, nil
	}

	return NoAccess, nil
}

// Usable reports whether an elevated invocation can be attempted at all
// (with or without a password prompt)
func Usable(ctx context.Context, runner CommandRunner) bool {
	status, err := GetStatus(ctx, runner)
	if err != nil {
		return false
	}
	return status == Passwordless || status == RequiresPassword
}
