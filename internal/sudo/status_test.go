package sudo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calamari-project/devmode/internal/exec"
)

// scriptedRunner returns a canned result per command name
type scriptedRunner struct {
	results map[string]*exec.ExecResult
	errs    map[string]error
}

func (s *scriptedRunner) Run(ctx context.Context, name string, args ...string) (*exec.ExecResult, error) {
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	if result, ok := s.results[name]; ok {
		return result, nil
	}
	return &exec.ExecResult{}, nil
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name   string
		runner *scriptedRunner
		want   Status
	}{
		{
			name: "sudo missing from PATH",
			runner: &scriptedRunner{
				results: map[string]*exec.ExecResult{"which": {ExitCode: 1}},
			},
			want: NotInstalled,
		},
		{
			name: "which cannot run",
			runner: &scriptedRunner{
				errs: map[string]error{"which": fmt.Errorf("spawn failed")},
			},
			want: NotInstalled,
		},
		{
			name:   "passwordless",
			runner: &scriptedRunner{},
			want:   Passwordless,
		},
		{
			name: "password required",
			runner: &scriptedRunner{
				results: map[string]*exec.ExecResult{
					"sudo": {ExitCode: 1, Stderr: "sudo: a password is required"},
				},
			},
			want: RequiresPassword,
		},
		{
			name: "password hint on stdout",
			runner: &scriptedRunner{
				results: map[string]*exec.ExecResult{
					"sudo": {ExitCode: 1, Stdout: "sudo: a password is required"},
				},
			},
			want: RequiresPassword,
		},
		{
			name: "not in sudoers",
			runner: &scriptedRunner{
				results: map[string]*exec.ExecResult{
					"sudo": {ExitCode: 1, Stderr: "user is not in the sudoers file"},
				},
			},
			want: NoAccess,
		},
		{
			name: "sudo cannot run",
			runner: &scriptedRunner{
				errs: map[string]error{"sudo": fmt.Errorf("spawn failed")},
			},
			want: NoAccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := GetStatus(context.Background(), tt.runner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "sudo not installed", NotInstalled.String())
	assert.Equal(t, "user not in sudoers", NoAccess.String())
	assert.Equal(t, "sudo requires password", RequiresPassword.String())
	assert.Equal(t, "passwordless sudo configured", Passwordless.String())
	assert.Equal(t, "unknown", Status(99).String())
}

func TestUsable(t *testing.T) {
	t.Run("passwordless is usable", func(t *testing.T) {
		assert.True(t, Usable(context.Background(), &scriptedRunner{}))
	})

	t.Run("password prompt is usable", func(t *testing.T) {
		runner := &scriptedRunner{
			results: map[string]*exec.ExecResult{
				"sudo": {ExitCode: 1, Stderr: "a password is required"},
			},
		}
		assert.True(t, Usable(context.Background(), runner))
	})

	t.Run("missing sudo is not usable", func(t *testing.T) {
		runner := &scriptedRunner{
			results: map[string]*exec.ExecResult{"which": {ExitCode: 1}},
		}
		assert.False(t, Usable(context.Background(), runner))
	})
}
