package status

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newRoot() *cli.Command {
	return &cli.Command{
		Name: "devmode",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		},
		Commands: []*cli.Command{Command},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

// stubBinary places a fake executable on PATH
func stubBinary(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0755))
}

func TestStatusCommand(t *testing.T) {
	t.Run("reports a healthy environment", func(t *testing.T) {
		configDir := t.TempDir()
		t.Setenv("DEVMODE_CONFIG_DIR", configDir)

		fileRoot := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(fileRoot, "base.sls"), []byte("# s\n"), 0644))

		binDir := t.TempDir()
		stubBinary(t, binDir, "salt-call", "echo salt-call 3006.1")
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

		configContent := fmt.Sprintf("version: v1\nsalt:\n  file_root: %s\n  sudo: false\n", fileRoot)
		require.NoError(t, os.WriteFile(filepath.Join(configDir, "devmode.yaml"), []byte(configContent), 0644))

		var err error
		output := captureStdout(t, func() {
			err = newRoot().Run(context.Background(), []string{"devmode", "status"})
		})
		require.NoError(t, err)
		assert.Contains(t, output, "✓ Salt client: salt-call 3006.1")
		assert.Contains(t, output, "Sudo: disabled in config")
		assert.Contains(t, output, "(1 states)")
	})

	t.Run("reports missing pieces without failing", func(t *testing.T) {
		t.Setenv("DEVMODE_CONFIG_DIR", t.TempDir())
		// Empty PATH: no salt-call, no sudo, and the default file root
		// does not exist in a fresh tempdir
		t.Setenv("PATH", t.TempDir())
		t.Chdir(t.TempDir())

		var err error
		output := captureStdout(t, func() {
			err = newRoot().Run(context.Background(), []string{"devmode", "status"})
		})
		require.NoError(t, err)
		assert.Contains(t, output, "built-in defaults")
		assert.Contains(t, output, "✗ Salt client")
		assert.Contains(t, output, "✗ File root")
	})
}
