package states

import (
	"bytes"
	"context"
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

func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ceph"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.sls"), []byte("base:\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "base.sls"), []byte("pkg.installed: []\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ceph", "mon.sls"), []byte("# mon\n"), 0644))
	return root
}

func TestListCommand(t *testing.T) {
	t.Setenv("DEVMODE_CONFIG_DIR", t.TempDir())

	t.Run("lists states with the top marker", func(t *testing.T) {
		root := fixtureRoot(t)

		var err error
		output := captureStdout(t, func() {
			err = newRoot().Run(context.Background(), []string{
				"devmode", "states", "list", "--file-root", root,
			})
		})
		require.NoError(t, err)
		assert.Contains(t, output, "base")
		assert.Contains(t, output, "ceph.mon")
		assert.Contains(t, output, "(top file)")
	})

	t.Run("empty tree", func(t *testing.T) {
		root := t.TempDir()

		var err error
		output := captureStdout(t, func() {
			err = newRoot().Run(context.Background(), []string{
				"devmode", "states", "list", "--file-root", root,
			})
		})
		require.NoError(t, err)
		assert.Contains(t, output, "No states found")
	})

	t.Run("missing root", func(t *testing.T) {
		err := newRoot().Run(context.Background(), []string{
			"devmode", "states", "list", "--file-root", filepath.Join(t.TempDir(), "absent"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file root not found")
	})
}

func TestShowCommand(t *testing.T) {
	t.Setenv("DEVMODE_CONFIG_DIR", t.TempDir())
	root := fixtureRoot(t)

	t.Run("prints the backing file", func(t *testing.T) {
		var err error
		output := captureStdout(t, func() {
			err = newRoot().Run(context.Background(), []string{
				"devmode", "states", "show", "--file-root", root, "ceph.mon",
			})
		})
		require.NoError(t, err)
		assert.Contains(t, output, "State: ceph.mon")
		assert.Contains(t, output, filepath.Join("ceph", "mon.sls"))
		assert.Contains(t, output, "# mon")
	})

	t.Run("unknown state", func(t *testing.T) {
		err := newRoot().Run(context.Background(), []string{
			"devmode", "states", "show", "--file-root", root, "nope",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("missing argument", func(t *testing.T) {
		err := newRoot().Run(context.Background(), []string{
			"devmode", "states", "show", "--file-root", root,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one state name")
	})
}
