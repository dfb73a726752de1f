package states

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const slsExt = ".sls"

// State is one applicable unit found in the file root
type State struct {
	// Name is the dotted name accepted by the Salt client
	Name string
	// Path is the file backing the state, relative to the file root
	Path string
	// Top marks the root top.sls file
	Top bool
}

// List walks a file root and returns the states defined under it,
// sorted by name
func List(root string) ([]State, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file root not found: %s", root)
		}
		return nil, fmt.Errorf("failed to stat file root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("file root is not a directory: %s", root)
	}

	var states []State
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), slsExt) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		states = append(states, State{
			Name: nameFor(rel),
			Path: rel,
			Top:  rel == "top"+slsExt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk file root %s: %w", root, err)
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states, nil
}

// Resolve maps a dotted state name to the file backing it, trying
// <name>.sls first and then <name>/init.sls, mirroring the Salt
// client's own lookup order
func Resolve(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("state name cannot be empty")
	}

	base := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/")))
	candidates := []string{base + slsExt, filepath.Join(base, "init"+slsExt)}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("state %s not found under %s", name, root)
}

// nameFor converts a relative .sls path into the dotted name the Salt
// client accepts: a/b.sls -> a.b, a/b/init.sls -> a.b
func nameFor(rel string) string {
	name := strings.TrimSuffix(filepath.ToSlash(rel), slsExt)
	name = strings.TrimSuffix(name, "/init")
	return strings.ReplaceAll(name, "/", ".")
}
