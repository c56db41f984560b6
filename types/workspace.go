package types

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the root directory holding midi-studio and open-control checkouts.
type Workspace struct {
	Root string
}

// NewWorkspace validates root and returns a Workspace with an absolute path.
func NewWorkspace(root string) (Workspace, error) {
	if root == "" {
		return Workspace{}, errors.New("workspace root must be non-empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve workspace root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Workspace{}, fmt.Errorf("workspace root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Workspace{}, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return Workspace{Root: abs}, nil
}

// Path joins elem onto the workspace root. Absolute elements are returned as-is.
func (w Workspace) Path(elem ...string) string {
	if len(elem) > 0 && filepath.IsAbs(elem[0]) {
		return filepath.Join(elem...)
	}
	return filepath.Join(append([]string{w.Root}, elem...)...)
}
