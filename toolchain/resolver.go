package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pithecene-io/msdev/types"
)

// ErrNotFound is wrapped by every resolution failure.
var ErrNotFound = errors.New("tool not found")

// NotFoundError reports a tool that is neither bundled nor on PATH.
type NotFoundError struct {
	ToolID string
	Hint   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.ToolID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Resolver maps tool identifiers to absolute executable paths.
type Resolver struct {
	toolsDir string
	platform types.Platform
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewResolver creates a resolver that searches toolsDir before PATH.
func NewResolver(toolsDir string, platform types.Platform) *Resolver {
	return &Resolver{
		toolsDir: toolsDir,
		platform: platform,
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
}

// Resolve returns the absolute path of tool id.
func (r *Resolver) Resolve(id string) (string, error) {
	tool, ok := Lookup(id)
	if !ok {
		tool = Tool{ID: id, System: []string{id}, Hint: Hint(id)}
	}

	for _, rel := range tool.Bundled {
		if p, ok := r.existing(filepath.Join(r.toolsDir, filepath.FromSlash(rel)), tool.Script); ok {
			return p, nil
		}
	}

	if id == Emcc {
		if emsdk := r.getenv("EMSDK"); emsdk != "" {
			if p, ok := r.existing(filepath.Join(emsdk, "upstream", "emscripten", "emcc"), true); ok {
				return p, nil
			}
		}
	}

	for _, name := range tool.System {
		if p, err := r.lookPath(name); err == nil {
			abs, err := filepath.Abs(p)
			if err != nil {
				return "", fmt.Errorf("resolve %s: %w", id, err)
			}
			return abs, nil
		}
	}

	return "", &NotFoundError{ToolID: id, Hint: tool.Hint}
}

// BinDirs returns the bundled tool directories that exist on disk, in
// registry order. They are prepended to PATH for build subprocesses.
func (r *Resolver) BinDirs() []string {
	ids := []string{CMake, Ninja, Emcc, Zig, Bridge}
	var dirs []string
	seen := make(map[string]bool)
	for _, id := range ids {
		for _, rel := range registry[id].Bundled {
			dir := filepath.Dir(filepath.Join(r.toolsDir, filepath.FromSlash(rel)))
			if seen[dir] {
				continue
			}
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// existing checks candidate (with platform suffixes) and returns the first
// regular file found.
func (r *Resolver) existing(candidate string, script bool) (string, bool) {
	names := []string{candidate}
	if r.platform.IsWindows() {
		names = []string{candidate + ".exe"}
		if script {
			names = append(names, candidate+".bat", candidate+".cmd")
		}
	}
	for _, name := range names {
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}
