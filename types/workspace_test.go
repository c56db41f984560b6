package types //nolint:revive // types is a valid package name

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWorkspace(t *testing.T) {
	dir := t.TempDir()

	ws, err := NewWorkspace(dir)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if !filepath.IsAbs(ws.Root) {
		t.Errorf("root %q is not absolute", ws.Root)
	}
	if got, want := ws.Path("bin", "core"), filepath.Join(ws.Root, "bin", "core"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	abs := filepath.Join(dir, "elsewhere")
	if got := ws.Path(abs); got != abs {
		t.Errorf("absolute Path = %q, want %q", got, abs)
	}
}

func TestNewWorkspace_Invalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, root := range []string{"", filepath.Join(dir, "missing"), file} {
		if _, err := NewWorkspace(root); err == nil {
			t.Errorf("NewWorkspace(%q) expected error", root)
		}
	}
}
