package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pithecene-io/msdev/buildcache"
	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/toolchain"
	"github.com/pithecene-io/msdev/types"
)

var linuxPlatform = types.Platform{OS: "linux", Arch: "amd64"}

const coreAppCmake = `# core simulator
cmake_minimum_required(VERSION 3.20)
APP_ID="core"
APP_EXE_NAME="core_sim"
`

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newWorkspace lays out a workspace with the core app, both sibling
// prerequisites and populated dependency caches for platform.
func newWorkspace(t *testing.T, platform types.Platform) types.Workspace {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "midi-studio", "core", "sdl", "app.cmake"), coreAppCmake)
	mkdirAll(t, filepath.Join(root, "open-control", "framework"))
	mkdirAll(t, filepath.Join(root, "open-control", "hal-sdl"))
	for _, mode := range []string{"native", "wasm"} {
		mkdirAll(t, filepath.Join(root, ".build-cache", "deps", platform.OS+"-"+mode))
	}
	ws, err := types.NewWorkspace(root)
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

// fakeTools resolves ids from a fixed table.
type fakeTools struct {
	paths map[string]string
}

func (f *fakeTools) Resolve(id string) (string, error) {
	if p, ok := f.paths[id]; ok {
		return p, nil
	}
	return "", &toolchain.NotFoundError{ToolID: id, Hint: "install " + id}
}

func (f *fakeTools) BinDirs() []string { return nil }

// newFakeTools returns every tool a build needs. emcc lives in a temp
// emsdk tree with its toolchain file in place.
func newFakeTools(t *testing.T) *fakeTools {
	t.Helper()
	emsdk := t.TempDir()
	emcc := filepath.Join(emsdk, "upstream", "emscripten", "emcc")
	writeFile(t, emcc, "")
	writeFile(t, filepath.Join(emsdk, "upstream", "emscripten", "cmake", "Modules", "Platform", "Emscripten.cmake"), "")
	return &fakeTools{paths: map[string]string{
		toolchain.CMake: "/opt/tools/cmake",
		toolchain.Ninja: "/opt/tools/ninja",
		toolchain.Emcc:  emcc,
		toolchain.CXX:   "/usr/bin/c++",
	}}
}

// step classifies a recorded command.
func step(c Command) string {
	switch filepath.Base(c.Name) {
	case "cmake":
		if slices.Contains(c.Args, "-P") {
			return "deps"
		}
		return "configure"
	case "ninja":
		return "compile"
	}
	return c.Name
}

// fakeRunner records calls and answers per step.
type fakeRunner struct {
	calls   []Command
	results map[string]Result
	errs    map[string]error
	onRun   func(Command)
}

func (f *fakeRunner) Run(_ context.Context, c Command) (Result, error) {
	f.calls = append(f.calls, c)
	if f.onRun != nil {
		f.onRun(c)
	}
	return f.results[step(c)], f.errs[step(c)]
}

func (f *fakeRunner) steps() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, step(c))
	}
	return out
}

// producesArtifact makes the compile step write path.
func producesArtifact(t *testing.T, path string) func(Command) {
	return func(c Command) {
		if step(c) == "compile" {
			writeFile(t, path, "binary")
		}
	}
}

func newTestPipeline(ws types.Workspace, platform types.Platform, tools ToolResolver, runner Runner, records *buildcache.Store) *Pipeline {
	return NewPipeline(PipelineConfig{
		Workspace: ws,
		Platform:  platform,
		Config:    config.Defaults(),
		Tools:     tools,
		Runner:    runner,
		Records:   records,
		Environ:   func() []string { return []string{"PATH=/usr/bin", "HOME=/home/dev"} },
	})
}

func mustFail(t *testing.T, o types.Outcome[Artifact, Error]) Error {
	t.Helper()
	e, failed := o.Err()
	if !failed {
		v, _ := o.Value()
		t.Fatalf("expected failure, got success %+v", v)
	}
	return e
}

func mustSucceed(t *testing.T, o types.Outcome[Artifact, Error]) Artifact {
	t.Helper()
	v, ok := o.Value()
	if !ok {
		e, _ := o.Err()
		t.Fatalf("expected success, got %v", e)
	}
	return v
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}
