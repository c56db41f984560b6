package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/build"
	"github.com/pithecene-io/msdev/types"
)

type fakeBuilder struct {
	art        build.Artifact
	err        build.Error
	builds     int
	locates    int
	lastDryRun bool
}

func (b *fakeBuilder) Build(_ context.Context, mode types.Mode, appName string, dryRun bool) types.Outcome[build.Artifact, build.Error] {
	b.builds++
	b.lastDryRun = dryRun
	return b.outcome(mode, appName)
}

func (b *fakeBuilder) Locate(appName string, mode types.Mode) types.Outcome[build.Artifact, build.Error] {
	b.locates++
	return b.outcome(mode, appName)
}

func (b *fakeBuilder) outcome(mode types.Mode, appName string) types.Outcome[build.Artifact, build.Error] {
	if b.err != nil {
		return types.Failure[build.Artifact, build.Error](b.err)
	}
	art := b.art
	art.App = appName
	art.Mode = mode
	return types.Success[build.Artifact, build.Error](art)
}

type fakeBridges struct {
	spec   bridge.HeadlessSpec
	err    bridge.Error
	starts int
}

func (f *fakeBridges) Start(_ context.Context, _ string, _ types.Mode) types.Outcome[*bridge.Handle, bridge.Error] {
	f.starts++
	if f.err != nil {
		return types.Failure[*bridge.Handle, bridge.Error](f.err)
	}
	return types.Success[*bridge.Handle, bridge.Error](bridge.ReusedHandle(f.spec))
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []build.Command
	result build.Result
	err    error
	// block waits for ctx cancellation before returning.
	block bool
}

func (r *fakeRunner) Run(ctx context.Context, cmd build.Command) (build.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()
	if r.block {
		<-ctx.Done()
		return build.Result{ExitCode: -1}, nil
	}
	return r.result, r.err
}

var errStart = errors.New("exec format error")

func nativeSpec() bridge.HeadlessSpec {
	return bridge.HeadlessSpec{Mode: types.ModeNative, Controller: bridge.ControllerUDP, ControllerPort: 8000, HostPort: 9001}
}

func wasmSpec() bridge.HeadlessSpec {
	return bridge.HeadlessSpec{Mode: types.ModeWasm, Controller: bridge.ControllerWS, ControllerPort: 8100, HostPort: 9001}
}

// wasmDir writes a minimal wasm build output and returns the page path.
func wasmDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"core.html": "<html>core</html>",
		"core.js":   "console.log('core')",
		"core.wasm": "\x00asm",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "core.html")
}

func envValue(env []string, key string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			val, found = v, true
		}
	}
	return val, found
}
