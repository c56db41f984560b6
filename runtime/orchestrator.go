// Package runtime runs simulators: it builds (or locates) the artifact,
// attaches a bridge, and runs the native binary or serves the wasm build
// until it exits or the context is canceled.
package runtime

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/build"
	"github.com/pithecene-io/msdev/iox"
	"github.com/pithecene-io/msdev/log"
	"github.com/pithecene-io/msdev/metrics"
	"github.com/pithecene-io/msdev/types"
)

// BridgePortEnv tells a native simulator which controller port to use.
const BridgePortEnv = "OC_BRIDGE_PORT"

// Builder produces or locates simulator artifacts. *build.Pipeline
// satisfies it.
type Builder interface {
	Build(ctx context.Context, mode types.Mode, appName string, dryRun bool) types.Outcome[build.Artifact, build.Error]
	Locate(appName string, mode types.Mode) types.Outcome[build.Artifact, build.Error]
}

// BridgeStarter starts or reuses bridges. *bridge.Supervisor satisfies it.
type BridgeStarter interface {
	Start(ctx context.Context, appName string, mode types.Mode) types.Outcome[*bridge.Handle, bridge.Error]
}

// Options controls a single run or serve.
type Options struct {
	// NoBuild uses the last built artifact instead of building.
	NoBuild bool
	// NoBridge skips bridge supervision entirely.
	NoBridge bool
	// Port overrides the dev-server port. Zero means the configured port.
	Port int
	// OnServing, when set, receives the page URL once the dev server is up.
	OnServing func(url string)
}

// RunResult describes a finished run or serve.
type RunResult struct {
	App      string
	Mode     types.Mode
	Artifact string
	// Bridge is the spec of the attached bridge, nil with NoBridge.
	Bridge *bridge.HeadlessSpec
	// BridgeOwned is true when this invocation spawned the bridge.
	BridgeOwned bool
	// URL is the dev-server page URL (wasm only).
	URL string
	// Interrupted is true when the context was canceled while running.
	Interrupted bool
	Duration    time.Duration
}

// OrchestratorConfig configures an Orchestrator.
type OrchestratorConfig struct {
	Builder Builder
	Bridges BridgeStarter
	// Runner executes the native simulator. Nil means build.NewExecRunner.
	Runner build.Runner
	// ServePort is the default dev-server port.
	ServePort int
	Logger    *log.Logger
	Metrics   *metrics.Collector
	// Environ returns the base simulator environment. Nil means os.Environ.
	Environ func() []string
	Now     func() time.Time
}

// Orchestrator sequences build, bridge and simulator.
type Orchestrator struct {
	builder   Builder
	bridges   BridgeStarter
	runner    build.Runner
	servePort int
	logger    *log.Logger
	metrics   *metrics.Collector
	environ   func() []string
	now       func() time.Time
}

// NewOrchestrator creates an orchestrator from c.
func NewOrchestrator(c OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		builder:   c.Builder,
		bridges:   c.Bridges,
		runner:    c.Runner,
		servePort: c.ServePort,
		logger:    c.Logger,
		metrics:   c.Metrics,
		environ:   c.Environ,
		now:       c.Now,
	}
	if o.runner == nil {
		o.runner = build.NewExecRunner()
	}
	if o.logger == nil {
		o.logger = log.Nop()
	}
	if o.environ == nil {
		o.environ = os.Environ
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// RunNative builds the native simulator for appName, attaches a bridge and
// runs the simulator in the foreground with the bridge controller port in
// its environment. Canceling ctx stops the simulator; the bridge handle is
// released on every path.
func (o *Orchestrator) RunNative(ctx context.Context, appName string, opts Options) types.Outcome[RunResult, error] {
	start := o.now()
	res := RunResult{App: appName, Mode: types.ModeNative}

	art, err := o.artifact(ctx, appName, types.ModeNative, opts)
	if err != nil {
		return types.Failure[RunResult, error](err)
	}
	res.Artifact = art.Path

	handle, err := o.attachBridge(ctx, appName, types.ModeNative, opts)
	if err != nil {
		return types.Failure[RunResult, error](err)
	}
	if handle != nil {
		defer iox.DiscardClose(handle)
		res.recordBridge(handle)
	}

	env := slices.Clone(o.environ())
	if res.Bridge != nil {
		env = append(env, BridgePortEnv+"="+strconv.Itoa(res.Bridge.ControllerPort))
	}

	o.metrics.IncSimulatorRun()
	o.logger.Info("starting simulator", map[string]any{"artifact": art.Path})
	result, runErr := o.runner.Run(ctx, build.Command{
		Name: art.Path,
		Dir:  filepath.Dir(art.Path),
		Env:  env,
	})
	res.Interrupted = ctx.Err() != nil
	res.Duration = o.now().Sub(start)

	if runErr != nil && !res.Interrupted {
		o.metrics.IncSimulatorFailure()
		return types.Failure[RunResult, error](SimulatorFailed{Mode: types.ModeNative, Err: runErr})
	}
	if err := simulatorOutcome(result.ExitCode, res.Interrupted); err != nil {
		o.metrics.IncSimulatorFailure()
		o.logger.Error("simulator failed", map[string]any{"exit_code": result.ExitCode})
		return types.Failure[RunResult, error](err)
	}
	o.logger.Info("simulator stopped", map[string]any{
		"interrupted": res.Interrupted,
		"duration_ms": res.Duration.Milliseconds(),
	})
	return types.Success[RunResult, error](res)
}

// ServeWasm builds the wasm simulator for appName, attaches a bridge and
// serves the build directory until ctx is canceled.
func (o *Orchestrator) ServeWasm(ctx context.Context, appName string, opts Options) types.Outcome[RunResult, error] {
	start := o.now()
	res := RunResult{App: appName, Mode: types.ModeWasm}

	art, err := o.artifact(ctx, appName, types.ModeWasm, opts)
	if err != nil {
		return types.Failure[RunResult, error](err)
	}
	res.Artifact = art.Path

	handle, err := o.attachBridge(ctx, appName, types.ModeWasm, opts)
	if err != nil {
		return types.Failure[RunResult, error](err)
	}
	if handle != nil {
		defer iox.DiscardClose(handle)
		res.recordBridge(handle)
	}

	port := opts.Port
	if port == 0 {
		port = o.servePort
	}

	o.metrics.IncSimulatorRun()
	srv := NewWasmServer(art.Path, res.Bridge, o.logger)
	serveErr := srv.Serve(ctx, port, func(url string) {
		res.URL = url
		if opts.OnServing != nil {
			opts.OnServing(url)
		}
	})
	res.Interrupted = ctx.Err() != nil
	res.Duration = o.now().Sub(start)
	if serveErr != nil {
		o.metrics.IncSimulatorFailure()
		return types.Failure[RunResult, error](SimulatorFailed{Mode: types.ModeWasm, Err: serveErr})
	}
	return types.Success[RunResult, error](res)
}

func (o *Orchestrator) artifact(ctx context.Context, appName string, mode types.Mode, opts Options) (build.Artifact, error) {
	var out types.Outcome[build.Artifact, build.Error]
	if opts.NoBuild {
		out = o.builder.Locate(appName, mode)
	} else {
		out = o.builder.Build(ctx, mode, appName, false)
	}
	if e, failed := out.Err(); failed {
		return build.Artifact{}, e
	}
	art, _ := out.Value()
	return art, nil
}

// attachBridge returns nil with NoBridge. A bridge.Error is returned as a
// plain error only when non-nil.
func (o *Orchestrator) attachBridge(ctx context.Context, appName string, mode types.Mode, opts Options) (*bridge.Handle, error) {
	if opts.NoBridge || o.bridges == nil {
		return nil, nil
	}
	out := o.bridges.Start(ctx, appName, mode)
	if e, failed := out.Err(); failed {
		return nil, e
	}
	h, _ := out.Value()
	return h, nil
}

func (r *RunResult) recordBridge(h *bridge.Handle) {
	spec := h.Spec()
	r.Bridge = &spec
	r.BridgeOwned = h.Owned()
}
