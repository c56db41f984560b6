package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pithecene-io/msdev/buildcache"
	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/iox"
	"github.com/pithecene-io/msdev/log"
	"github.com/pithecene-io/msdev/metrics"
	"github.com/pithecene-io/msdev/toolchain"
	"github.com/pithecene-io/msdev/types"
)

// ToolResolver resolves tool identifiers to executable paths.
// *toolchain.Resolver satisfies it.
type ToolResolver interface {
	Resolve(id string) (string, error)
	BinDirs() []string
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Workspace types.Workspace
	Platform  types.Platform
	Config    *config.Config
	Tools     ToolResolver
	// Runner executes configure, compile and dependency fetch. Nil means
	// an ExecRunner on the process stdio.
	Runner Runner
	// Logger is optional.
	Logger *log.Logger
	// Metrics is optional.
	Metrics *metrics.Collector
	// Records receives a record after every successful real build. Optional.
	Records *buildcache.Store
	// Environ returns the base environment. Nil means os.Environ.
	Environ func() []string
	// Now is the clock used for build records. Nil means time.Now.
	Now func() time.Time
}

// Pipeline builds simulator artifacts.
type Pipeline struct {
	ws       types.Workspace
	platform types.Platform
	cfg      *config.Config
	tools    ToolResolver
	runner   Runner
	logger   *log.Logger
	metrics  *metrics.Collector
	records  *buildcache.Store
	environ  func() []string
	now      func() time.Time
}

// NewPipeline creates a pipeline from c, filling optional collaborators.
func NewPipeline(c PipelineConfig) *Pipeline {
	p := &Pipeline{
		ws:       c.Workspace,
		platform: c.Platform,
		cfg:      c.Config,
		tools:    c.Tools,
		runner:   c.Runner,
		logger:   c.Logger,
		metrics:  c.Metrics,
		records:  c.Records,
		environ:  c.Environ,
		now:      c.Now,
	}
	if p.cfg == nil {
		p.cfg = config.Defaults()
	}
	if p.tools == nil {
		p.tools = toolchain.NewResolver(p.ws.Path(p.cfg.Paths.Tools), p.platform)
	}
	if p.runner == nil {
		p.runner = NewExecRunner()
	}
	if p.logger == nil {
		p.logger = log.Nop()
	}
	if p.environ == nil {
		p.environ = os.Environ
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Artifact is the result of a build.
type Artifact struct {
	App      string
	Mode     types.Mode
	AppID    string
	ExeName  string
	Path     string
	BuildDir string
	DryRun   bool
	// Planned holds the commands a dry run would have executed.
	Planned []Command
}

// target carries per-build derived paths.
type target struct {
	app       App
	appCfg    AppConfig
	mode      types.Mode
	buildDir  string
	outputDir string
	depsDir   string
	artifact  string
}

// tools resolved for one build.
type resolvedTools struct {
	cmake, ninja, emcc string
	toolchainFile      string
	zigCC, zigCXX      string
}

// BuildNative builds the native SDL simulator for appName.
func (p *Pipeline) BuildNative(ctx context.Context, appName string, dryRun bool) types.Outcome[Artifact, Error] {
	return p.Build(ctx, types.ModeNative, appName, dryRun)
}

// BuildWasm builds the Emscripten simulator for appName.
func (p *Pipeline) BuildWasm(ctx context.Context, appName string, dryRun bool) types.Outcome[Artifact, Error] {
	return p.Build(ctx, types.ModeWasm, appName, dryRun)
}

// Build runs the pipeline for mode. Steps run in a fixed order and the
// first failure ends the build. A dry run performs every validation and
// resolution step but executes no subprocess and writes nothing.
func (p *Pipeline) Build(ctx context.Context, mode types.Mode, appName string, dryRun bool) types.Outcome[Artifact, Error] {
	p.metrics.IncBuildStarted()
	art, err := p.build(ctx, mode, appName, dryRun)
	if err != nil {
		p.metrics.IncBuildFailed(err.Kind())
		p.logger.Error("build failed", map[string]any{
			"app":   appName,
			"mode":  string(mode),
			"kind":  err.Kind(),
			"error": err.Error(),
		})
		return types.Failure[Artifact, Error](err)
	}
	p.metrics.IncBuildSucceeded()
	p.logger.Info("build succeeded", map[string]any{
		"app":      appName,
		"mode":     string(mode),
		"artifact": art.Path,
		"dry_run":  dryRun,
	})
	return types.Success[Artifact, Error](art)
}

func (p *Pipeline) build(ctx context.Context, mode types.Mode, appName string, dryRun bool) (Artifact, Error) {
	t, err := p.prepare(appName, mode)
	if err != nil {
		return Artifact{}, err
	}
	if err := p.checkPrerequisites(ctx, t, dryRun); err != nil {
		return Artifact{}, err
	}
	tools, err := p.resolveTools(mode)
	if err != nil {
		return Artifact{}, err
	}
	if err := p.checkPlatform(mode, &tools); err != nil {
		return Artifact{}, err
	}

	env := p.buildEnv(mode)
	configure := Command{
		Name:    tools.cmake,
		Args:    p.configureArgs(t, tools),
		Dir:     p.ws.Root,
		Env:     env,
		Timeout: p.cfg.Build.ConfigureTimeout.Duration,
	}
	compile := Command{
		Name:    tools.ninja,
		Args:    []string{"-C", t.buildDir},
		Dir:     p.ws.Root,
		Env:     env,
		Timeout: p.cfg.Build.CompileTimeout.Duration,
	}

	art := Artifact{
		App:      t.app.Name,
		Mode:     mode,
		AppID:    t.appCfg.AppID,
		ExeName:  t.appCfg.ExeName,
		Path:     t.artifact,
		BuildDir: t.buildDir,
	}

	if dryRun {
		art.DryRun = true
		art.Planned = []Command{configure, compile}
		p.logger.Info("dry run", map[string]any{
			"configure": configure.String(),
			"compile":   compile.String(),
			"artifact":  t.artifact,
		})
		return art, nil
	}

	for _, dir := range []string{t.buildDir, t.outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Artifact{}, OutputMissing{Path: dir, Err: err}
		}
	}

	p.logger.Info("configure started", map[string]any{"command": configure.String()})
	res, runErr := p.run(ctx, configure)
	if runErr != nil || res.ExitCode != 0 || res.TimedOut {
		return Artifact{}, ConfigureFailed{ExitCode: res.ExitCode, TimedOut: res.TimedOut, Err: runErr}
	}

	p.logger.Info("compile started", map[string]any{"command": compile.String()})
	res, runErr = p.run(ctx, compile)
	if runErr != nil || res.ExitCode != 0 || res.TimedOut {
		return Artifact{}, CompileFailed{ExitCode: res.ExitCode, TimedOut: res.TimedOut, Err: runErr}
	}

	if !isFile(t.artifact) {
		return Artifact{}, OutputMissing{Path: t.artifact}
	}

	if mode == types.ModeNative && p.platform.IsWindows() {
		p.copySDLRuntime(t)
	}
	p.writeRecord(art)
	return art, nil
}

// Locate resolves the artifact a previous build of appName produced,
// without building. It fails with OutputMissing when nothing was built.
func (p *Pipeline) Locate(appName string, mode types.Mode) types.Outcome[Artifact, Error] {
	if p.records != nil {
		if rec, err := p.records.Read(appName, string(mode)); err == nil && isFile(rec.Artifact) {
			return types.Success[Artifact, Error](Artifact{
				App:      rec.App,
				Mode:     mode,
				AppID:    rec.AppID,
				ExeName:  rec.ExeName,
				Path:     rec.Artifact,
				BuildDir: rec.BuildDir,
			})
		}
	}

	t, err := p.prepare(appName, mode)
	if err != nil {
		return types.Failure[Artifact, Error](err)
	}
	if !isFile(t.artifact) {
		return types.Failure[Artifact, Error](OutputMissing{Path: t.artifact})
	}
	return types.Success[Artifact, Error](Artifact{
		App:      t.app.Name,
		Mode:     mode,
		AppID:    t.appCfg.AppID,
		ExeName:  t.appCfg.ExeName,
		Path:     t.artifact,
		BuildDir: t.buildDir,
	})
}

// prepare covers app resolution, SDL source presence and app.cmake.
func (p *Pipeline) prepare(appName string, mode types.Mode) (target, Error) {
	app, err := resolveOrFail(ResolveApp(p.ws, appName))
	if err != nil {
		return target{}, err
	}
	if !app.HasSdlSources {
		return target{}, SdlSourceNotFound{AppName: app.Name}
	}
	appCfg, err := ReadAppConfig(app.SdlSource)
	if err != nil {
		return target{}, err
	}

	outputDir := p.ws.Path(p.cfg.Paths.Bin, app.Name, string(mode))
	artifact := filepath.Join(outputDir, p.platform.ExeName(appCfg.ExeName))
	if mode == types.ModeWasm {
		artifact = filepath.Join(outputDir, appCfg.ExeName+".html")
	}
	return target{
		app:       app,
		appCfg:    appCfg,
		mode:      mode,
		buildDir:  p.ws.Path(p.cfg.Paths.Build, app.Name, string(mode)),
		outputDir: outputDir,
		depsDir:   p.ws.Path(p.cfg.Paths.Cache, "deps", p.platform.OS+"-"+string(mode)),
		artifact:  artifact,
	}, nil
}

func resolveOrFail(o types.Outcome[App, Error]) (App, Error) {
	if e, failed := o.Err(); failed {
		return App{}, e
	}
	app, _ := o.Value()
	return app, nil
}

// checkPrerequisites verifies sibling sources and the dependency cache,
// populating the cache once when absent.
func (p *Pipeline) checkPrerequisites(ctx context.Context, t target, dryRun bool) Error {
	for _, rel := range p.cfg.Build.Prerequisites {
		if !isDir(p.ws.Path(rel)) {
			return PrereqMissing{
				Name:   rel,
				Reason: "directory not found",
				Remedy: fmt.Sprintf("clone %s into the workspace (or run your workspace sync)", rel),
			}
		}
	}

	if isDir(t.depsDir) {
		return nil
	}
	if dryRun {
		p.logger.Info("dependency cache absent, would populate", map[string]any{"dir": t.depsDir})
		return nil
	}
	return p.populateDeps(ctx, t)
}

func (p *Pipeline) populateDeps(ctx context.Context, t target) Error {
	cmake, err := p.resolveTool(toolchain.CMake)
	if err != nil {
		return err
	}
	script := p.ws.Path(p.cfg.Build.DepsScript)
	remedy := fmt.Sprintf("check network access, delete %s and retry", t.depsDir)
	if !isFile(script) {
		return PrereqMissing{Name: "dependency cache", Reason: "fetch script not found: " + script, Remedy: remedy}
	}

	cmd := Command{
		Name: cmake,
		Args: []string{
			"-DOC_DEPS_DIR=" + t.depsDir,
			"-DOC_PLATFORM=" + p.platform.OS,
			"-DOC_MODE=" + string(t.mode),
			"-P", script,
		},
		Dir:     p.ws.Root,
		Env:     p.buildEnv(t.mode),
		Timeout: p.cfg.Build.DepsTimeout.Duration,
	}
	p.logger.Info("populating dependency cache", map[string]any{"dir": t.depsDir, "command": cmd.String()})

	res, runErr := p.run(ctx, cmd)
	switch {
	case runErr != nil:
		return PrereqMissing{Name: "dependency cache", Reason: runErr.Error(), Remedy: remedy}
	case res.TimedOut:
		return PrereqMissing{Name: "dependency cache", Reason: "fetch timed out", Remedy: remedy}
	case res.ExitCode != 0:
		return PrereqMissing{Name: "dependency cache", Reason: fmt.Sprintf("fetch exited with code %d", res.ExitCode), Remedy: remedy}
	case !isDir(t.depsDir):
		return PrereqMissing{Name: "dependency cache", Reason: "fetch script did not create " + t.depsDir, Remedy: remedy}
	}
	p.metrics.IncDepsCachePopulated()
	return nil
}

func (p *Pipeline) resolveTools(mode types.Mode) (resolvedTools, Error) {
	var rt resolvedTools
	var err Error
	if rt.cmake, err = p.resolveTool(toolchain.CMake); err != nil {
		return rt, err
	}
	if rt.ninja, err = p.resolveTool(toolchain.Ninja); err != nil {
		return rt, err
	}
	if mode == types.ModeWasm {
		if rt.emcc, err = p.resolveTool(toolchain.Emcc); err != nil {
			return rt, err
		}
	}
	return rt, nil
}

func (p *Pipeline) resolveTool(id string) (string, Error) {
	path, err := p.tools.Resolve(id)
	if err != nil {
		remedy := toolchain.Hint(id)
		var nf *toolchain.NotFoundError
		if errors.As(err, &nf) && nf.Hint != "" {
			remedy = nf.Hint
		}
		return "", ToolMissing{ToolID: id, Remedy: remedy}
	}
	return path, nil
}

// checkPlatform runs the platform-conditional prerequisite checks and
// records the extra files configure needs.
func (p *Pipeline) checkPlatform(mode types.Mode, rt *resolvedTools) Error {
	if mode == types.ModeWasm {
		emcc := rt.emcc
		if real, err := filepath.EvalSymlinks(emcc); err == nil {
			emcc = real
		}
		file := filepath.Join(filepath.Dir(emcc), "cmake", "Modules", "Platform", "Emscripten.cmake")
		if !isFile(file) {
			return PrereqMissing{
				Name:   "Emscripten toolchain file",
				Reason: file + " not found",
				Remedy: "reinstall emsdk; emcc must sit next to cmake/Modules/Platform/Emscripten.cmake",
			}
		}
		rt.toolchainFile = file
		return nil
	}

	if p.platform.IsWindows() {
		zigDir := p.ws.Path(p.cfg.Paths.Tools, "zig")
		rt.zigCC = filepath.Join(zigDir, p.platform.ScriptName("zig-cc"))
		rt.zigCXX = filepath.Join(zigDir, p.platform.ScriptName("zig-cxx"))
		for _, w := range []string{rt.zigCC, rt.zigCXX} {
			if !isFile(w) {
				return PrereqMissing{
					Name:   "zig compiler wrappers",
					Reason: w + " not found",
					Remedy: "unpack zig into tools/zig and create the zig-cc.cmd and zig-cxx.cmd wrappers",
				}
			}
		}
		return nil
	}

	if _, err := p.tools.Resolve(toolchain.CXX); err != nil {
		return PrereqMissing{Name: "C++ compiler", Reason: "no c++, clang++ or g++ on PATH", Remedy: cxxHint(p.platform)}
	}
	return nil
}

func cxxHint(platform types.Platform) string {
	if platform.IsDarwin() {
		return "xcode-select --install"
	}
	return "install a C++ toolchain, e.g. `sudo apt install build-essential` or `sudo dnf install gcc-c++`"
}

func (p *Pipeline) configureArgs(t target, rt resolvedTools) []string {
	args := []string{
		"-G", "Ninja",
		"-S", t.app.SdlSource,
		"-B", t.buildDir,
		"-DCMAKE_BUILD_TYPE=" + p.cfg.Build.BuildType,
		"-DCMAKE_MAKE_PROGRAM=" + rt.ninja,
		"-DOC_DEPS_DIR=" + t.depsDir,
		"-DOC_OUTPUT_DIR=" + t.outputDir,
		"-DAPP_ID=" + t.appCfg.AppID,
		"-DAPP_EXE_NAME=" + t.appCfg.ExeName,
	}
	switch {
	case t.mode == types.ModeWasm:
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE="+rt.toolchainFile)
	case p.platform.IsWindows():
		args = append(args, "-DCMAKE_C_COMPILER="+rt.zigCC, "-DCMAKE_CXX_COMPILER="+rt.zigCXX)
	}
	return args
}

func (p *Pipeline) buildEnv(mode types.Mode) []string {
	defaults := map[string]string{"OC_WORKSPACE": p.ws.Root}
	if mode == types.ModeWasm {
		defaults["EM_CACHE"] = p.ws.Path(p.cfg.Paths.Cache, "emscripten")
	}
	return toolchain.AugmentEnv(p.environ(), toolchain.EnvSpec{
		PathDirs: p.tools.BinDirs(),
		Defaults: defaults,
	})
}

func (p *Pipeline) run(ctx context.Context, cmd Command) (Result, error) {
	p.metrics.IncSubprocessRun()
	res, err := p.runner.Run(ctx, cmd)
	switch {
	case res.TimedOut:
		p.metrics.IncSubprocessTimeout()
		p.logger.Warn("subprocess timed out", map[string]any{"command": cmd.Name, "timeout": cmd.Timeout.String()})
	case err != nil || res.ExitCode != 0:
		p.metrics.IncSubprocessFailure()
	}
	return res, err
}

// copySDLRuntime places SDL2.dll next to the executable. Best effort.
func (p *Pipeline) copySDLRuntime(t target) {
	const dll = "SDL2.dll"
	dst := filepath.Join(t.outputDir, dll)
	if isFile(dst) {
		return
	}
	for _, src := range []string{
		filepath.Join(t.buildDir, dll),
		filepath.Join(t.depsDir, "bin", dll),
		filepath.Join(t.depsDir, "SDL2", "bin", dll),
	} {
		if !isFile(src) {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			p.logger.Warn("failed to copy SDL runtime", map[string]any{"src": src, "error": err.Error()})
		}
		return
	}
	p.logger.Warn("SDL runtime not found; the simulator may fail to start", map[string]any{"dll": dll})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(in)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (p *Pipeline) writeRecord(art Artifact) {
	if p.records == nil {
		return
	}
	rec := buildcache.Record{
		App:      art.App,
		Mode:     string(art.Mode),
		AppID:    art.AppID,
		ExeName:  art.ExeName,
		Artifact: art.Path,
		BuildDir: art.BuildDir,
		Platform: p.platform.String(),
		Version:  types.Version,
		BuiltAt:  p.now().UTC(),
	}
	if err := p.records.Write(rec); err != nil {
		p.logger.Warn("failed to write build record", map[string]any{"error": err.Error()})
	}
}
