package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/build"
	"github.com/pithecene-io/msdev/buildcache"
	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/cli/render"
	"github.com/pithecene-io/msdev/exitcode"
	"github.com/pithecene-io/msdev/iox"
	"github.com/pithecene-io/msdev/log"
	"github.com/pithecene-io/msdev/metrics"
	"github.com/pithecene-io/msdev/toolchain"
	"github.com/pithecene-io/msdev/types"
)

// session holds everything a command needs for one invocation.
type session struct {
	meta       *types.InvocationMeta
	ws         types.Workspace
	platform   types.Platform
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	metrics    *metrics.Collector
	renderer   *render.Renderer
	tools      *toolchain.Resolver

	showMetrics bool
	// bridgeOut prefixes bridge output; flushed on close.
	bridgeOut *iox.PrefixWriter
}

// newSession resolves workspace, config, logger and renderer. app and mode
// may be empty for commands that do not target an app.
func newSession(c *cli.Context, command, app, mode string) (*session, error) {
	r, err := render.NewRenderer(c)
	if err != nil {
		return nil, err
	}

	meta := types.NewInvocationMeta(command).WithApp(app, mode)
	logger, err := log.NewLogger(meta, log.Options{
		Level:  c.String("log-level"),
		Format: log.Format(c.String("log-format")),
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, err
	}

	root := c.String("workspace")
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolve current directory: %w", err)
		}
	}
	ws, err := types.NewWorkspace(root)
	if err != nil {
		return nil, err
	}

	cfg, cfgPath, err := config.Resolve(ws.Root, c.String("config"), config.NewDirs())
	if err != nil {
		return nil, err
	}

	platform := types.DetectPlatform()
	logger.Debug("session ready", map[string]any{
		"workspace": ws.Root,
		"config":    cfgPath,
		"platform":  platform.String(),
	})

	return &session{
		meta:        meta,
		ws:          ws,
		platform:    platform,
		cfg:         cfg,
		configPath:  cfgPath,
		logger:      logger,
		metrics:     metrics.NewCollector(command, platform.String(), meta.InvocationID),
		renderer:    r,
		tools:       toolchain.NewResolver(ws.Path(cfg.Paths.Tools), platform),
		showMetrics: c.Bool("metrics"),
		bridgeOut:   iox.NewPrefixWriter(c.App.ErrWriter, "[bridge] "),
	}, nil
}

func (s *session) records() *buildcache.Store {
	return buildcache.NewStore(s.ws.Path(s.cfg.Paths.Cache, "records"))
}

func (s *session) pipeline() *build.Pipeline {
	return build.NewPipeline(build.PipelineConfig{
		Workspace: s.ws,
		Platform:  s.platform,
		Config:    s.cfg,
		Tools:     s.tools,
		Logger:    s.logger,
		Metrics:   s.metrics,
		Records:   s.records(),
	})
}

func (s *session) supervisor() *bridge.Supervisor {
	return bridge.NewSupervisor(bridge.SupervisorConfig{
		Config: s.cfg,
		Installer: bridge.LocalInstaller{
			Executable: s.cfg.Bridge.Executable,
			Root:       s.ws.Root,
			Tools:      s.tools,
		},
		Launcher: bridge.ExecLauncher{Stdout: s.bridgeOut, Stderr: s.bridgeOut},
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
}

// close flushes buffered output and prints metrics when asked for.
func (s *session) close(c *cli.Context) {
	iox.DiscardErr(s.bridgeOut.Flush)
	s.logger.Sync()
	if !s.showMetrics {
		return
	}
	r := render.NewRendererWithWriter(render.FormatJSON, true, c.App.ErrWriter)
	iox.DiscardErr(func() error { return r.Render(s.metrics.Snapshot()) })
}

// fail renders err and converts it to the exit code it maps to.
func (s *session) fail(err error) error {
	s.renderer.Failure(err)
	return cli.Exit("", exitcode.For(err))
}

// usageError reports a bad invocation before a session exists.
func usageError(msg string) error {
	return cli.Exit(msg, exitcode.UserError)
}

// requireArgs checks the positional argument count.
func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return usageError(fmt.Sprintf("%s: expected %d argument(s), got %d (usage: %s %s)",
			c.Command.Name, n, c.NArg(), c.Command.HelpName, c.Command.ArgsUsage))
	}
	return nil
}
