package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/exitcode"
	"github.com/pithecene-io/msdev/runtime"
	"github.com/pithecene-io/msdev/types"
)

// RunCommand returns the run command: build and run the native simulator
// with a bridge attached.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Build and run the native simulator for an app",
		ArgsUsage: "<app>",
		Flags:     []cli.Flag{noBuildFlag, noBridgeFlag, reportFlag},
		Action: func(c *cli.Context) error {
			return simulate(c, types.ModeNative)
		},
	}
}

// ServeCommand returns the serve command: build the wasm simulator and
// serve it over HTTP with a bridge attached.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Build the wasm simulator for an app and serve it",
		ArgsUsage: "<app>",
		Flags: []cli.Flag{
			noBuildFlag,
			noBridgeFlag,
			reportFlag,
			&cli.IntFlag{
				Name:  "port",
				Usage: "Dev server port (default: serve.port from config)",
			},
		},
		Action: func(c *cli.Context) error {
			return simulate(c, types.ModeWasm)
		},
	}
}

func simulate(c *cli.Context, mode types.Mode) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	app := c.Args().First()

	s, err := newSession(c, c.Command.Name, app, string(mode))
	if err != nil {
		return err
	}
	defer s.close(c)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := runtime.NewOrchestrator(runtime.OrchestratorConfig{
		Builder:   s.pipeline(),
		Bridges:   s.supervisor(),
		ServePort: s.cfg.Serve.Port,
		Logger:    s.logger,
		Metrics:   s.metrics,
	})
	opts := runtime.Options{
		NoBuild:  c.Bool("no-build"),
		NoBridge: c.Bool("no-bridge"),
		Port:     c.Int("port"),
		OnServing: func(url string) {
			s.renderer.Success("serving %s at %s (Ctrl-C to stop)", app, url)
		},
	}

	var out types.Outcome[runtime.RunResult, error]
	if mode == types.ModeWasm {
		out = orch.ServeWasm(ctx, app, opts)
	} else {
		out = orch.RunNative(ctx, app, opts)
	}

	res, _ := out.Value()
	runErr, failed := out.Err()
	if path := c.String("report"); path != "" {
		if res.App == "" {
			res.App, res.Mode = app, mode
		}
		report := runtime.BuildRunReport(s.meta.InvocationID, res, runErr, s.metrics.Snapshot(), exitcode.For(runErr))
		if err := runtime.WriteRunReport(report, path); err != nil {
			s.logger.Warn("run report not written", map[string]any{"path": path, "error": err.Error()})
		}
	}

	if failed {
		return s.fail(runErr)
	}
	if res.Interrupted {
		s.renderer.Warn("interrupted, %s stopped", app)
	}
	return nil
}
