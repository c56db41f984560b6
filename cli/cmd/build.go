package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/build"
	"github.com/pithecene-io/msdev/exitcode"
	"github.com/pithecene-io/msdev/types"
)

// BuildResponse is the rendered result of a build.
type BuildResponse struct {
	App      string   `json:"app" yaml:"app"`
	Mode     string   `json:"mode" yaml:"mode"`
	AppID    string   `json:"app_id" yaml:"app_id"`
	ExeName  string   `json:"exe_name" yaml:"exe_name"`
	Artifact string   `json:"artifact" yaml:"artifact"`
	BuildDir string   `json:"build_dir" yaml:"build_dir"`
	DryRun   bool     `json:"dry_run" yaml:"dry_run"`
	Planned  []string `json:"planned,omitempty" yaml:"planned,omitempty"`
}

func newBuildResponse(art build.Artifact) BuildResponse {
	resp := BuildResponse{
		App:      art.App,
		Mode:     string(art.Mode),
		AppID:    art.AppID,
		ExeName:  art.ExeName,
		Artifact: art.Path,
		BuildDir: art.BuildDir,
		DryRun:   art.DryRun,
	}
	for _, cmd := range art.Planned {
		resp.Planned = append(resp.Planned, cmd.String())
	}
	return resp
}

// BuildCommand returns the build command.
func BuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build a simulator for an app",
		ArgsUsage: "<native|wasm> <app>",
		Flags:     []cli.Flag{dryRunFlag},
		Action:    buildAction,
	}
}

func buildAction(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	mode, err := types.ParseMode(c.Args().Get(0))
	if err != nil {
		return usageError(err.Error())
	}
	app := c.Args().Get(1)
	dryRun := c.Bool("dry-run")

	s, err := newSession(c, "build", app, string(mode))
	if err != nil {
		return err
	}
	defer s.close(c)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	out := s.pipeline().Build(ctx, mode, app, dryRun)
	finished := time.Now()

	art, _ := out.Value()
	buildErr, failed := out.Err()
	code := exitcode.Success
	if failed {
		code = exitcode.ForBuild(buildErr)
	}
	s.publish(buildEvent(s, mode, app, dryRun, art, buildErr, code, started, finished))

	if failed {
		return s.fail(buildErr)
	}
	if err := s.renderer.Render(newBuildResponse(art)); err != nil {
		return err
	}
	if !dryRun {
		s.renderer.Success("built %s (%s) in %s", app, mode, finished.Sub(started).Round(time.Millisecond))
	}
	return nil
}
