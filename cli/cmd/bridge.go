package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/types"
)

// ProbeResponse is the rendered result of bridge probe.
type ProbeResponse struct {
	Mode           string `json:"mode" yaml:"mode"`
	Controller     string `json:"controller" yaml:"controller"`
	ControllerPort int    `json:"controller_port" yaml:"controller_port"`
	HostPort       int    `json:"host_port" yaml:"host_port"`
	Decision       string `json:"decision" yaml:"decision"`
}

// BridgeCommand returns the bridge command group.
func BridgeCommand() *cli.Command {
	return &cli.Command{
		Name:  "bridge",
		Usage: "Inspect bridge settings and port state",
		Subcommands: []*cli.Command{
			{
				Name:      "spec",
				Usage:     "Print the headless bridge spec for an app",
				ArgsUsage: "<app>",
				Flags:     []cli.Flag{modeFlag},
				Action:    bridgeSpecAction,
			},
			{
				Name:      "probe",
				Usage:     "Report whether run would spawn or reuse a bridge, without starting one",
				ArgsUsage: "<app>",
				Flags:     []cli.Flag{modeFlag},
				Action:    bridgeProbeAction,
			},
		},
	}
}

func bridgeArgs(c *cli.Context) (string, types.Mode, error) {
	if err := requireArgs(c, 1); err != nil {
		return "", "", err
	}
	mode, err := types.ParseMode(c.String("mode"))
	if err != nil {
		return "", "", usageError(err.Error())
	}
	return c.Args().First(), mode, nil
}

func bridgeSpecAction(c *cli.Context) error {
	app, mode, err := bridgeArgs(c)
	if err != nil {
		return err
	}
	s, err := newSession(c, "bridge spec", app, string(mode))
	if err != nil {
		return err
	}
	defer s.close(c)

	return s.renderer.Render(bridge.SpecFor(s.cfg, app, mode))
}

func bridgeProbeAction(c *cli.Context) error {
	app, mode, err := bridgeArgs(c)
	if err != nil {
		return err
	}
	s, err := newSession(c, "bridge probe", app, string(mode))
	if err != nil {
		return err
	}
	defer s.close(c)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := s.supervisor()
	out := sup.Probe(ctx, app, mode)
	if e, failed := out.Err(); failed {
		return s.fail(e)
	}
	decision, _ := out.Value()
	spec := sup.Spec(app, mode)
	return s.renderer.Render(ProbeResponse{
		Mode:           string(spec.Mode),
		Controller:     string(spec.Controller),
		ControllerPort: spec.ControllerPort,
		HostPort:       spec.HostPort,
		Decision:       string(decision),
	})
}
