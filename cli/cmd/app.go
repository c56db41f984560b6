package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/types"
)

// NewApp assembles the msdev CLI. exitErrHandler receives every error an
// action returns.
func NewApp(commit string, exitErrHandler cli.ExitErrHandlerFunc) *cli.App {
	return &cli.App{
		Name:           "msdev",
		Usage:          "Build and run midi-studio simulators with a supervised bridge",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Flags:          GlobalFlags(),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			BuildCommand(),
			RunCommand(),
			ServeCommand(),
			AppsCommand(),
			BridgeCommand(),
			VersionCommand(commit),
		},
	}
}
