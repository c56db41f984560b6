// Package cmd provides CLI commands for the msdev binary.
package cmd

import "github.com/urfave/cli/v2"

// WorkspaceEnv names the environment variable that sets --workspace.
const WorkspaceEnv = "MSDEV_WORKSPACE"

// Global flags, shared by every command.
var (
	// WorkspaceFlag selects the workspace root.
	WorkspaceFlag = &cli.StringFlag{
		Name:    "workspace",
		Aliases: []string{"w"},
		Usage:   "Workspace root holding midi-studio and open-control (default: current directory)",
		EnvVars: []string{WorkspaceEnv},
	}

	// ConfigFlag points at an explicit config file.
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to config file (default: <workspace>/msdev.yaml, then the user config dir)",
	}

	// LogLevelFlag sets the minimum log level.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
		Value: "info",
	}

	// LogFormatFlag selects the log encoder.
	LogFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format: json, console",
		Value: "console",
	}

	// FormatFlag selects result output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// MetricsFlag prints the invocation counters to stderr on exit.
	MetricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "Print invocation metrics to stderr on exit",
	}
)

// GlobalFlags returns the flags registered on the app.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		WorkspaceFlag,
		ConfigFlag,
		LogLevelFlag,
		LogFormatFlag,
		FormatFlag,
		NoColorFlag,
		MetricsFlag,
	}
}

// Per-command flags.
var (
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Validate and print the planned commands without running them",
	}
	noBuildFlag = &cli.BoolFlag{
		Name:  "no-build",
		Usage: "Use the last built artifact instead of building",
	}
	noBridgeFlag = &cli.BoolFlag{
		Name:  "no-bridge",
		Usage: "Do not start or reuse a bridge",
	}
	reportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "Write a JSON run report to this path (- for stderr)",
	}
	modeFlag = &cli.StringFlag{
		Name:  "mode",
		Usage: "Build mode: native, wasm",
		Value: "native",
	}
)
