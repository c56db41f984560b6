// Package main provides the msdev CLI entrypoint.
//
// Usage:
//
//	msdev [global options] <command> [options] [args]
//
// Exit codes:
//   - 0: success
//   - 1: user error (unknown app, bad app.cmake, bad invocation)
//   - 2: environment error (missing tool or prerequisite, bridge failure)
//   - 3: build error (configure or compile failed, simulator failed)
//   - 4: I/O error (expected output missing)
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/msdev/cli/cmd"
	"github.com/pithecene-io/msdev/exitcode"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := cmd.NewApp(commit, exitErrHandler)
	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already exited for action errors; this covers
		// flag parsing and other errors raised before an action runs.
		os.Exit(exitcode.UserError)
	}
}

// exitErrHandler terminates the process with the code err carries.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	os.Exit(resolveExit(err, os.Stderr))
}

// resolveExit prints what err has to say and returns its exit code. Codes
// from cli.Exit pass through; anything else is unexpected and exits 1.
func resolveExit(err error, stderr io.Writer) int {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N).Error() returns "" or "exit status N".
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(stderr, msg)
		}
		return code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitcode.UserError
}
