package build

import (
	"fmt"
	"strings"
)

// Error is the closed set of build pipeline failures. Every variant renders
// a one-line message and an optional remediation hint. The unexported
// marker keeps the set sealed to this package.
type Error interface {
	error
	// Hint returns a suggested next step, or "".
	Hint() string
	// Kind returns a stable snake_case variant name for logs and metrics.
	Kind() string
	buildError()
}

// AppNotFound reports an application name that resolves to nothing.
type AppNotFound struct {
	Name string
	// Available is the full list of resolvable application names.
	Available []string
}

// SdlSourceNotFound reports an application without SDL simulator sources.
type SdlSourceNotFound struct {
	AppName string
}

// AppConfigInvalid reports a missing or malformed app.cmake.
type AppConfigInvalid struct {
	Path   string
	Reason string
}

// ToolMissing reports a required executable that could not be resolved.
type ToolMissing struct {
	ToolID string
	Remedy string
}

// PrereqMissing reports missing setup: sibling sources, dependency cache,
// compiler or toolchain files.
type PrereqMissing struct {
	Name   string
	Remedy string
	Reason string
}

// ConfigureFailed reports a failed or timed out configure step.
type ConfigureFailed struct {
	// ExitCode is the process exit status, -1 when it never ran to completion.
	ExitCode int
	TimedOut bool
	// Err is the start or wait failure, if any.
	Err error
}

// CompileFailed reports a failed or timed out compile step.
type CompileFailed struct {
	ExitCode int
	TimedOut bool
	Err      error
}

// OutputMissing reports an artifact that is absent after a successful
// compile, or an output location that could not be prepared.
type OutputMissing struct {
	Path string
	Err  error
}

func (AppNotFound) buildError()       {}
func (SdlSourceNotFound) buildError() {}
func (AppConfigInvalid) buildError()  {}
func (ToolMissing) buildError()       {}
func (PrereqMissing) buildError()     {}
func (ConfigureFailed) buildError()   {}
func (CompileFailed) buildError()     {}
func (OutputMissing) buildError()     {}

func (e AppNotFound) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("app %q not found (no apps in workspace)", e.Name)
	}
	return fmt.Sprintf("app %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e SdlSourceNotFound) Error() string {
	return fmt.Sprintf("app %q has no SDL sources", e.AppName)
}

func (e AppConfigInvalid) Error() string {
	return fmt.Sprintf("invalid app config %s: %s", e.Path, e.Reason)
}

func (e ToolMissing) Error() string {
	return fmt.Sprintf("required tool not found: %s", e.ToolID)
}

func (e PrereqMissing) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing prerequisite %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("missing prerequisite: %s", e.Name)
}

func (e ConfigureFailed) Error() string {
	return stepFailure("configure", e.ExitCode, e.TimedOut, e.Err)
}

func (e CompileFailed) Error() string {
	return stepFailure("compile", e.ExitCode, e.TimedOut, e.Err)
}

func (e OutputMissing) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("output %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("expected output missing: %s", e.Path)
}

func stepFailure(step string, code int, timedOut bool, err error) string {
	switch {
	case timedOut:
		return step + " timed out"
	case err != nil:
		return fmt.Sprintf("%s failed: %v", step, err)
	default:
		return fmt.Sprintf("%s failed (exit code %d)", step, code)
	}
}

func (e ConfigureFailed) Unwrap() error { return e.Err }
func (e CompileFailed) Unwrap() error   { return e.Err }
func (e OutputMissing) Unwrap() error   { return e.Err }

func (e AppNotFound) Hint() string { return "run `msdev apps` to list available apps" }

func (e SdlSourceNotFound) Hint() string {
	return "add an sdl/ directory with an app.cmake to the app"
}

func (e AppConfigInvalid) Hint() string {
	return `declare APP_ID="..." and APP_EXE_NAME="..." in app.cmake`
}

func (e ToolMissing) Hint() string   { return e.Remedy }
func (e PrereqMissing) Hint() string { return e.Remedy }

func (e ConfigureFailed) Hint() string {
	if e.TimedOut {
		return "raise build.configure_timeout in msdev.yaml"
	}
	return "inspect the CMake output above; delete the build directory to reconfigure from scratch"
}

func (e CompileFailed) Hint() string {
	if e.TimedOut {
		return "raise build.compile_timeout in msdev.yaml"
	}
	return ""
}

func (e OutputMissing) Hint() string {
	return "check that the CMake project writes its executable to OC_OUTPUT_DIR"
}

func (AppNotFound) Kind() string       { return "app_not_found" }
func (SdlSourceNotFound) Kind() string { return "sdl_source_not_found" }
func (AppConfigInvalid) Kind() string  { return "app_config_invalid" }
func (ToolMissing) Kind() string       { return "tool_missing" }
func (PrereqMissing) Kind() string     { return "prereq_missing" }
func (ConfigureFailed) Kind() string   { return "configure_failed" }
func (CompileFailed) Kind() string     { return "compile_failed" }
func (OutputMissing) Kind() string     { return "output_missing" }
