package runtime

import (
	"fmt"

	"github.com/pithecene-io/msdev/exitcode"
	"github.com/pithecene-io/msdev/types"
)

// SimulatorFailed reports that the simulator itself failed after a
// successful build and bridge start: a nonzero native exit, a native
// binary that could not be started, or a dev server that could not serve.
type SimulatorFailed struct {
	Mode types.Mode
	// Status is the native exit status. Zero when Err is set.
	Status int
	Err    error
}

func (e SimulatorFailed) Error() string {
	what := "native simulator"
	if e.Mode == types.ModeWasm {
		what = "wasm dev server"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", what, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", what, e.Status)
}

func (e SimulatorFailed) Unwrap() error { return e.Err }

// Hint suggests a next step for the failure.
func (e SimulatorFailed) Hint() string {
	if e.Mode == types.ModeWasm {
		return "pick a free port with --port or serve.port in msdev.yaml"
	}
	return "rebuild with msdev build native <app> and check the simulator output above"
}

// Kind returns the stable failure name used in logs and metrics.
func (SimulatorFailed) Kind() string { return "simulator_failed" }

// ExitCode implements exitcode.Coded. Simulator failures count as build
// failures.
func (SimulatorFailed) ExitCode() int { return exitcode.BuildError }

// simulatorOutcome classifies a finished native simulator run. An
// interrupted run is a clean stop, whatever status the kill produced.
func simulatorOutcome(status int, interrupted bool) error {
	if interrupted || status == 0 {
		return nil
	}
	return SimulatorFailed{Mode: types.ModeNative, Status: status}
}
