// Package exitcode maps failures to the stable process exit codes.
package exitcode

import (
	"errors"
	"fmt"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/build"
)

// Exit codes. These values are part of the CLI contract and must not change.
const (
	Success    = 0
	UserError  = 1
	EnvError   = 2
	BuildError = 3
	IOError    = 4
)

// Coded is implemented by errors that carry their own exit code, such as
// runtime failures of the simulator.
type Coded interface {
	error
	ExitCode() int
}

// ForBuild maps a build failure. An unknown variant is a programming defect.
func ForBuild(err build.Error) int {
	switch err.(type) {
	case build.AppNotFound, build.SdlSourceNotFound, build.AppConfigInvalid:
		return UserError
	case build.ToolMissing, build.PrereqMissing:
		return EnvError
	case build.ConfigureFailed, build.CompileFailed:
		return BuildError
	case build.OutputMissing:
		return IOError
	default:
		panic(fmt.Sprintf("exitcode: unmapped build error %T", err))
	}
}

// ForBridge maps a bridge failure. An unknown variant is a programming defect.
func ForBridge(err bridge.Error) int {
	switch err.(type) {
	case bridge.BridgeMissing, bridge.PortsInUse, bridge.SpawnFailed, bridge.NotReady:
		return EnvError
	default:
		panic(fmt.Sprintf("exitcode: unmapped bridge error %T", err))
	}
}

// For maps any error returned by a command. Nil is Success; errors outside
// the taxonomies are unexpected and map to UserError.
func For(err error) int {
	if err == nil {
		return Success
	}
	var be build.Error
	if errors.As(err, &be) {
		return ForBuild(be)
	}
	var bre bridge.Error
	if errors.As(err, &bre) {
		return ForBridge(bre)
	}
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return UserError
}
