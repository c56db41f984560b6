package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/build"
)

func TestForBuild_Total(t *testing.T) {
	tests := []struct {
		err  build.Error
		want int
	}{
		{build.AppNotFound{Name: "x"}, UserError},
		{build.SdlSourceNotFound{AppName: "x"}, UserError},
		{build.AppConfigInvalid{Path: "p", Reason: "r"}, UserError},
		{build.ToolMissing{ToolID: "cmake"}, EnvError},
		{build.PrereqMissing{Name: "deps"}, EnvError},
		{build.ConfigureFailed{ExitCode: 1}, BuildError},
		{build.CompileFailed{ExitCode: 2}, BuildError},
		{build.OutputMissing{Path: "p"}, IOError},
	}
	for _, tt := range tests {
		if got := ForBuild(tt.err); got != tt.want {
			t.Errorf("ForBuild(%T) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestForBridge_Total(t *testing.T) {
	for _, err := range []bridge.Error{
		bridge.BridgeMissing{},
		bridge.PortsInUse{Message: "m"},
		bridge.SpawnFailed{Message: "m"},
		bridge.NotReady{Message: "m"},
	} {
		if got := ForBridge(err); got != EnvError {
			t.Errorf("ForBridge(%T) = %d, want %d", err, got, EnvError)
		}
	}
}

type simFailure struct{ code int }

func (e simFailure) Error() string { return "simulator failed" }
func (e simFailure) ExitCode() int { return e.code }

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"build", build.CompileFailed{ExitCode: 1}, BuildError},
		{"wrapped build", fmt.Errorf("building core: %w", build.ToolMissing{ToolID: "ninja"}), EnvError},
		{"bridge", bridge.PortsInUse{Message: "m"}, EnvError},
		{"coded", simFailure{code: BuildError}, BuildError},
		{"unexpected", errors.New("boom"), UserError},
	}
	for _, tt := range tests {
		if got := For(tt.err); got != tt.want {
			t.Errorf("%s: For = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCodesAreStable(t *testing.T) {
	if Success != 0 || UserError != 1 || EnvError != 2 || BuildError != 3 || IOError != 4 {
		t.Fatal("exit code values changed")
	}
}

// rogueBuildError satisfies build.Error by embedding without being one of
// the known variants.
// The alias gives the embedded field a name that does not collide with the
// promoted Error method.
type buildErr = build.Error

type rogueBuildError struct{ buildErr }

func TestForBuild_UnknownVariantPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unmapped variant")
		}
	}()
	ForBuild(rogueBuildError{build.AppNotFound{}})
}
