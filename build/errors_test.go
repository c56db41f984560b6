package build

import (
	"errors"
	"strings"
	"testing"
)

func allVariants() []Error {
	cause := errors.New("boom")
	return []Error{
		AppNotFound{Name: "x", Available: []string{"core"}},
		SdlSourceNotFound{AppName: "x"},
		AppConfigInvalid{Path: "/a/app.cmake", Reason: "missing APP_ID"},
		ToolMissing{ToolID: "ninja", Remedy: "install ninja"},
		PrereqMissing{Name: "C++ compiler", Remedy: "xcode-select --install"},
		ConfigureFailed{ExitCode: 1},
		CompileFailed{ExitCode: -1, Err: cause},
		OutputMissing{Path: "/bin/core_sim"},
	}
}

func TestError_MessagesAreOneLine(t *testing.T) {
	kinds := map[string]bool{}
	for _, e := range allVariants() {
		msg := e.Error()
		if msg == "" || strings.Contains(msg, "\n") {
			t.Errorf("%T message %q is not a single line", e, msg)
		}
		if kinds[e.Kind()] {
			t.Errorf("duplicate kind %q", e.Kind())
		}
		kinds[e.Kind()] = true
	}
}

func TestAppNotFound_Message(t *testing.T) {
	got := AppNotFound{Name: "nope", Available: []string{"bitwig", "core"}}.Error()
	if got != `app "nope" not found (available: bitwig, core)` {
		t.Errorf("message = %q", got)
	}
	if got := (AppNotFound{Name: "nope"}).Error(); !strings.Contains(got, "no apps") {
		t.Errorf("empty message = %q", got)
	}
}

func TestStepFailure_Messages(t *testing.T) {
	tests := []struct {
		err  Error
		want string
	}{
		{ConfigureFailed{ExitCode: 1}, "configure failed (exit code 1)"},
		{ConfigureFailed{ExitCode: -1, TimedOut: true}, "configure timed out"},
		{CompileFailed{ExitCode: -1, Err: errors.New("no such file")}, "compile failed: no such file"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%T.Error() = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	if !errors.Is(OutputMissing{Path: "/x", Err: cause}, cause) {
		t.Error("OutputMissing does not unwrap its cause")
	}
	if !errors.Is(CompileFailed{Err: cause}, cause) {
		t.Error("CompileFailed does not unwrap its cause")
	}
}

func TestError_Hints(t *testing.T) {
	if h := (ToolMissing{ToolID: "cmake", Remedy: "brew install cmake"}).Hint(); h != "brew install cmake" {
		t.Errorf("ToolMissing hint = %q", h)
	}
	if h := (AppNotFound{}).Hint(); !strings.Contains(h, "msdev apps") {
		t.Errorf("AppNotFound hint = %q", h)
	}
}
