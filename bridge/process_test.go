package bridge

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/pithecene-io/msdev/log"
)

func requireUnixShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX signals")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecLauncher_StopTerminates(t *testing.T) {
	sh := requireUnixShell(t)
	proc, err := ExecLauncher{}.Launch(context.Background(), sh, []string{"-c", "exec sleep 30"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if proc.Pid() <= 0 {
		t.Errorf("Pid = %d", proc.Pid())
	}

	h := newOwnedHandle(udpSpec, proc, time.Second, log.Nop(), nil)
	h.Stop()

	select {
	case <-proc.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("process still running after Stop")
	}
}

func TestExecLauncher_ExitError(t *testing.T) {
	sh := requireUnixShell(t)
	proc, err := ExecLauncher{}.Launch(context.Background(), sh, []string{"-c", "exit 4"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	select {
	case <-proc.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("process did not exit")
	}
	var exitErr *exec.ExitError
	if !errors.As(proc.ExitErr(), &exitErr) || exitErr.ExitCode() != 4 {
		t.Errorf("ExitErr = %v, want exit code 4", proc.ExitErr())
	}
}

func TestExecLauncher_StartError(t *testing.T) {
	if _, err := (ExecLauncher{}).Launch(context.Background(), "/nonexistent/oc-bridge", nil); err == nil {
		t.Fatal("expected start error")
	}
}
