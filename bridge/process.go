package bridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Process is a started bridge process.
type Process interface {
	Pid() int
	// Signal delivers sig. Platforms without the signal return an error.
	Signal(sig os.Signal) error
	Kill() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// ExitErr returns the wait error after Done is closed.
	ExitErr() error
}

// Launcher starts bridge processes.
type Launcher interface {
	Launch(ctx context.Context, path string, args []string) (Process, error)
}

// ExecLauncher starts the bridge as a child process. The child is not tied
// to ctx: its lifetime is owned by the Handle.
type ExecLauncher struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env is the child environment. Nil inherits the parent's.
	Env []string
}

// Launch implements Launcher.
func (l ExecLauncher) Launch(_ context.Context, path string, args []string) (Process, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.Env = l.Env
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge: %w", err)
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	mu   sync.Mutex
	err  error
}

func (p *execProcess) Pid() int                   { return p.cmd.Process.Pid }
func (p *execProcess) Signal(sig os.Signal) error { return p.cmd.Process.Signal(sig) }
func (p *execProcess) Kill() error                { return p.cmd.Process.Kill() }
func (p *execProcess) Done() <-chan struct{}      { return p.done }

func (p *execProcess) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// exited reports whether proc has already exited.
func exited(proc Process) bool {
	select {
	case <-proc.Done():
		return true
	default:
		return false
	}
}
