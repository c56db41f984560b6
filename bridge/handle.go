package bridge

import (
	"sync"
	"syscall"
	"time"

	"github.com/pithecene-io/msdev/log"
	"github.com/pithecene-io/msdev/metrics"
)

// DefaultStopTimeout bounds each teardown phase (terminate, then kill).
const DefaultStopTimeout = 2 * time.Second

// Handle is a started or reused bridge. Only handles that spawned a
// process own one; Stop on any other handle does nothing.
type Handle struct {
	spec        HeadlessSpec
	proc        Process
	stopTimeout time.Duration
	logger      *log.Logger
	metrics     *metrics.Collector

	once sync.Once
}

// ReusedHandle returns a handle for a bridge this invocation does not own.
func ReusedHandle(spec HeadlessSpec) *Handle {
	return &Handle{spec: spec, logger: log.Nop()}
}

func newOwnedHandle(spec HeadlessSpec, proc Process, stopTimeout time.Duration, logger *log.Logger, m *metrics.Collector) *Handle {
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Handle{spec: spec, proc: proc, stopTimeout: stopTimeout, logger: logger, metrics: m}
}

// Spec returns the spec the bridge runs with.
func (h *Handle) Spec() HeadlessSpec { return h.spec }

// Owned reports whether this handle spawned the bridge.
func (h *Handle) Owned() bool { return h.proc != nil }

// Pid returns the owned process id, or 0.
func (h *Handle) Pid() int {
	if h.proc == nil {
		return 0
	}
	return h.proc.Pid()
}

// Stop terminates an owned bridge. It sends a graceful terminate, waits up
// to the stop timeout, kills, waits once more, then gives up and abandons
// the process. Only the first call does anything.
func (h *Handle) Stop() {
	h.once.Do(h.stop)
}

// Close implements io.Closer. It always returns nil.
func (h *Handle) Close() error {
	h.Stop()
	return nil
}

func (h *Handle) stop() {
	if h.proc == nil || exited(h.proc) {
		return
	}
	pid := h.proc.Pid()

	if err := h.proc.Signal(syscall.SIGTERM); err == nil {
		if h.wait() {
			h.logger.Debug("bridge stopped", map[string]any{"pid": pid})
			return
		}
	}

	h.metrics.IncBridgeStopEscalation()
	h.logger.Warn("bridge did not exit after terminate, killing", map[string]any{"pid": pid})
	if err := h.proc.Kill(); err == nil && h.wait() {
		return
	}
	if exited(h.proc) {
		return
	}
	h.logger.Warn("bridge did not exit after kill, abandoning", map[string]any{"pid": pid})
}

func (h *Handle) wait() bool {
	t := time.NewTimer(h.stopTimeout)
	defer t.Stop()
	select {
	case <-h.proc.Done():
		return true
	case <-t.C:
		return false
	}
}
