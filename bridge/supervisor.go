package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/log"
	"github.com/pithecene-io/msdev/metrics"
	"github.com/pithecene-io/msdev/types"
)

// Readiness defaults.
const (
	DefaultReadyTimeout = 2 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultUDPSettle    = 300 * time.Millisecond
)

// SupervisorConfig configures a Supervisor.
type SupervisorConfig struct {
	Config *config.Config
	// Installer nil means a LocalInstaller with no executable or resolver.
	Installer Installer
	// Launcher nil means ExecLauncher on the process stdio.
	Launcher Launcher
	// Prober nil means NetProber.
	Prober  PortProber
	Logger  *log.Logger
	Metrics *metrics.Collector

	// Zero values fall back to config, then the package defaults.
	ReadyTimeout time.Duration
	PollInterval time.Duration
	UDPSettle    time.Duration
	StopTimeout  time.Duration
}

// Supervisor starts or reuses bridges.
type Supervisor struct {
	cfg          *config.Config
	installer    Installer
	launcher     Launcher
	prober       PortProber
	logger       *log.Logger
	metrics      *metrics.Collector
	readyTimeout time.Duration
	pollInterval time.Duration
	udpSettle    time.Duration
	stopTimeout  time.Duration
}

// NewSupervisor creates a supervisor from c.
func NewSupervisor(c SupervisorConfig) *Supervisor {
	s := &Supervisor{
		cfg:          c.Config,
		installer:    c.Installer,
		launcher:     c.Launcher,
		prober:       c.Prober,
		logger:       c.Logger,
		metrics:      c.Metrics,
		readyTimeout: c.ReadyTimeout,
		pollInterval: c.PollInterval,
		udpSettle:    c.UDPSettle,
		stopTimeout:  c.StopTimeout,
	}
	if s.cfg == nil {
		s.cfg = config.Defaults()
	}
	if s.installer == nil {
		s.installer = LocalInstaller{}
	}
	if s.launcher == nil {
		s.launcher = ExecLauncher{}
	}
	if s.prober == nil {
		s.prober = NetProber{}
	}
	if s.logger == nil {
		s.logger = log.Nop()
	}
	if s.readyTimeout == 0 {
		s.readyTimeout = firstPositive(s.cfg.Bridge.ReadyTimeout.Duration, DefaultReadyTimeout)
	}
	if s.stopTimeout == 0 {
		s.stopTimeout = firstPositive(s.cfg.Bridge.StopTimeout.Duration, DefaultStopTimeout)
	}
	if s.pollInterval == 0 {
		s.pollInterval = DefaultPollInterval
	}
	if s.udpSettle == 0 {
		s.udpSettle = DefaultUDPSettle
	}
	return s
}

func firstPositive(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// Spec returns the headless spec for appName in mode.
func (s *Supervisor) Spec(appName string, mode types.Mode) HeadlessSpec {
	return SpecFor(s.cfg, appName, mode)
}

// Probe runs the port coordinator without starting anything.
func (s *Supervisor) Probe(ctx context.Context, appName string, mode types.Mode) types.Outcome[Decision, Error] {
	return Coordinate(ctx, s.Spec(appName, mode), s.prober)
}

// Start returns a handle to a ready bridge for appName in mode: reused when
// the coordinator finds one running, spawned otherwise. The caller must
// release the handle on every exit path.
func (s *Supervisor) Start(ctx context.Context, appName string, mode types.Mode) types.Outcome[*Handle, Error] {
	spec := s.Spec(appName, mode)
	h, err := s.start(ctx, spec)
	if err != nil {
		s.metrics.IncBridgeFailed(err.Kind())
		s.logger.Error("bridge start failed", map[string]any{"kind": err.Kind(), "error": err.Error()})
		return types.Failure[*Handle, Error](err)
	}
	return types.Success[*Handle, Error](h)
}

func (s *Supervisor) start(ctx context.Context, spec HeadlessSpec) (*Handle, Error) {
	decided := Coordinate(ctx, spec, s.prober)
	if err, failed := decided.Err(); failed {
		return nil, err
	}
	if d, _ := decided.Value(); d == DecisionReuse {
		s.metrics.IncBridgeReused()
		s.logger.Warn("bridge already running, reusing it", map[string]any{
			"controller":      string(spec.Controller),
			"controller_port": spec.ControllerPort,
			"host_port":       spec.HostPort,
		})
		return ReusedHandle(spec), nil
	}

	path, installErr := s.installer.EnsureBinary(ctx)
	if installErr != nil {
		return nil, BridgeMissing{
			Reason: installErr.Error(),
			Remedy: "install oc-bridge into tools/bridge or set bridge.executable in msdev.yaml",
		}
	}

	args := spec.Args()
	s.logger.Info("starting bridge", map[string]any{"path": path, "args": args})
	proc, launchErr := s.launcher.Launch(ctx, path, args)
	if launchErr != nil {
		return nil, SpawnFailed{Message: "could not launch bridge", Err: launchErr}
	}
	h := newOwnedHandle(spec, proc, s.stopTimeout, s.logger, s.metrics)

	if err := s.awaitReady(ctx, spec, proc); err != nil {
		h.Stop()
		return nil, err
	}
	s.metrics.IncBridgeSpawned()
	s.logger.Info("bridge ready", map[string]any{"pid": proc.Pid()})
	return h, nil
}

// awaitReady waits until proc serves spec. WebSocket bridges are polled
// until the controller port accepts connections; UDP bridges offer no
// readiness signal, so they only need to survive a short settle period.
func (s *Supervisor) awaitReady(ctx context.Context, spec HeadlessSpec, proc Process) Error {
	if spec.Controller == ControllerUDP {
		select {
		case <-proc.Done():
			return earlyExit(proc)
		case <-ctx.Done():
			return NotReady{Message: "interrupted while waiting for bridge"}
		case <-time.After(s.udpSettle):
		}
		if exited(proc) {
			return earlyExit(proc)
		}
		return nil
	}

	deadline := time.NewTimer(s.readyTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		if exited(proc) {
			return earlyExit(proc)
		}
		if s.prober.TCPConnectable(ctx, spec.ControllerPort) {
			return nil
		}
		select {
		case <-proc.Done():
			return earlyExit(proc)
		case <-ctx.Done():
			return NotReady{Message: "interrupted while waiting for bridge"}
		case <-deadline.C:
			return NotReady{Message: fmt.Sprintf("bridge not accepting connections on port %d after %s", spec.ControllerPort, s.readyTimeout)}
		case <-ticker.C:
		}
	}
}

func earlyExit(proc Process) Error {
	return SpawnFailed{Message: "bridge exited during startup", Err: proc.ExitErr()}
}
