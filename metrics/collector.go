// Package metrics provides per-invocation counters for builds, subprocesses,
// bridge supervision and notifications.
//
// The Collector is a leaf package with no internal dependencies. All methods
// are safe on a nil receiver so callers never need to guard optional metrics.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
type Snapshot struct {
	// Builds
	BuildsStarted   int64
	BuildsSucceeded int64
	BuildsFailed    int64
	// FailedByKind counts build and bridge failures by variant name.
	FailedByKind map[string]int64

	// Subprocesses (configure, compile, dependency fetch)
	SubprocessRuns     int64
	SubprocessFailures int64
	SubprocessTimeouts int64
	DepsCachePopulated int64

	// Bridge
	BridgeSpawned         int64
	BridgeReused          int64
	BridgeSpawnFailures   int64
	BridgeStopEscalations int64

	// Simulator
	SimulatorRuns     int64
	SimulatorFailures int64

	// Notifications
	NotifySuccess int64
	NotifyFailure int64

	// Dimensions
	Command      string
	Platform     string
	InvocationID string
}

// Collector accumulates counters during a single CLI invocation.
type Collector struct {
	mu sync.Mutex
	s  Snapshot
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(command, platform, invocationID string) *Collector {
	return &Collector{s: Snapshot{
		FailedByKind: make(map[string]int64),
		Command:      command,
		Platform:     platform,
		InvocationID: invocationID,
	}}
}

func (c *Collector) inc(field func(*Snapshot) *int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	*field(&c.s)++
	c.mu.Unlock()
}

// --- Builds ---

// IncBuildStarted records a build pipeline start.
func (c *Collector) IncBuildStarted() { c.inc(func(s *Snapshot) *int64 { return &s.BuildsStarted }) }

// IncBuildSucceeded records a build that produced its artifact (or a dry run).
func (c *Collector) IncBuildSucceeded() { c.inc(func(s *Snapshot) *int64 { return &s.BuildsSucceeded }) }

// IncBuildFailed records a build failure of the given variant kind.
func (c *Collector) IncBuildFailed(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.s.BuildsFailed++
	c.s.FailedByKind[kind]++
	c.mu.Unlock()
}

// --- Subprocesses ---

// IncSubprocessRun records one external tool invocation.
func (c *Collector) IncSubprocessRun() { c.inc(func(s *Snapshot) *int64 { return &s.SubprocessRuns }) }

// IncSubprocessFailure records a tool invocation that exited nonzero or
// could not be started.
func (c *Collector) IncSubprocessFailure() {
	c.inc(func(s *Snapshot) *int64 { return &s.SubprocessFailures })
}

// IncSubprocessTimeout records a tool invocation killed at its deadline.
func (c *Collector) IncSubprocessTimeout() {
	c.inc(func(s *Snapshot) *int64 { return &s.SubprocessTimeouts })
}

// IncDepsCachePopulated records a successful dependency cache fetch.
func (c *Collector) IncDepsCachePopulated() {
	c.inc(func(s *Snapshot) *int64 { return &s.DepsCachePopulated })
}

// --- Bridge ---

// IncBridgeSpawned records a freshly spawned, ready bridge.
func (c *Collector) IncBridgeSpawned() { c.inc(func(s *Snapshot) *int64 { return &s.BridgeSpawned }) }

// IncBridgeReused records a decision to reuse an already running bridge.
func (c *Collector) IncBridgeReused() { c.inc(func(s *Snapshot) *int64 { return &s.BridgeReused }) }

// IncBridgeFailed records a bridge start failure of the given variant kind.
func (c *Collector) IncBridgeFailed(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.s.BridgeSpawnFailures++
	c.s.FailedByKind[kind]++
	c.mu.Unlock()
}

// IncBridgeStopEscalation records a stop that needed a forceful kill.
func (c *Collector) IncBridgeStopEscalation() {
	c.inc(func(s *Snapshot) *int64 { return &s.BridgeStopEscalations })
}

// --- Simulator ---

// IncSimulatorRun records a simulator launch.
func (c *Collector) IncSimulatorRun() { c.inc(func(s *Snapshot) *int64 { return &s.SimulatorRuns }) }

// IncSimulatorFailure records a simulator that exited with an error.
func (c *Collector) IncSimulatorFailure() {
	c.inc(func(s *Snapshot) *int64 { return &s.SimulatorFailures })
}

// --- Notifications ---

// IncNotifySuccess records a delivered build notification.
func (c *Collector) IncNotifySuccess() { c.inc(func(s *Snapshot) *int64 { return &s.NotifySuccess }) }

// IncNotifyFailure records a notification that could not be delivered.
func (c *Collector) IncNotifyFailure() { c.inc(func(s *Snapshot) *int64 { return &s.NotifyFailure }) }

// --- Snapshot ---

// Snapshot returns a copy of all counters. The Collector can continue to
// be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.s
	s.FailedByKind = make(map[string]int64, len(c.s.FailedByKind))
	for k, v := range c.s.FailedByKind {
		s.FailedByKind[k] = v
	}
	return s
}
