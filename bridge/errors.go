package bridge

import "fmt"

// Error is the closed set of bridge start failures.
type Error interface {
	error
	// Hint returns a suggested next step, or "".
	Hint() string
	// Kind returns a stable snake_case variant name.
	Kind() string
	bridgeError()
}

// BridgeMissing reports that no bridge executable could be provided.
type BridgeMissing struct {
	Reason string
	Remedy string
}

// PortsInUse reports a port conflict that reuse cannot resolve.
type PortsInUse struct {
	Message string
	Remedy  string
}

// SpawnFailed reports a bridge that could not start or exited during startup.
type SpawnFailed struct {
	Message string
	Err     error
}

// NotReady reports a bridge that did not accept connections before the deadline.
type NotReady struct {
	Message string
}

func (BridgeMissing) bridgeError() {}
func (PortsInUse) bridgeError()    {}
func (SpawnFailed) bridgeError()   {}
func (NotReady) bridgeError()      {}

func (e BridgeMissing) Error() string {
	if e.Reason == "" {
		return "bridge executable not found"
	}
	return "bridge executable not found: " + e.Reason
}

func (e PortsInUse) Error() string { return e.Message }

func (e SpawnFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e SpawnFailed) Unwrap() error { return e.Err }

func (e NotReady) Error() string { return e.Message }

func (e BridgeMissing) Hint() string { return e.Remedy }
func (e PortsInUse) Hint() string    { return e.Remedy }
func (SpawnFailed) Hint() string {
	return "run the bridge by hand with --headless to see its output"
}
func (NotReady) Hint() string { return "raise bridge.ready_timeout in msdev.yaml" }

func (BridgeMissing) Kind() string { return "bridge_missing" }
func (PortsInUse) Kind() string    { return "ports_in_use" }
func (SpawnFailed) Kind() string   { return "spawn_failed" }
func (NotReady) Kind() string      { return "not_ready" }
