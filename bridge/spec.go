// Package bridge coordinates and supervises the headless bridge process a
// simulator talks to.
//
// A bridge is either spawned and owned for the lifetime of one invocation,
// or reused when a previous one already holds the ports. Ownership is
// decided once per invocation by probing the ports; there is no lock file.
// The probe is racy by nature: another process may take a port between the
// probe and the spawn, in which case the spawned bridge fails its readiness
// check instead.
package bridge

import (
	"strconv"

	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/types"
)

// Controller is the protocol the simulator uses to reach the bridge.
type Controller string

// Controller kinds.
const (
	ControllerUDP Controller = "udp"
	ControllerWS  Controller = "ws"
)

// HeadlessSpec is how a bridge must run for one app and mode.
type HeadlessSpec struct {
	Mode           types.Mode `json:"mode" yaml:"mode"`
	Controller     Controller `json:"controller" yaml:"controller"`
	ControllerPort int        `json:"controller_port" yaml:"controller_port"`
	HostPort       int        `json:"host_port" yaml:"host_port"`
}

// SpecFor computes the headless spec. Wasm simulators reach the bridge over
// WebSocket, native simulators over UDP. Apps without their own port
// profile use the default one.
func SpecFor(cfg *config.Config, appName string, mode types.Mode) HeadlessSpec {
	ports := cfg.PortsFor(appName)
	if mode == types.ModeWasm {
		return HeadlessSpec{Mode: mode, Controller: ControllerWS, ControllerPort: ports.Wasm, HostPort: ports.Host}
	}
	return HeadlessSpec{Mode: mode, Controller: ControllerUDP, ControllerPort: ports.Native, HostPort: ports.Host}
}

// Args returns the bridge command line flags.
func (s HeadlessSpec) Args() []string {
	return []string{
		"--headless",
		"--controller", string(s.Controller),
		"--controller-port", strconv.Itoa(s.ControllerPort),
		"--udp-port", strconv.Itoa(s.HostPort),
	}
}
