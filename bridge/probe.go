package bridge

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/pithecene-io/msdev/types"
)

// Decision is the port coordinator's verdict.
type Decision string

// Decisions.
const (
	// DecisionSpawn means the ports are free and a bridge must be started.
	DecisionSpawn Decision = "spawn"
	// DecisionReuse means a running bridge appears to own the ports.
	DecisionReuse Decision = "reuse"
)

// DefaultDialTimeout bounds the WebSocket controller connect probe.
const DefaultDialTimeout = 300 * time.Millisecond

// PortProber inspects local ports.
type PortProber interface {
	// TCPConnectable reports whether something accepts TCP connections on port.
	TCPConnectable(ctx context.Context, port int) bool
	// UDPBound reports whether port cannot be bound locally for UDP.
	UDPBound(port int) bool
}

// NetProber probes ports on the local machine.
type NetProber struct {
	// Host is dialled for TCP probes. Empty means 127.0.0.1.
	Host string
	// DialTimeout bounds TCP probes. Zero means DefaultDialTimeout.
	DialTimeout time.Duration
}

// TCPConnectable dials host:port.
func (p NetProber) TCPConnectable(ctx context.Context, port int) bool {
	host := p.Host
	if host == "" {
		host = "127.0.0.1"
	}
	timeout := p.DialTimeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// UDPBound tries to bind port on all interfaces and releases it at once.
func (NetProber) UDPBound(port int) bool {
	conn, err := net.ListenPacket("udp", ":"+strconv.Itoa(port))
	if err != nil {
		return true
	}
	_ = conn.Close()
	return false
}

// Coordinate decides between reusing a running bridge and spawning one.
//
// WebSocket controllers are probed by connecting; if nothing answers, the
// host UDP port must be free. UDP controllers cannot be probed by
// connecting, so both UDP ports are bind-probed: both bound means an
// existing bridge is assumed, exactly one bound is a conflict. The both
// bound case cannot tell a bridge from an unrelated process holding the
// same two ports.
func Coordinate(ctx context.Context, spec HeadlessSpec, prober PortProber) types.Outcome[Decision, Error] {
	if spec.Controller == ControllerWS {
		if prober.TCPConnectable(ctx, spec.ControllerPort) {
			return types.Success[Decision, Error](DecisionReuse)
		}
		if prober.UDPBound(spec.HostPort) {
			return types.Failure[Decision, Error](PortsInUse{
				Message: fmt.Sprintf("host UDP port %d is in use but nothing answers on controller port %d", spec.HostPort, spec.ControllerPort),
				Remedy:  portRemedy(spec.HostPort),
			})
		}
		return types.Success[Decision, Error](DecisionSpawn)
	}

	controllerBound := prober.UDPBound(spec.ControllerPort)
	hostBound := prober.UDPBound(spec.HostPort)
	switch {
	case controllerBound && hostBound:
		return types.Success[Decision, Error](DecisionReuse)
	case controllerBound:
		return types.Failure[Decision, Error](PortsInUse{
			Message: fmt.Sprintf("controller UDP port %d is in use but host port %d is free", spec.ControllerPort, spec.HostPort),
			Remedy:  portRemedy(spec.ControllerPort),
		})
	case hostBound:
		return types.Failure[Decision, Error](PortsInUse{
			Message: fmt.Sprintf("host UDP port %d is in use but controller port %d is free", spec.HostPort, spec.ControllerPort),
			Remedy:  portRemedy(spec.HostPort),
		})
	default:
		return types.Success[Decision, Error](DecisionSpawn)
	}
}

func portRemedy(port int) string {
	return fmt.Sprintf("stop the process holding port %d (lsof -i :%d) or change bridge.ports in msdev.yaml", port, port)
}
