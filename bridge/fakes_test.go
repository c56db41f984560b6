package bridge

import (
	"context"
	"os"
	"sync"
)

type fakeProcess struct {
	pid          int
	exitOnSignal bool
	exitOnKill   bool
	signalErr    error
	exitErr      error

	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	signals []os.Signal
	kills   int
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{pid: 4242, done: make(chan struct{})}
}

func (p *fakeProcess) exit() { p.closeOnce.Do(func() { close(p.done) }) }

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Signal(sig os.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	p.mu.Unlock()
	if p.signalErr != nil {
		return p.signalErr
	}
	if p.exitOnSignal {
		p.exit()
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.kills++
	p.mu.Unlock()
	if p.exitOnKill {
		p.exit()
	}
	return nil
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) ExitErr() error        { return p.exitErr }

func (p *fakeProcess) counts() (signals, kills int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.signals), p.kills
}

type fakeLauncher struct {
	proc  *fakeProcess
	err   error
	calls int
	path  string
	args  []string
}

func (l *fakeLauncher) Launch(_ context.Context, path string, args []string) (Process, error) {
	l.calls++
	l.path = path
	l.args = args
	if l.err != nil {
		return nil, l.err
	}
	return l.proc, nil
}

// fakeProber answers from fixed tables. A port in readyAfter becomes
// TCP-connectable once it has been probed more than that many times.
type fakeProber struct {
	tcp        map[int]bool
	udp        map[int]bool
	readyAfter map[int]int

	mu       sync.Mutex
	tcpCalls map[int]int
}

func (p *fakeProber) TCPConnectable(_ context.Context, port int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tcpCalls == nil {
		p.tcpCalls = make(map[int]int)
	}
	p.tcpCalls[port]++
	if n, ok := p.readyAfter[port]; ok {
		return p.tcpCalls[port] > n
	}
	return p.tcp[port]
}

func (p *fakeProber) UDPBound(port int) bool { return p.udp[port] }

type fakeInstaller struct {
	path string
	err  error
}

func (i fakeInstaller) EnsureBinary(context.Context) (string, error) { return i.path, i.err }
