package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
)

// FakeAdapter is a test double for Adapter: devices are injected and
// events dispatched by calling Connect/StateChange/Disconnect directly.
type FakeAdapter struct {
	mu        sync.Mutex
	listeners []Listener
	devices   map[string]*device.Device
	inited    bool
}

// NewFakeAdapter creates an empty FakeAdapter.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{devices: make(map[string]*device.Device)}
}

func (f *FakeAdapter) Init(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inited = true
	return nil
}

func (f *FakeAdapter) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inited = false
	return nil
}

func (f *FakeAdapter) Disconnect() error { return nil }

func (f *FakeAdapter) Devices() []*device.Device {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*device.Device, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, d)
	}
	return out
}

func (f *FakeAdapter) AddListener(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

func (f *FakeAdapter) RemoveListener(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.listeners {
		if existing == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

func (f *FakeAdapter) snapshotListeners() []Listener {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Listener, len(f.listeners))
	copy(out, f.listeners)
	return out
}

// Connect injects d and dispatches a connected event.
func (f *FakeAdapter) Connect(d *device.Device) {
	f.mu.Lock()
	f.devices[d.Serial] = d
	f.mu.Unlock()
	for _, l := range f.snapshotListeners() {
		l.Connected(d)
	}
}

// ChangeState dispatches a stateChanged event for an already-injected
// device.
func (f *FakeAdapter) ChangeState(serial string, mask StateMask) {
	f.mu.Lock()
	d := f.devices[serial]
	f.mu.Unlock()
	if d == nil {
		return
	}
	for _, l := range f.snapshotListeners() {
		l.StateChanged(d, mask)
	}
}

// DisconnectDevice dispatches a disconnected event and removes the
// device. Named distinctly from the Adapter interface's Disconnect()
// (which tears down the whole bridge) since a FakeAdapter needs both.
func (f *FakeAdapter) DisconnectDevice(serial string) {
	f.mu.Lock()
	d := f.devices[serial]
	delete(f.devices, serial)
	f.mu.Unlock()
	if d == nil {
		return
	}
	for _, l := range f.snapshotListeners() {
		l.Disconnected(d)
	}
}

// FakeMonitor is a DeviceStateMonitor test double whose WaitForShell
// result and delay are configurable.
type FakeMonitor struct {
	mu     sync.Mutex
	ready  bool
	delay  time.Duration
	state  device.RuntimeState
	setLog []device.RuntimeState
}

// NewFakeMonitor creates a monitor that reports ready after delay.
func NewFakeMonitor(ready bool, delay time.Duration) *FakeMonitor {
	return &FakeMonitor{ready: ready, delay: delay}
}

func (m *FakeMonitor) WaitForShell(ctx context.Context, deadline time.Duration) bool {
	wait := m.delay
	if wait > deadline {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return false
	}
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *FakeMonitor) SetState(s device.RuntimeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.setLog = append(m.setLog, s)
}

func (m *FakeMonitor) State() device.RuntimeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *FakeMonitor) StateHistory() []device.RuntimeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]device.RuntimeState, len(m.setLog))
	copy(out, m.setLog)
	return out
}
