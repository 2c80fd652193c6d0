package manager

import (
	"context"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
)

// Compile-time assertion that Manager implements bridge.Listener.
var _ bridge.Listener = (*Manager)(nil)

// Connected implements bridge.Listener (§4.8).
func (m *Manager) Connected(d *device.Device) {
	if h, ok := m.registry.Get(d.Serial); ok {
		h.SetDevice(d)
		return
	}
	if mon, ok := m.checkingMonitors.Load(d.Serial); ok {
		mon.(bridge.DeviceStateMonitor).SetState(d.Runtime)
		return
	}
	if device.ValidSerial(d.Serial) && d.Runtime == device.Online {
		m.beginProbe(d)
	}
}

// StateChanged implements bridge.Listener (§4.8).
func (m *Manager) StateChanged(d *device.Device, mask bridge.StateMask) {
	if h, ok := m.registry.Get(d.Serial); ok {
		h.SetRuntimeState(d.Runtime)
		return
	}
	if mon, ok := m.checkingMonitors.Load(d.Serial); ok {
		mon.(bridge.DeviceStateMonitor).SetState(d.Runtime)
		return
	}
	if mask&bridge.MaskOnline != 0 && device.ValidSerial(d.Serial) {
		m.beginProbe(d)
	}
}

// Disconnected implements bridge.Listener (§4.8).
func (m *Manager) Disconnected(d *device.Device) {
	m.queue.RemoveKey(d.Serial)
	if h, ok := m.registry.Get(d.Serial); ok {
		h.SetRuntimeState(device.NotAvailable)
	}
	if mon, ok := m.checkingMonitors.Load(d.Serial); ok {
		mon.(bridge.DeviceStateMonitor).SetState(device.NotAvailable)
	}
}

// beginProbe hands a newly discovered, online device to the Readiness
// Prober, tracking the per-serial monitor so subsequent bridge events
// for the same serial reach it while it is still checking.
func (m *Manager) beginProbe(d *device.Device) {
	if m.newMonitor == nil {
		m.eventLog.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindError, Message: "no device state monitor configured"})
		return
	}
	mon := m.newMonitor(d)
	m.checkingMonitors.Store(d.Serial, mon)
	m.eventLog.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindDiscovered})

	serial := d.Serial
	m.prober.Probe(context.Background(), d, mon, func() {
		m.checkingMonitors.Delete(serial)
	})
}
