package bridge

import (
	"context"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
)

// StateMask identifies which bits changed in a stateChanged event.
type StateMask uint8

const (
	MaskOnline StateMask = 1 << iota
	MaskOffline
	MaskRecovery
)

// Listener receives the three bridge events. The manager installs one
// Listener before connecting the adapter (§4.11) so no early connected
// event is lost.
type Listener interface {
	Connected(d *device.Device)
	StateChanged(d *device.Device, mask StateMask)
	Disconnected(d *device.Device)
}

// Adapter is a thin abstraction over a device-discovery source.
type Adapter interface {
	Init(ctx context.Context) error
	Terminate() error
	Disconnect() error
	Devices() []*device.Device
	AddListener(l Listener)
	RemoveListener(l Listener)
}

// DeviceStateMonitor is the per-device liveness/state interface the
// Readiness Prober and Core Manager drive.
type DeviceStateMonitor interface {
	WaitForShell(ctx context.Context, deadline time.Duration) bool
	SetState(s device.RuntimeState)
}
