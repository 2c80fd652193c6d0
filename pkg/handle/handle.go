package handle

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
)

// RecoveryPolicy governs how a handle's next operation behaves after a
// connectivity problem.
type RecoveryPolicy uint8

const (
	// RecoveryWait is the default: the next operation waits for the
	// device to come back online.
	RecoveryWait RecoveryPolicy = iota
	// RecoveryAbort causes every in-flight or future operation on the
	// handle to fail immediately with a "session aborted" error.
	// Installed on every allocated handle by terminateHard (§4.11).
	RecoveryAbort
)

// Process is the subset of an emulator subprocess a Handle needs to
// shut it down in the free protocol (§4.5). Implemented by package
// emulator's launched process wrapper.
type Process interface {
	KillConsole() error
	Alive() bool
	Destroy() error
	Pid() (pid int, ok bool)
}

// Handle is the per-allocation object returned to callers of allocate.
type Handle struct {
	id uuid.UUID

	mu      sync.RWMutex
	device  *device.Device
	policy  RecoveryPolicy
	process Process
}

// New mints a Handle wrapping d with a freshly generated session ID.
func New(d *device.Device) *Handle {
	return &Handle{id: uuid.New(), device: d}
}

// ID returns the handle's session identifier, named in terminateHard's
// "session aborted" error. It is not part of the text report.
func (h *Handle) ID() uuid.UUID { return h.id }

// Serial returns the underlying device's serial.
func (h *Handle) Serial() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.device.Serial
}

// Device returns a copy of the underlying device's current metadata.
func (h *Handle) Device() device.Device {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return *h.device
}

// SetDevice replaces the underlying device reference, e.g. when the
// bridge delivers a fresh connected() event for an already-allocated
// serial (§4.8).
func (h *Handle) SetDevice(d *device.Device) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.device = d
}

// RuntimeState returns the handle's current runtime state.
func (h *Handle) RuntimeState() device.RuntimeState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.device.Runtime
}

// SetRuntimeState updates the handle's runtime state in place.
func (h *Handle) SetRuntimeState(s device.RuntimeState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.device.Runtime = s
}

// Variant returns the underlying device's variant.
func (h *Handle) Variant() device.Variant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.device.Variant
}

// SetRecoveryPolicy installs p as the handle's recovery policy.
func (h *Handle) SetRecoveryPolicy(p RecoveryPolicy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.policy = p
}

// CheckAborted returns a Cancelled error if the handle's recovery
// policy is RecoveryAbort. Every blocking or device-touching operation
// on an allocated handle should call this first.
func (h *Handle) CheckAborted() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.policy == RecoveryAbort {
		return poolerrors.Cancel(errSessionAborted(h.id.String()))
	}
	return nil
}

// SetProcess attaches the managed emulator subprocess to the handle.
func (h *Handle) SetProcess(p Process) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.process = p
}

// Process returns the attached emulator subprocess, or nil if none.
func (h *Handle) Process() Process {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.process
}

type sessionAbortedError string

func (e sessionAbortedError) Error() string { return "session aborted: " + string(e) }

func errSessionAborted(sessionID string) error { return sessionAbortedError(sessionID) }
