package manager

import (
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
)

// DefaultEmulatorShutdownWait bounds how long Free waits for an
// emulator subprocess to exit on its own after KillConsole before
// escalating to Destroy.
const DefaultEmulatorShutdownWait = 5 * time.Second

// defaultShutdownPollInterval is how often Free polls Process.Alive
// while waiting for an orderly emulator shutdown.
const defaultShutdownPollInterval = 100 * time.Millisecond

// LogcatStopper is the optional external collaborator that stops a
// device's local logcat capture. Free calls it best-effort; a nil
// stopper or a returned error never fails Free (§4.5 step 1).
type LogcatStopper interface {
	StopLogcat(serial string) error
}

// SetLogcatStopper installs the best-effort logcat-stop collaborator.
func (m *Manager) SetLogcatStopper(s LogcatStopper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logcat = s
}

// Free returns h to the pool per disposition (§4.5). An EmulatorSlot
// ignores disposition: its subprocess is torn down and a fresh
// placeholder takes its place in the queue, never the handle's own
// (now-stale) device record.
func (m *Manager) Free(h *handle.Handle, disposition device.Disposition) error {
	serial := h.Serial()

	m.stopLogcatBestEffort(serial)

	if h.Variant() == device.EmulatorSlot {
		m.shutdownEmulator(h)
		m.placeholders.ReplaceEmulatorSlot(serial)
		m.stats.RecordFree(serial, now())
		m.registry.RemoveIfPresent(serial)
		m.eventLog.Log(poollog.Event{
			Serial:      serial,
			Kind:        poollog.KindFreed,
			Disposition: device.DispositionAvailable.String(),
		})
		return nil
	}

	if _, ok := m.registry.RemoveIfPresent(serial); !ok {
		m.eventLog.Log(poollog.Event{Serial: serial, Kind: poollog.KindError, Message: "free: serial not present in registry"})
	}

	m.applyDisposition(h, disposition)

	m.eventLog.Log(poollog.Event{
		Serial:      serial,
		Kind:        poollog.KindFreed,
		Disposition: disposition.String(),
	})
	return nil
}

func (m *Manager) stopLogcatBestEffort(serial string) {
	m.mu.Lock()
	stopper := m.logcat
	m.mu.Unlock()
	if stopper == nil {
		return
	}
	if err := stopper.StopLogcat(serial); err != nil {
		m.opLog.Warn().Str("serial", serial).Err(err).Msg("stop logcat failed")
	}
}

func (m *Manager) shutdownEmulator(h *handle.Handle) {
	proc := h.Process()
	if proc == nil {
		return
	}

	if err := proc.KillConsole(); err != nil {
		m.opLog.Warn().Str("serial", h.Serial()).Err(err).Msg("emulator console kill failed")
	}

	deadline := time.Now().Add(m.emulatorShutdownWait())
	for proc.Alive() && time.Now().Before(deadline) {
		time.Sleep(m.shutdownPollInterval())
	}

	if proc.Alive() {
		if pid, ok := proc.Pid(); ok {
			m.opLog.Warn().Str("serial", h.Serial()).Int("pid", pid).Msg("emulator still alive after console kill, destroying")
		} else {
			m.opLog.Warn().Str("serial", h.Serial()).Msg("emulator still alive after console kill, pid unavailable, destroying")
		}
		if err := proc.Destroy(); err != nil {
			m.opLog.Warn().Str("serial", h.Serial()).Err(err).Msg("emulator destroy failed")
		}
	}
}

func (m *Manager) applyDisposition(h *handle.Handle, disposition device.Disposition) {
	d := h.Device()
	switch disposition {
	case device.DispositionAvailable:
		m.queue.AddUnique(&d)
	case device.DispositionUnresponsive:
		if m.reenqueueUnresponsive() {
			m.queue.AddUnique(&d)
		}
	case device.DispositionUnavailable:
		m.eventLog.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindDropped})
	case device.DispositionIgnore:
		// Dropped silently: no event beyond the KindFreed record above.
	}
}

func (m *Manager) reenqueueUnresponsive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reenqueueUnresponsiveFlag
}

func (m *Manager) emulatorShutdownWait() time.Duration {
	if m.emulatorShutdownWaitOverride > 0 {
		return m.emulatorShutdownWaitOverride
	}
	return DefaultEmulatorShutdownWait
}

func (m *Manager) shutdownPollInterval() time.Duration {
	if m.shutdownPollIntervalOverride > 0 {
		return m.shutdownPollIntervalOverride
	}
	return defaultShutdownPollInterval
}
