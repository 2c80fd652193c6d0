package bootloader

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/registry"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/runner"
)

// DefaultInterval is the monitor's tick cadence.
const DefaultInterval = 5 * time.Second

// PollTimeout is the hard timeout for the "fastboot devices" command.
const PollTimeout = 60 * time.Second

var fastbootDeviceLine = regexp.MustCompile(`([\w\d]+)\s+fastboot\s*`)

// Listener is notified once for each runtime-state transition the
// monitor applies while reconciling bootloader-visible serials against
// the registry. A tick that changes no handle's state notifies no one.
type Listener interface {
	StateUpdated(serial string, state device.RuntimeState)
}

// Monitor is the Bootloader Monitor.
type Monitor struct {
	mu        sync.Mutex
	listeners []Listener
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup

	registry *registry.Registry[*handle.Handle]
	run      runner.Runner
	interval time.Duration
	logger   poollog.Logger
}

// New creates a Monitor bound to reg. The loop does not start until
// AddListener is called for the first time.
func New(reg *registry.Registry[*handle.Handle], r runner.Runner, interval time.Duration, logger poollog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = poollog.NoopLogger{}
	}
	return &Monitor{registry: reg, run: r, interval: interval, logger: logger}
}

// AddListener registers l. Starts the polling loop if this is the first
// listener.
func (m *Monitor) AddListener(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	shouldStart := !m.running
	if shouldStart {
		m.running = true
		m.stopCh = make(chan struct{})
	}
	m.mu.Unlock()

	if shouldStart {
		m.wg.Add(1)
		go m.loop()
	}
}

// RemoveListener deregisters l. The loop keeps running even with no
// listeners left; call Stop to shut it down entirely.
func (m *Monitor) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.listeners {
		if existing == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// Stop terminates the polling loop. Safe to call when not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

type transition struct {
	serial string
	state  device.RuntimeState
}

func (m *Monitor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), PollTimeout)
	defer cancel()

	visible, err := m.queryVisibleSerials(ctx)
	if err != nil {
		m.logger.Log(poollog.Event{Kind: poollog.KindError, Message: err.Error()})
		return
	}

	var transitions []transition
	for _, h := range m.registry.Values() {
		serial := h.Serial()
		switch {
		case visible[serial] && h.RuntimeState() != device.RuntimeBootloader:
			h.SetRuntimeState(device.RuntimeBootloader)
			m.logger.Log(poollog.Event{Serial: serial, Kind: poollog.KindBootloaderEnter})
			transitions = append(transitions, transition{serial, device.RuntimeBootloader})
		case !visible[serial] && h.RuntimeState() == device.RuntimeBootloader:
			h.SetRuntimeState(device.NotAvailable)
			m.logger.Log(poollog.Event{Serial: serial, Kind: poollog.KindBootloaderExit})
			transitions = append(transitions, transition{serial, device.NotAvailable})
		}
	}
	if len(transitions) == 0 {
		return
	}

	// Snapshot the listener set before dispatch so the monitor never
	// holds its own lock while a listener callback runs.
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, t := range transitions {
		for _, l := range listeners {
			l.StateUpdated(t.serial, t.state)
		}
	}
}

func (m *Monitor) queryVisibleSerials(ctx context.Context) (map[string]bool, error) {
	result, err := m.run.RunTimedCmd(ctx, PollTimeout, []string{"fastboot", "devices"})
	if err != nil {
		return nil, poolerrors.FastbootPoll(err)
	}
	serials := make(map[string]bool)
	for _, match := range fastbootDeviceLine.FindAllStringSubmatch(result.Stdout, -1) {
		serials[match[1]] = true
	}
	return serials, nil
}
