package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bootloader"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/config"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/emulator"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/placeholder"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/prober"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/queue"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/registry"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/runner"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/selector"
)

// FastbootProbeTimeout bounds the "fastboot help" availability check run
// once during Init.
const FastbootProbeTimeout = 5 * time.Second

// Manager is the Core Manager (§4.4-§4.11): it owns the Availability
// Queue, the Allocation Registry, the Readiness Prober, and the
// Bootloader Monitor, and dispatches bridge events between them.
type Manager struct {
	mu                sync.Mutex
	initialized       bool
	terminated        bool
	fastbootAvailable bool

	adapter    bridge.Adapter
	cfg        config.Config
	newMonitor func(*device.Device) bridge.DeviceStateMonitor
	run        runner.Runner

	queue        *queue.Queue[*device.Device]
	registry     *registry.Registry[*handle.Handle]
	prober       *prober.Prober
	bootMonitor  *bootloader.Monitor
	placeholders *placeholder.Provisioner
	stats        *emulator.Stats

	checkingMonitors sync.Map // serial string -> bridge.DeviceStateMonitor

	eventLog poollog.Logger
	opLog    zerolog.Logger
	logcat   LogcatStopper

	// reenqueueUnresponsiveFlag governs whether free(h, Unresponsive)
	// re-enters the pool (default true, preserving the source's
	// behavior) or is dropped without re-queuing (§9 open question).
	reenqueueUnresponsiveFlag bool

	// Overrides for Free's emulator-shutdown wait, used by tests to
	// avoid real 5s sleeps. Zero means use the package defaults.
	emulatorShutdownWaitOverride time.Duration
	shutdownPollIntervalOverride time.Duration
}

// SetReenqueueUnresponsive controls whether free(h, Unresponsive)
// re-enters the device into the Availability Queue. Defaults to true.
func (m *Manager) SetReenqueueUnresponsive(b bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reenqueueUnresponsiveFlag = b
}

// New creates a Manager. adapter is the bridge collaborator; newMonitor
// mints a per-device DeviceStateMonitor (the ConfigProvider's optional
// device monitor, §6); r executes external commands. eventLog may be
// nil, becoming poollog.NoopLogger. opLog is used as given — pass
// zerolog.New(io.Discard) for a no-op operational logger.
func New(adapter bridge.Adapter, cfg config.Config, newMonitor func(*device.Device) bridge.DeviceStateMonitor, r runner.Runner, eventLog poollog.Logger, opLog zerolog.Logger) *Manager {
	if eventLog == nil {
		eventLog = poollog.NoopLogger{}
	}

	q := queue.New(func(d *device.Device) string { return d.Serial })
	reg := registry.New[*handle.Handle]()

	return &Manager{
		adapter:                   adapter,
		cfg:                       cfg,
		newMonitor:                newMonitor,
		run:                       r,
		queue:                     q,
		registry:                  reg,
		prober:                    prober.New(q, cfg.ReadinessDeadline, eventLog),
		bootMonitor:               bootloader.New(reg, r, cfg.BootloaderPoll, eventLog),
		placeholders:              placeholder.New(q),
		stats:                     emulator.NewStats(),
		eventLog:                  eventLog,
		opLog:                     opLog,
		reenqueueUnresponsiveFlag: true,
	}
}

// Init installs the bridge listener, connects the adapter, probes for
// fastboot, and seeds placeholder capacity. A second call is a
// programming error (§4.11).
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return poolerrors.Programming(errDoubleInit)
	}
	m.initialized = true
	m.mu.Unlock()

	// Installed before Init() connects the adapter so no early
	// connected() event is lost.
	m.adapter.AddListener(m)
	if err := m.adapter.Init(ctx); err != nil {
		return poolerrors.NotAvailable(err)
	}

	if _, err := m.run.RunTimedCmd(ctx, FastbootProbeTimeout, []string{"fastboot", "help"}); err != nil {
		m.opLog.Warn().Err(err).Msg("fastboot probe failed, bootloader monitor disabled")
		m.fastbootAvailable = false
	} else {
		m.fastbootAvailable = true
	}

	m.placeholders.SeedEmulatorSlots(m.cfg.MaxEmulators)
	m.placeholders.SeedNullSlots(m.cfg.MaxNullDevices)
	return nil
}

// Terminate unregisters the bridge listener, tears down the bridge, and
// stops the bootloader monitor. Safe to call more than once.
func (m *Manager) Terminate() error {
	m.mu.Lock()
	if m.terminated {
		m.mu.Unlock()
		return nil
	}
	m.terminated = true
	m.mu.Unlock()

	m.adapter.RemoveListener(m)
	m.bootMonitor.Stop()
	if err := m.adapter.Terminate(); err != nil {
		m.opLog.Warn().Err(err).Msg("bridge terminate failed")
	}
	return nil
}

// TerminateHard installs an abort recovery policy on every allocated
// handle so in-flight device operations fail fast, force-disconnects
// the bridge, then terminates.
func (m *Manager) TerminateHard() error {
	for _, h := range m.registry.Values() {
		h.SetRecoveryPolicy(handle.RecoveryAbort)
	}
	if err := m.adapter.Disconnect(); err != nil {
		m.opLog.Warn().Err(err).Msg("force disconnect failed")
	}
	return m.Terminate()
}

// AddBootloaderListener registers l with the bootloader monitor. If the
// fastboot probe failed at Init, it only logs a warning (on every call).
func (m *Manager) AddBootloaderListener(l bootloader.Listener) {
	if !m.fastbootAvailable {
		m.opLog.Warn().Msg("bootloader monitor unavailable: fastboot probe failed at init")
		return
	}
	m.bootMonitor.AddListener(l)
}

// RemoveBootloaderListener deregisters l.
func (m *Manager) RemoveBootloaderListener(l bootloader.Listener) {
	m.bootMonitor.RemoveListener(l)
}

// Allocate blocks until any non-placeholder device is available.
func (m *Manager) Allocate(ctx context.Context) (*handle.Handle, error) {
	return m.AllocateMatching(ctx, queue.Unbounded, nonPlaceholder{})
}

// AllocateTimeout waits up to timeout for any non-placeholder device.
func (m *Manager) AllocateTimeout(ctx context.Context, timeout time.Duration) (*handle.Handle, error) {
	return m.AllocateMatching(ctx, timeout, nonPlaceholder{})
}

// nonPlaceholder matches every device except the EmulatorSlot, NullSlot
// and TcpStub placeholders that reserve capacity in the queue.
type nonPlaceholder struct{ selector.Criteria }

func (nonPlaceholder) Matches(d *device.Device) bool {
	return d != nil && !d.Variant.IsPlaceholder()
}

// AllocateMatching waits up to timeout for a device matching sel
// (§4.4). timeout follows queue.Poll's semantics: 0 never blocks,
// queue.Unbounded blocks forever.
func (m *Manager) AllocateMatching(ctx context.Context, timeout time.Duration, sel selector.Selector) (*handle.Handle, error) {
	d, ok, err := m.queue.Poll(ctx, timeout, sel.Matches)
	if err != nil {
		return nil, poolerrors.Cancel(err)
	}
	if !ok {
		return nil, poolerrors.NotAvailable(errNoDeviceAvailable)
	}
	return m.mintHandle(d)
}

// ForceAllocate allocates serial regardless of whether it is currently
// in the Availability Queue. If serial is already allocated, it
// refuses. If serial is not in the queue within 1ms, a TcpStub
// placeholder is minted and allocated in its place (§4.4).
func (m *Manager) ForceAllocate(ctx context.Context, serial string) (*handle.Handle, error) {
	if m.registry.Contains(serial) {
		return nil, poolerrors.NotAvailable(errAlreadyAllocated(serial))
	}

	d, ok, err := m.queue.Poll(ctx, time.Millisecond, selector.BySerial(serial).Matches)
	if err != nil {
		return nil, poolerrors.Cancel(err)
	}
	if !ok {
		d = &device.Device{Serial: serial, Variant: device.TcpStub, Runtime: device.NotAvailable}
	}
	return m.mintHandle(d)
}

func (m *Manager) mintHandle(d *device.Device) (*handle.Handle, error) {
	h := handle.New(d)
	if err := m.registry.Insert(d.Serial, h); err != nil {
		return nil, err
	}
	if d.Variant == device.EmulatorSlot {
		m.stats.RecordAllocate(d.Serial, now())
	}
	m.eventLog.Log(poollog.Event{
		Serial:          d.Serial,
		Kind:            poollog.KindAllocated,
		AllocationState: device.Allocated.String(),
		Variant:         d.Variant.String(),
	})
	return h, nil
}

// now is a seam for tests that need to control time; production code
// always uses the wall clock.
var now = time.Now

type managerError string

func (e managerError) Error() string { return string(e) }

const (
	errDoubleInit          managerError = "manager: Init called twice"
	errNoDeviceAvailable   managerError = "manager: no device available"
	errAdbConnectRefused   managerError = "manager: adb connect did not report success"
	errBootloaderDisabled  managerError = "manager: bootloader monitor unavailable"
)

type alreadyAllocatedError string

func (e alreadyAllocatedError) Error() string {
	return "manager: serial already allocated: " + string(e)
}

func errAlreadyAllocated(serial string) error { return alreadyAllocatedError(serial) }
