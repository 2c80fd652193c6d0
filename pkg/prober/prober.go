package prober

import (
	"context"
	"sync"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/queue"
)

// DefaultDeadline is the readiness probe's default timeout.
const DefaultDeadline = 30 * time.Second

// Prober probes newly discovered devices and, on success, inserts them
// into the Availability Queue.
type Prober struct {
	mu       sync.Mutex
	checking map[string]struct{}

	queue    *queue.Queue[*device.Device]
	deadline time.Duration
	logger   poollog.Logger

	// Sync runs probes inline on the caller of Probe instead of in a
	// goroutine, for deterministic tests.
	Sync bool
}

// New creates a Prober that enqueues successfully probed devices into q.
func New(q *queue.Queue[*device.Device], deadline time.Duration, logger poollog.Logger) *Prober {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if logger == nil {
		logger = poollog.NoopLogger{}
	}
	return &Prober{
		checking: make(map[string]struct{}),
		queue:    q,
		deadline: deadline,
		logger:   logger,
	}
}

// Probe registers d's serial in the checking table and probes it.
// Duplicate discoveries of a serial already being checked are ignored.
// The serial is removed from the checking table on every terminating
// path.
// onDone, if given, runs after the probe succeeds or fails — the Bridge
// Event Handler uses it to evict its own per-serial monitor bookkeeping.
// It is not called for a duplicate discovery that is ignored.
func (p *Prober) Probe(ctx context.Context, d *device.Device, monitor bridge.DeviceStateMonitor, onDone ...func()) {
	if !p.beginChecking(d.Serial) {
		return
	}
	p.logger.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindChecking})

	run := func() { p.run(ctx, d, monitor, onDone...) }
	if p.Sync {
		run()
	} else {
		go run()
	}
}

func (p *Prober) run(ctx context.Context, d *device.Device, monitor bridge.DeviceStateMonitor, onDone ...func()) {
	// endChecking must run before onDone: onDone evicts the caller's own
	// per-serial bookkeeping (e.g. the manager's checkingMonitors), so
	// that bookkeeping outlives p.checking. A concurrent bridge event for
	// this serial is then routed to the existing monitor by the caller
	// instead of re-entering beginProbe while p.checking is still marked,
	// where Probe would drop it after a second monitor had been stored.
	defer func() {
		for _, fn := range onDone {
			fn()
		}
	}()
	defer p.endChecking(d.Serial)

	if monitor.WaitForShell(ctx, p.deadline) {
		p.queue.AddUnique(d)
		p.logger.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindAvailable})
		return
	}
	p.logger.Log(poollog.Event{Serial: d.Serial, Kind: poollog.KindProbeFailed})
}

// IsChecking reports whether serial currently has a probe in flight.
func (p *Prober) IsChecking(serial string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.checking[serial]
	return ok
}

func (p *Prober) beginChecking(serial string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.checking[serial]; ok {
		return false
	}
	p.checking[serial] = struct{}{}
	return true
}

func (p *Prober) endChecking(serial string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.checking, serial)
}
