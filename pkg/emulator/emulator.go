package emulator

import (
	"context"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/runner"
)

// StartupSettle is how long Launch waits after spawning before checking
// whether the process is still alive.
const StartupSettle = 500 * time.Millisecond

type launchError string

func (e launchError) Error() string { return string(e) }

const (
	errExitedEarly launchError = "emulator process exited during startup"
	errBootTimeout launchError = "emulator did not come online within boot timeout"
)

// Process adapts a runner.Process to handle.Process, adding a
// best-effort console-kill step ahead of the runner-level Kill.
type Process struct {
	proc        runner.Process
	consoleKill func() error
}

// NewProcess wraps proc. consoleKill may be nil, in which case
// KillConsole is a no-op and shutdown relies on Destroy/SIGKILL.
func NewProcess(proc runner.Process, consoleKill func() error) *Process {
	return &Process{proc: proc, consoleKill: consoleKill}
}

func (p *Process) KillConsole() error {
	if p.consoleKill == nil {
		return nil
	}
	return p.consoleKill()
}

func (p *Process) Alive() bool      { return p.proc.Alive() }
func (p *Process) Destroy() error   { return p.proc.Kill() }
func (p *Process) Pid() (int, bool) { return p.proc.Pid() }

var _ handle.Process = (*Process)(nil)

// Launch spawns an emulator subprocess onto h, which must be an
// EmulatorSlot in NotAvailable state. On success h's attached process
// is set and its runtime state becomes Online.
func Launch(ctx context.Context, h *handle.Handle, bootTimeout time.Duration, r runner.Runner, args []string, monitor bridge.DeviceStateMonitor) error {
	if h.Variant() != device.EmulatorSlot {
		return poolerrors.Programming(errWrongVariant(h.Variant().String()))
	}
	if h.RuntimeState() != device.NotAvailable {
		return poolerrors.Programming(errWrongRuntimeState(h.RuntimeState().String()))
	}

	proc, err := r.RunInBackground(args)
	if err != nil {
		return poolerrors.NotAvailable(err)
	}
	if err := r.Sleep(ctx, StartupSettle); err != nil {
		return err
	}
	if !proc.Alive() {
		return poolerrors.NotAvailable(errExitedEarly)
	}

	h.SetProcess(NewProcess(proc, nil))

	if !monitor.WaitForShell(ctx, bootTimeout) {
		return poolerrors.NotAvailable(errBootTimeout)
	}
	h.SetRuntimeState(device.Online)
	return nil
}

type wrongVariantError string

func (e wrongVariantError) Error() string {
	return "launchEmulator: handle variant is " + string(e) + ", want EmulatorSlot"
}

func errWrongVariant(variant string) error { return wrongVariantError(variant) }

type wrongRuntimeStateError string

func (e wrongRuntimeStateError) Error() string {
	return "launchEmulator: handle runtime state is " + string(e) + ", want NotAvailable"
}

func errWrongRuntimeState(state string) error { return wrongRuntimeStateError(state) }
