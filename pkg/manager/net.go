package manager

import (
	"context"
	"strings"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/retry"
)

// AdbConnectAttempts is the number of global "adb connect" attempts
// ConnectTcp makes before giving up (§4.6, §7).
const AdbConnectAttempts = 3

// AdbConnectInterval is the sleep between adb connect attempts.
const AdbConnectInterval = 5 * time.Second

// AdbConnectTimeout bounds a single "adb connect" invocation.
const AdbConnectTimeout = 5 * time.Second

// TcpSwitcher is the per-handle external collaborator that flips a
// device between its USB and TCP transports (§4.6). Implementations
// typically live alongside the device's DeviceStateMonitor.
type TcpSwitcher interface {
	SwitchToAdbTCP(ctx context.Context) (ipAndPort string, err error)
	SwitchToAdbUSB(ctx context.Context) error
}

// ConnectTcp allocates a TcpStub for ipAndPort and brings it online
// over the network transport (§4.6). If ipAndPort is already
// allocated, it refuses.
func (m *Manager) ConnectTcp(ctx context.Context, ipAndPort string) (*handle.Handle, error) {
	if m.registry.Contains(ipAndPort) {
		return nil, poolerrors.NotAvailable(errAlreadyAllocated(ipAndPort))
	}

	h, err := m.mintHandle(&device.Device{Serial: ipAndPort, Variant: device.TcpStub, Runtime: device.NotAvailable})
	if err != nil {
		return nil, err
	}

	connectErr := retry.Do(ctx, retry.Config{Attempts: AdbConnectAttempts, Interval: AdbConnectInterval}, func() error {
		return m.dialAdbTCP(ctx, ipAndPort)
	})
	if connectErr != nil {
		_ = m.Free(h, device.DispositionIgnore)
		return nil, poolerrors.NotAvailable(connectErr)
	}

	h.SetRecoveryPolicy(handle.RecoveryWait)
	h.SetRuntimeState(device.Online)

	return h, nil
}

func (m *Manager) dialAdbTCP(ctx context.Context, ipAndPort string) error {
	result, err := m.run.RunTimedCmd(ctx, AdbConnectTimeout, []string{"adb", "connect", ipAndPort})
	if err != nil {
		return poolerrors.ClassifyBridgeError(err)
	}
	if !strings.HasPrefix(result.Stdout, "connected to "+ipAndPort) {
		return poolerrors.TransientADB(errAdbConnectRefused)
	}
	return nil
}

// ReconnectToTcp switches usbHandle to its TCP transport and allocates
// the resulting address via ConnectTcp. On failure, usbHandle is put
// into Recovery (§4.6).
func (m *Manager) ReconnectToTcp(ctx context.Context, usbHandle *handle.Handle, switcher TcpSwitcher) (*handle.Handle, error) {
	ipAndPort, err := switcher.SwitchToAdbTCP(ctx)
	if err != nil {
		usbHandle.SetRuntimeState(device.Recovery)
		return nil, poolerrors.NotAvailable(err)
	}

	h, err := m.ConnectTcp(ctx, ipAndPort)
	if err != nil {
		usbHandle.SetRuntimeState(device.Recovery)
		return nil, err
	}
	return h, nil
}

// DisconnectFromTcp switches tcpHandle back to USB and frees it with
// Ignore disposition (§4.6).
func (m *Manager) DisconnectFromTcp(ctx context.Context, tcpHandle *handle.Handle, switcher TcpSwitcher) error {
	switchErr := switcher.SwitchToAdbUSB(ctx)

	if err := m.Free(tcpHandle, device.DispositionIgnore); err != nil {
		return err
	}
	return switchErr
}
