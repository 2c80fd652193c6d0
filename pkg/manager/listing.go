package manager

import (
	"io"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/report"
)

// ListAllocated returns a descriptor for every currently allocated
// serial. Unlike ListAvailable, placeholder variants are included here:
// once named by a caller (forceAllocate's TcpStub, a launched
// EmulatorSlot) they are a real allocation, not reserved capacity.
func (m *Manager) ListAllocated() []report.Descriptor {
	var out []report.Descriptor
	for _, h := range m.registry.Values() {
		d := h.Device()
		out = append(out, descriptorOf(d, device.Allocated))
	}
	report.Sort(out)
	return out
}

// ListAvailable returns a descriptor for every queued serial, excluding
// placeholder variants reserving capacity (§4.10).
func (m *Manager) ListAvailable() []report.Descriptor {
	var out []report.Descriptor
	for _, d := range m.queue.Snapshot() {
		if d.Variant.IsPlaceholder() {
			continue
		}
		out = append(out, descriptorOf(*d, device.Available))
	}
	report.Sort(out)
	return out
}

// ListUnavailable returns a descriptor for every serial the bridge
// currently reports that is neither allocated, queued, nor being
// checked.
func (m *Manager) ListUnavailable() []report.Descriptor {
	queued := make(map[string]bool)
	for _, d := range m.queue.Snapshot() {
		queued[d.Serial] = true
	}

	var out []report.Descriptor
	for _, d := range m.adapter.Devices() {
		if d.Variant.IsPlaceholder() {
			continue
		}
		if m.registry.Contains(d.Serial) || queued[d.Serial] || m.prober.IsChecking(d.Serial) {
			continue
		}
		out = append(out, descriptorOf(*d, device.Unavailable))
	}
	report.Sort(out)
	return out
}

// ListAll combines ListAllocated, ListAvailable, and ListUnavailable.
func (m *Manager) ListAll() []report.Descriptor {
	out := m.ListAllocated()
	out = append(out, m.ListAvailable()...)
	out = append(out, m.ListUnavailable()...)
	report.Sort(out)
	return out
}

// WriteReport writes ListAll as a text table to w (§6).
func (m *Manager) WriteReport(w io.Writer) error {
	return report.WriteTable(w, m.ListAll())
}

func descriptorOf(d device.Device, state device.AllocationState) report.Descriptor {
	return report.Descriptor{
		Serial:          d.Serial,
		AllocationState: state,
		Product:         d.Product,
		Variant:         d.Variant,
		SDKVersion:      d.SDKVersion,
		Build:           d.Build,
		Battery:         d.Battery,
	}
}
