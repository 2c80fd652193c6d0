package placeholder

import (
	"fmt"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/queue"
)

// FirstEmulatorPort is the ADB serial port of the first emulator slot
// ("emulator-5554"); each subsequent slot increments by 2, matching the
// even-port convention real emulator instances bind to.
const FirstEmulatorPort = 5554

// Provisioner seeds the Availability Queue with placeholder entries.
// Placeholders count only additional capacity: no attempt is made to
// reconcile with emulators the embedding program started outside the
// pool before init (§9 open question).
type Provisioner struct {
	queue *queue.Queue[*device.Device]
}

// New creates a Provisioner that seeds q.
func New(q *queue.Queue[*device.Device]) *Provisioner {
	return &Provisioner{queue: q}
}

// SeedNullSlots enqueues n NullSlot placeholders.
func (p *Provisioner) SeedNullSlots(n int) {
	for i := 0; i < n; i++ {
		p.queue.AddUnique(&device.Device{
			Serial:  fmt.Sprintf("null-device-%d", i),
			Variant: device.NullSlot,
			Runtime: device.NotAvailable,
		})
	}
}

// SeedEmulatorSlots enqueues n EmulatorSlot placeholders with serials
// "emulator-5554", "emulator-5556", ...
func (p *Provisioner) SeedEmulatorSlots(n int) []string {
	serials := make([]string, 0, n)
	port := FirstEmulatorPort
	for i := 0; i < n; i++ {
		serial := fmt.Sprintf("emulator-%d", port)
		p.queue.AddUnique(&device.Device{
			Serial:  serial,
			Variant: device.EmulatorSlot,
			Runtime: device.NotAvailable,
		})
		serials = append(serials, serial)
		port += 2
	}
	return serials
}

// ReplaceEmulatorSlot re-enqueues a fresh EmulatorSlot placeholder under
// the same serial, used by the free protocol (§4.5) after an emulator
// subprocess is torn down.
func (p *Provisioner) ReplaceEmulatorSlot(serial string) {
	p.queue.AddUnique(&device.Device{
		Serial:  serial,
		Variant: device.EmulatorSlot,
		Runtime: device.NotAvailable,
	})
}
