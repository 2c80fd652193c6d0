// Package placeholder implements the Placeholder Provisioner: seeding
// the Availability Queue with synthetic "no device needed" (NullSlot)
// and "emulator slot awaiting launch" (EmulatorSlot) entries.
package placeholder
