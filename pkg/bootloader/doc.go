// Package bootloader implements the Bootloader Monitor: a periodic loop
// that polls the "fastboot devices" channel and reconciles visible
// serials with the Allocation Registry, notifying registered listeners.
// The loop is disabled until at least one listener is registered.
package bootloader
