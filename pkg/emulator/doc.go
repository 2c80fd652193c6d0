// Package emulator implements the Emulator Subsystem: launching a local
// emulator subprocess onto an EmulatorSlot placeholder, and rolling
// 24-hour per-serial utilization statistics for reporting.
package emulator
