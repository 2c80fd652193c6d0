// Package manager implements the Core Manager: allocation, free, the
// bridge event dispatch, the network transport helpers, and
// initialization/termination described across §4.4-§4.11. It is the
// seam where the Availability Queue, Allocation Registry, Readiness
// Prober, Bootloader Monitor, and Emulator Subsystem are wired
// together into one coherent pool.
package manager
