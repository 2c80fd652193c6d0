// Package handle defines Handle, the per-allocation object returned to
// callers of allocate. A Handle binds a device, its current runtime
// state, a recovery policy, and (for emulator-backed devices) the
// managed subprocess.
package handle
