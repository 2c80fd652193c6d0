// Package poolerrors classifies the errors that cross the device pool's
// external boundary.
//
// The pool distinguishes five semantic error kinds (ProgrammingError,
// DeviceNotAvailable, TransientAdb, FastbootPollFailure, Cancelled) rather
// than relying on sentinel values or type switches scattered through the
// manager. Each kind carries its own propagation policy: ProgrammingError
// is logged loudly and refuses the operation; DeviceNotAvailable surfaces
// to the allocate/launch/free caller; TransientAdb drives a bounded retry
// before collapsing to "no device"; FastbootPollFailure never leaves the
// bootloader monitor's tick; Cancelled unwinds a blocking wait cleanly.
package poolerrors
