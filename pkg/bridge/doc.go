// Package bridge defines the external collaborator contracts the core
// consumes: BridgeAdapter (the debug-bridge discovery source) and
// DeviceStateMonitor (the per-device liveness/state interface). Neither
// is implemented here — the embedding program binds them to its actual
// debug-bridge library — but a Fake implementation of each is provided
// for tests.
package bridge
