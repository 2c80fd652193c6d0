// Package config implements the ConfigProvider external interface: the
// option bag (maxEmulators, maxNullDevices, default selector, timeouts),
// loadable from YAML. The Core Manager reads the capacities and
// timeouts; it does not consult the default selector.
package config
