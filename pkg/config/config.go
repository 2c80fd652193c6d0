package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/selector"
)

// Config is the YAML-loadable option bag behind the ConfigProvider
// external interface (§6): two capacity integers and a selector.
type Config struct {
	MaxEmulators      int               `yaml:"max-emulators"`
	MaxNullDevices    int               `yaml:"max-null-devices"`
	DefaultSelector   selector.Criteria `yaml:"default-selector"`
	ReadinessDeadline time.Duration     `yaml:"readiness-deadline"`
	BootloaderPoll    time.Duration     `yaml:"bootloader-poll-interval"`
	EventLogPath      string            `yaml:"event-log-path"`
}

// Default returns the documented defaults: max-emulators 1,
// max-null-devices 1, a 30s readiness deadline, and a 5s bootloader
// poll cadence.
func Default() Config {
	return Config{
		MaxEmulators:      1,
		MaxNullDevices:    1,
		DefaultSelector:   selector.Criteria{},
		ReadinessDeadline: 30 * time.Second,
		BootloaderPoll:    5 * time.Second,
	}
}

// LoadError wraps a configuration load failure with the file that
// caused it.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return e.File + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error { return e.Cause }

// LoadFile reads and parses a YAML config file, filling in documented
// defaults for any zero-valued field.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "read config", Cause: err}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &LoadError{File: path, Message: "parse config", Cause: err}
	}
	if cfg.MaxEmulators <= 0 {
		cfg.MaxEmulators = 1
	}
	if cfg.MaxNullDevices <= 0 {
		cfg.MaxNullDevices = 1
	}
	if cfg.ReadinessDeadline <= 0 {
		cfg.ReadinessDeadline = 30 * time.Second
	}
	if cfg.BootloaderPoll <= 0 {
		cfg.BootloaderPoll = 5 * time.Second
	}
	return cfg, nil
}
