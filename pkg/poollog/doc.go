// Package poollog provides structured lifecycle logging for the device pool.
//
// This package defines the Logger interface and Event types for capturing
// pool-level events: discovery, readiness checks, allocation, free, and
// bootloader transitions. It is separate from operational logging (zerolog) -
// pool event capture provides a complete machine-readable trace of every
// serial's journey through the pool, independent of however the embedding
// program chooses to log free-form operational messages.
//
// # Basic Usage
//
// Applications configure logging by passing a Logger implementation as
// the eventLog argument of manager.New:
//
//	// For development: log to console via slog
//	var eventLog poollog.Logger = poollog.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	fl, _ := poollog.NewFileLogger("/var/log/devicepool/events.plog")
//	eventLog = fl
//
//	// Both: use MultiLogger
//	eventLog = poollog.NewMultiLogger(
//	    poollog.NewSlogAdapter(slog.Default()),
//	    fl,
//	)
//
//	mgr := manager.New(adapter, cfg, newMonitor, r, eventLog, opLog)
//
// # File Format
//
// Log files use CBOR encoding. Events can be replayed with Reader for
// post-hoc analysis of pool churn.
package poollog
