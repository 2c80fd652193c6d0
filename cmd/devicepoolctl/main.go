// Command devicepoolctl is a reference device pool daemon.
//
// It wires package manager's Core Manager to a bridge adapter, an
// external command runner, and an event log, then serves a periodic
// text report of the pool's state until interrupted.
//
// Usage:
//
//	devicepoolctl [flags]
//
// Flags:
//
//	-config string       Configuration file path (YAML)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-event-log string     Override the config's event log path
//	-report-interval duration   How often to print a pool report (default 10s)
//	-seed-device string    Inject a fake device serial for local testing (repeatable)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/config"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/manager"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poollog"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/runner"
)

type seedFlags []string

func (s *seedFlags) String() string { return strings.Join(*s, ",") }
func (s *seedFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	configFile     string
	logLevel       string
	eventLogPath   string
	reportInterval time.Duration
	seedDevices    seedFlags
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&eventLogPath, "event-log", "", "Override the config's event log path")
	flag.DurationVar(&reportInterval, "report-interval", 10*time.Second, "How often to print a pool report")
	flag.Var(&seedDevices, "seed-device", "Inject a fake device serial for local testing (repeatable)")
}

func main() {
	flag.Parse()

	opLog := newLogger(logLevel)

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if eventLogPath != "" {
		cfg.EventLogPath = eventLogPath
	}

	eventLog, closeLog := newEventLog(cfg.EventLogPath, opLog)
	defer closeLog()

	adapter := bridge.NewFakeAdapter()
	for _, serial := range seedDevices {
		adapter.Connect(&device.Device{Serial: serial, Variant: device.Real, Runtime: device.Online})
	}

	m := manager.New(adapter, cfg, nil, runner.NewExecRunner(), eventLog, opLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Init(ctx); err != nil {
		log.Fatalf("manager init: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()

	opLog.Info().Msg("devicepoolctl started")

loop:
	for {
		select {
		case sig := <-sigCh:
			opLog.Info().Str("signal", sig.String()).Msg("shutting down")
			break loop
		case <-ticker.C:
			printReport(m)
		}
	}

	if err := m.Terminate(); err != nil {
		opLog.Warn().Err(err).Msg("terminate failed")
	}
}

func printReport(m *manager.Manager) {
	if err := m.WriteReport(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}

func newEventLog(path string, opLog zerolog.Logger) (poollog.Logger, func()) {
	if path == "" {
		return poollog.NoopLogger{}, func() {}
	}
	f, err := poollog.NewFileLogger(path)
	if err != nil {
		opLog.Warn().Err(err).Str("path", path).Msg("event log disabled")
		return poollog.NoopLogger{}, func() {}
	}
	return f, func() {
		if err := f.Close(); err != nil {
			opLog.Warn().Err(err).Msg("closing event log")
		}
	}
}
