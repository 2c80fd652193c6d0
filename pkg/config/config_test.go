package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(path, []byte("max-emulators: 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.MaxEmulators != 3 {
		t.Errorf("MaxEmulators = %d, want 3", cfg.MaxEmulators)
	}
	if cfg.MaxNullDevices != 1 {
		t.Errorf("MaxNullDevices = %d, want default 1", cfg.MaxNullDevices)
	}
	if cfg.ReadinessDeadline != 30*time.Second {
		t.Errorf("ReadinessDeadline = %v, want default 30s", cfg.ReadinessDeadline)
	}
}

func TestLoadFileMissingReturnsLoadError(t *testing.T) {
	_, err := LoadFile("/nonexistent/pool.yaml")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestLoadFileInvalidYAMLReturnsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	os.WriteFile(path, []byte("not: [valid: yaml"), 0o644)

	_, err := LoadFile(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	if cfg.MaxEmulators != 1 || cfg.MaxNullDevices != 1 {
		t.Errorf("Default() capacities = %d/%d, want 1/1", cfg.MaxEmulators, cfg.MaxNullDevices)
	}
}
