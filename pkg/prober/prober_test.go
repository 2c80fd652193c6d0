package prober

import (
	"context"
	"testing"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/bridge"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/queue"
)

func keyOf(d *device.Device) string { return d.Serial }

func TestProbeSuccessEnqueuesDevice(t *testing.T) {
	q := queue.New(keyOf)
	p := New(q, time.Second, nil)
	p.Sync = true

	d := &device.Device{Serial: "A1"}
	p.Probe(context.Background(), d, bridge.NewFakeMonitor(true, 0))

	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	if p.IsChecking("A1") {
		t.Error("serial should be removed from checking table after success")
	}
}

func TestProbeFailureDropsDevice(t *testing.T) {
	q := queue.New(keyOf)
	p := New(q, time.Second, nil)
	p.Sync = true

	d := &device.Device{Serial: "A1"}
	p.Probe(context.Background(), d, bridge.NewFakeMonitor(false, 0))

	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 on probe failure", q.Len())
	}
	if p.IsChecking("A1") {
		t.Error("serial should be removed from checking table after failure")
	}
}

func TestDuplicateDiscoveryRunsOneProbeOnly(t *testing.T) {
	q := queue.New(keyOf)
	p := New(q, time.Second, nil)

	d := &device.Device{Serial: "B1"}
	monitor := bridge.NewFakeMonitor(true, 30*time.Millisecond)

	p.Probe(context.Background(), d, monitor)
	if !p.IsChecking("B1") {
		t.Fatal("expected B1 to be in the checking table after first Probe")
	}
	p.Probe(context.Background(), d, monitor) // duplicate, ignored

	deadline := time.After(2 * time.Second)
	for q.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for async probe to complete")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (exactly one successful probe)", q.Len())
	}
}
