package bootloader

import (
	"sync"
	"testing"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/handle"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/registry"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/runner"
)

type recordingListener struct {
	mu      sync.Mutex
	updates []string
}

func (r *recordingListener) StateUpdated(serial string, state device.RuntimeState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, serial+":"+state.String())
}

func (r *recordingListener) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func TestMonitorDisabledUntilListenerRegistered(t *testing.T) {
	reg := registry.New[*handle.Handle]()
	r := runner.NewFakeRunner()
	m := New(reg, r, 5*time.Millisecond, nil)
	defer m.Stop()

	time.Sleep(30 * time.Millisecond)
	// no listener registered: queryVisibleSerials must never have run,
	// so no fastboot response was consumed and none is queued either;
	// the observable proxy here is that the loop was never started.
	if m.running {
		t.Error("monitor should not be running before any listener is added")
	}
}

func TestMonitorTransitionsIntoAndOutOfBootloader(t *testing.T) {
	reg := registry.New[*handle.Handle]()
	h := handle.New(&device.Device{Serial: "D1", Runtime: device.Online})
	reg.Insert("D1", h)

	r := runner.NewFakeRunner()
	r.QueueResult("fastboot", runner.Result{Stdout: "D1\tfastboot\n"}, nil)
	r.QueueResult("fastboot", runner.Result{Stdout: ""}, nil)

	m := New(reg, r, 5*time.Millisecond, nil)
	defer m.Stop()

	l := &recordingListener{}
	m.AddListener(l)

	deadline := time.After(2 * time.Second)
	for h.RuntimeState() != device.RuntimeBootloader {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for Bootloader transition")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	for h.RuntimeState() != device.NotAvailable {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for NotAvailable transition")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if l.count() < 2 {
		t.Errorf("listener received %d updates, want at least 2", l.count())
	}
}
