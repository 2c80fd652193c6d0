package handle

import (
	"errors"
	"testing"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/device"
	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
)

func TestNewAssignsUniqueID(t *testing.T) {
	h1 := New(&device.Device{Serial: "A1"})
	h2 := New(&device.Device{Serial: "A1"})
	if h1.ID() == h2.ID() {
		t.Error("two handles should not share a session ID")
	}
}

func TestSetRuntimeStateIsVisibleThroughDevice(t *testing.T) {
	h := New(&device.Device{Serial: "A1", Runtime: device.Online})
	h.SetRuntimeState(device.NotAvailable)
	if h.RuntimeState() != device.NotAvailable {
		t.Errorf("RuntimeState() = %v, want NotAvailable", h.RuntimeState())
	}
	if h.Device().Runtime != device.NotAvailable {
		t.Error("Device() snapshot did not reflect SetRuntimeState")
	}
}

func TestCheckAbortedOnlyAfterAbortPolicy(t *testing.T) {
	h := New(&device.Device{Serial: "A1"})
	if err := h.CheckAborted(); err != nil {
		t.Fatalf("CheckAborted before abort policy: %v", err)
	}
	h.SetRecoveryPolicy(RecoveryAbort)
	err := h.CheckAborted()
	if err == nil {
		t.Fatal("expected error after RecoveryAbort")
	}
	if poolerrors.ClassifyOf(err) != poolerrors.Cancelled {
		t.Errorf("kind = %v, want Cancelled", poolerrors.ClassifyOf(err))
	}
	if !errors.Is(err, err) {
		t.Error("sanity: err should be itself")
	}
}
