package runner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFakeRunnerQueuesPerCommand(t *testing.T) {
	r := NewFakeRunner()
	r.QueueResult("adb", Result{Stdout: "connected to 1.2.3.4:5555"}, nil)
	r.QueueResult("fastboot", Result{Stdout: "ABCD1234\tfastboot\n"}, nil)

	got, err := r.RunTimedCmd(context.Background(), time.Second, []string{"adb", "connect", "1.2.3.4:5555"})
	if err != nil {
		t.Fatalf("RunTimedCmd(adb): %v", err)
	}
	if got.Stdout != "connected to 1.2.3.4:5555" {
		t.Errorf("Stdout = %q", got.Stdout)
	}

	got, err = r.RunTimedCmd(context.Background(), time.Second, []string{"fastboot", "devices"})
	if err != nil {
		t.Fatalf("RunTimedCmd(fastboot): %v", err)
	}
	if got.Stdout != "ABCD1234\tfastboot\n" {
		t.Errorf("Stdout = %q", got.Stdout)
	}
}

func TestFakeRunnerPropagatesQueuedError(t *testing.T) {
	r := NewFakeRunner()
	wantErr := errors.New("boom")
	r.QueueResult("adb", Result{}, wantErr)

	_, err := r.RunTimedCmd(context.Background(), time.Second, []string{"adb", "connect", "x"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestFakeRunnerBackgroundProcessLifecycle(t *testing.T) {
	r := NewFakeRunner()
	p, err := r.RunInBackground([]string{"emulator", "-avd", "test"})
	if err != nil {
		t.Fatalf("RunInBackground: %v", err)
	}
	if !p.Alive() {
		t.Error("freshly started process should be alive")
	}
	if err := p.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if p.Alive() {
		t.Error("process should not be alive after Kill")
	}
}
