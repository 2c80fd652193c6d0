package runner

import (
	"context"
	"sync"
	"time"
)

// FakeRunner is a scriptable Runner test double. Responses are queued
// per-argv-prefix; RunTimedCmd pops the next queued Result for the
// command's first argument (e.g. "fastboot", "adb").
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse
	processes []*FakeProcess
}

type fakeResponse struct {
	result Result
	err    error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]fakeResponse)}
}

// QueueResult arranges for the next RunTimedCmd call whose argv[0]
// equals cmd to return result, err.
func (f *FakeRunner) QueueResult(cmd string, result Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = append(f.responses[cmd], fakeResponse{result, err})
}

func (f *FakeRunner) RunTimedCmd(ctx context.Context, timeout time.Duration, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errEmptyArgv
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	queue := f.responses[argv[0]]
	if len(queue) == 0 {
		return Result{}, nil
	}
	next := queue[0]
	f.responses[argv[0]] = queue[1:]
	return next.result, next.err
}

func (f *FakeRunner) RunInBackground(argv []string) (Process, error) {
	p := &FakeProcess{alive: true, pid: 1000 + len(f.processes)}
	f.mu.Lock()
	f.processes = append(f.processes, p)
	f.mu.Unlock()
	return p, nil
}

func (f *FakeRunner) Sleep(ctx context.Context, d time.Duration) error {
	return nil
}

// FakeProcess is a scriptable Process test double.
type FakeProcess struct {
	mu        sync.Mutex
	alive     bool
	pid       int
	killed    bool
	destroyed bool
}

func (p *FakeProcess) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *FakeProcess) Pid() (int, bool) { return p.pid, true }

func (p *FakeProcess) Wait() error { return nil }

func (p *FakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	p.alive = false
	return nil
}

// SetAlive lets a test script the process's liveness over time.
func (p *FakeProcess) SetAlive(alive bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = alive
}

// Killed reports whether Kill was called.
func (p *FakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}
