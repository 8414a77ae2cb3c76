package app

import (
	"bytes"
	"context"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/pkg/log"
)

// memStore is an in-memory ports.PIDStore.
type memStore struct {
	mu      sync.Mutex
	pid     int
	exists  bool
	alive   func(int) bool
	writes  []int
	removed int
	// onWait runs when WaitRemoved is called.
	onWait func()
}

func (s *memStore) Path() string { return "/run/test.pid" }

func (s *memStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return 0, nil
	}
	if s.pid > 0 && s.alive != nil && s.alive(s.pid) {
		return s.pid, nil
	}
	s.exists = false
	s.pid = 0
	return 0, nil
}

func (s *memStore) Write(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid = pid
	s.exists = true
	s.writes = append(s.writes, pid)
	return nil
}

func (s *memStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exists = false
	s.pid = 0
	s.removed++
	return nil
}

func (s *memStore) WaitRemoved(ctx context.Context, timeout time.Duration) error {
	if s.onWait != nil {
		s.onWait()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists {
		return domain.ErrRestartTimeout
	}
	return nil
}

func (s *memStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

// fakeProcess is a scripted ports.Process.
type fakeProcess struct {
	mu        sync.Mutex
	self      int
	child     bool
	spawnPID  int
	spawnErr  error
	setsid    error
	signalErr error
	live      map[int]bool
	spawned   int
	signals   []int
	// onSignal runs after a signal is recorded.
	onSignal func(pid int)
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{self: 100, spawnPID: 200, live: map[int]bool{100: true}}
}

func (p *fakeProcess) Pid() int      { return p.self }
func (p *fakeProcess) IsChild() bool { return p.child }
func (p *fakeProcess) Setsid() error { return p.setsid }

func (p *fakeProcess) Spawn() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spawnErr != nil {
		return 0, p.spawnErr
	}
	p.spawned++
	p.live[p.spawnPID] = true
	return p.spawnPID, nil
}

func (p *fakeProcess) Alive(pid int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live[pid]
}

func (p *fakeProcess) SetAlive(pid int, alive bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live[pid] = alive
}

func (p *fakeProcess) Signal(pid int, sig syscall.Signal) error {
	p.mu.Lock()
	if p.signalErr != nil {
		p.mu.Unlock()
		return p.signalErr
	}
	p.signals = append(p.signals, pid)
	hook := p.onSignal
	p.mu.Unlock()
	if hook != nil {
		hook(pid)
	}
	return nil
}

func (p *fakeProcess) Signaled() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.signals...)
}

func (p *fakeProcess) Spawned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spawned
}

// fakeSignals delivers signals sent with Send.
type fakeSignals struct {
	ch      chan os.Signal
	stopped bool
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{ch: make(chan os.Signal, 1)}
}

func (s *fakeSignals) Notify() <-chan os.Signal { return s.ch }
func (s *fakeSignals) Stop()                    { s.stopped = true }
func (s *fakeSignals) Send()                    { s.ch <- syscall.SIGTERM }

// recordingLogger keeps messages in order.
type recordingLogger struct {
	log.NoopLogger
	mu    sync.Mutex
	lines []string
	debug []string
	errs  []recordedError
}

type recordedError struct {
	msg    string
	fields map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := recordedError{msg: msg, fields: make(map[string]interface{}, len(fields))}
	for _, f := range fields {
		rec.fields[f.Key] = f.Value
	}
	r.errs = append(r.errs, rec)
}

func (r *recordingLogger) Errors() []recordedError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedError(nil), r.errs...)
}

func (r *recordingLogger) Debug(msg string, fields ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = append(r.debug, msg)
}

func (r *recordingLogger) Info(msg string, fields ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

func (r *recordingLogger) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recordingLogger) Debugs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.debug...)
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	registry *Registry
	store    *memStore
	proc     *fakeProcess
	signals  *fakeSignals
	logger   *recordingLogger
	out      *syncBuffer
}

func newHarness() *harness {
	proc := newFakeProcess()
	return &harness{
		registry: NewRegistry(),
		store:    &memStore{alive: proc.Alive},
		proc:     proc,
		signals:  newFakeSignals(),
		logger:   &recordingLogger{},
		out:      &syncBuffer{},
	}
}

func (h *harness) controller(cfg ControllerConfig, plugins ...Plugin) (*Controller, error) {
	return NewController(cfg, ControllerDeps{
		Registry: h.registry,
		Store:    h.store,
		Process:  h.proc,
		Signals:  h.signals,
		Logger:   h.logger,
		Out:      h.out,
		Plugins:  plugins,
	})
}
