package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/internal/ports"
	"github.com/bft-labs/shepherd/pkg/lifecycle"
	"github.com/bft-labs/shepherd/pkg/log"
)

// ControllerConfig contains the tunables of the process controller.
type ControllerConfig struct {
	// GracePeriod bounds how long the start task may keep running after a
	// stop request before the daemon exits without it.
	GracePeriod time.Duration

	// RestartWait bounds how long Restart waits for the old instance to
	// exit. Zero disables waiting.
	RestartWait time.Duration

	// ChunkSize is the line capture buffer size. Zero uses the default.
	ChunkSize int
}

// ControllerDeps holds the collaborators of a Controller.
type ControllerDeps struct {
	Registry *Registry
	Store    ports.PIDStore
	Process  ports.Process
	Signals  ports.Signals
	Logger   ports.Logger

	// Out receives user-facing messages such as "Stopping N...".
	Out io.Writer

	// Plugins run inside the detached process.
	Plugins []Plugin

	// Emitter is notified of lifecycle state changes. Optional.
	Emitter lifecycle.EventEmitter
}

// Status is the observable state of the daemon.
type Status struct {
	State lifecycle.State
	PID   int
}

// Running reports whether a live daemon instance exists.
func (s Status) Running() bool {
	return s.PID > 0
}

// Controller owns the daemon state of one program: it detaches a child,
// supervises it through the pidfile, and stops it by signal.
type Controller struct {
	config    ControllerConfig
	registry  *Registry
	store     ports.PIDStore
	proc      ports.Process
	signals   ports.Signals
	logger    ports.Logger
	out       io.Writer
	plugins   []Plugin
	lifecycle *lifecycle.DefaultManager

	mu     sync.Mutex
	daemon domain.DaemonState
}

// NewController creates a controller and loads the pidfile. A stale pidfile
// is removed by the store; a live one puts the controller in StateRunning.
func NewController(cfg ControllerConfig, deps ControllerDeps) (*Controller, error) {
	if deps.Registry == nil || deps.Store == nil || deps.Process == nil || deps.Signals == nil {
		return nil, fmt.Errorf("%w: registry, pid store, process and signals are required", domain.ErrInvalidConfig)
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = lifecycle.DefaultGracePeriod
	}
	if deps.Logger == nil {
		deps.Logger = log.NewNoopLogger()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}

	pid, err := deps.Store.Load()
	if err != nil {
		return nil, err
	}

	initial := lifecycle.StateNotRunning
	if pid > 0 {
		initial = lifecycle.StateRunning
	}

	return &Controller{
		config:    cfg,
		registry:  deps.Registry,
		store:     deps.Store,
		proc:      deps.Process,
		signals:   deps.Signals,
		logger:    deps.Logger,
		out:       deps.Out,
		plugins:   deps.Plugins,
		lifecycle: lifecycle.NewManagerWithState(initial, deps.Logger, deps.Emitter),
		daemon:    domain.DaemonState{PID: pid, PIDFile: deps.Store.Path()},
	}, nil
}

// PID returns the recorded daemon pid, or 0 when none is known.
func (c *Controller) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.daemon.PID
}

// State returns the current lifecycle state.
func (c *Controller) State() lifecycle.State {
	return c.lifecycle.State()
}

// PIDFile returns the pidfile path.
func (c *Controller) PIDFile() string {
	return c.daemon.PIDFile
}

// Daemon returns a snapshot of the tracked instance.
func (c *Controller) Daemon() domain.DaemonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.daemon
}

func (c *Controller) setPID(pid int) {
	c.mu.Lock()
	c.daemon.PID = pid
	c.mu.Unlock()
}

func (c *Controller) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Start detaches a new daemon instance.
//
// In the invoking process it spawns the child, records its pid and returns.
// In the detached child it runs the daemon and only returns once the daemon
// has stopped.
func (c *Controller) Start(ctx context.Context) error {
	if c.proc.IsChild() {
		return c.runChild(ctx)
	}

	// A stop was sent from this process; see whether the old instance is gone.
	if c.lifecycle.State() == lifecycle.StateStopping {
		c.refresh()
	}

	if d := c.Daemon(); d.Running() {
		c.printf("Error: daemon is already running (pid %d)\n", d.PID)
		return domain.ErrAlreadyRunning
	}

	if err := c.lifecycle.TransitionTo(lifecycle.StateStarting, "start requested"); err != nil {
		return err
	}

	pid, err := c.proc.Spawn()
	if err != nil {
		c.printf("Error: unable to start daemon\n")
		c.logger.Error("spawn failed", log.Err(err))
		_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, "spawn failed")
		if !errors.Is(err, domain.ErrSpawnFailed) && !errors.Is(err, domain.ErrUnsupportedPlatform) {
			err = fmt.Errorf("%w: %v", domain.ErrSpawnFailed, err)
		}
		return err
	}

	c.setPID(pid)
	_ = c.lifecycle.TransitionTo(lifecycle.StateRunning, "child spawned")
	c.logger.Debug("daemon spawned", log.Pid(pid))
	return nil
}

// refresh reloads the pid from the pidfile after a stop request.
func (c *Controller) refresh() {
	pid, err := c.store.Load()
	if err != nil {
		c.logger.Warn("failed to reload pidfile", log.Err(err))
		return
	}
	if pid == 0 {
		c.setPID(0)
		c.markNotRunning("pidfile removed")
	}
}

// markNotRunning moves the state machine to NotRunning through valid
// transitions.
func (c *Controller) markNotRunning(reason string) {
	switch c.lifecycle.State() {
	case lifecycle.StateRunning:
		_ = c.lifecycle.TransitionTo(lifecycle.StateStopping, reason)
		_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, reason)
	case lifecycle.StateStarting, lifecycle.StateStopping:
		_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, reason)
	}
}

// Stop asks the running instance to terminate by sending it SIGTERM.
// The instance removes its own pidfile on the way out.
func (c *Controller) Stop() error {
	d := c.Daemon()
	if !d.Running() {
		c.printf("Error: daemon is not running\n")
		return domain.ErrNotRunning
	}
	pid := d.PID

	c.printf("Stopping %d...\n", pid)

	wasRunning := c.lifecycle.State() == lifecycle.StateRunning
	if wasRunning {
		_ = c.lifecycle.TransitionTo(lifecycle.StateStopping, "stop requested")
	}

	if err := c.proc.Signal(pid, syscall.SIGTERM); err != nil {
		c.logger.Error("failed to signal daemon", log.Pid(pid), log.Err(err))
		if wasRunning {
			_ = c.lifecycle.TransitionTo(lifecycle.StateRunning, "signal not delivered")
		}
		return err
	}

	c.logger.Debug("termination signal sent", log.Pid(pid))
	return nil
}

// Restart stops the running instance, if any, and starts a new one.
//
// With RestartWait zero the new start does not wait for the old instance: if
// it has not removed its pidfile yet, Start reports it as already running.
// With RestartWait set, Restart waits up to that long for the pidfile to go
// away and the old process to exit.
func (c *Controller) Restart(ctx context.Context) error {
	pid := c.PID()
	if err := c.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		return err
	}

	if pid != 0 && c.config.RestartWait > 0 {
		if err := c.waitExited(ctx, pid); err != nil {
			c.printf("Error: daemon did not stop within %s\n", c.config.RestartWait)
			return err
		}
		c.setPID(0)
		c.markNotRunning("previous instance exited")
	}

	return c.Start(ctx)
}

// waitExited waits for the pidfile removal and then for pid to exit, both
// within RestartWait.
func (c *Controller) waitExited(ctx context.Context, pid int) error {
	deadline := time.Now().Add(c.config.RestartWait)

	if err := c.store.WaitRemoved(ctx, c.config.RestartWait); err != nil {
		return err
	}

	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	backoff := lifecycle.NewBackoff(lifecycle.DefaultBackoffInitial, lifecycle.DefaultBackoffMax)
	for c.proc.Alive(pid) {
		if err := backoff.Wait(waitCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return domain.ErrRestartTimeout
			}
			return err
		}
	}
	return nil
}

// Status reports whether a daemon instance is alive and prints a one-line
// summary. No callback is run.
func (c *Controller) Status() Status {
	pid, err := c.store.Load()
	if err != nil {
		c.logger.Warn("failed to read pidfile", log.Err(err))
		pid = c.PID()
	}

	// A freshly spawned child may not have written its pidfile yet.
	if known := c.PID(); pid == 0 && known != 0 && c.proc.Alive(known) {
		pid = known
	}

	if pid == 0 {
		c.setPID(0)
		c.markNotRunning("no live process")
		c.printf("Daemon is not running\n")
		return Status{State: lifecycle.StateNotRunning}
	}

	c.setPID(pid)
	c.printf("Daemon is running (pid %d)\n", pid)
	state := c.lifecycle.State()
	if state == lifecycle.StateNotRunning {
		state = lifecycle.StateRunning
	}
	return Status{State: state, PID: pid}
}

// runChild is the detached side of Start.
func (c *Controller) runChild(ctx context.Context) error {
	if err := c.proc.Setsid(); err != nil {
		c.printf("Error: unable to make child process the session leader\n")
		c.logger.Error("setsid failed", log.Err(err))
		return err
	}

	self := c.proc.Pid()
	if other := c.PID(); other != 0 && other != self {
		c.logger.Error("daemon is already running", log.Pid(other))
		return domain.ErrAlreadyRunning
	}
	if c.lifecycle.State() == lifecycle.StateRunning {
		// The pidfile already names this process.
		c.markNotRunning("pidfile names this process")
	}

	if err := c.lifecycle.TransitionTo(lifecycle.StateStarting, "detached"); err != nil {
		return err
	}

	// Relay termination before the pidfile makes this process visible.
	sigCh := c.signals.Notify()
	defer c.signals.Stop()

	if err := c.store.Write(self); err != nil {
		c.logger.Error("failed to write pidfile", log.String("path", c.daemon.PIDFile), log.Err(err))
		_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, "pidfile write failed")
		return err
	}
	c.setPID(self)

	capture := log.NewLineWriter(c.logger)
	if c.config.ChunkSize > 0 {
		capture.SetChunkSize(c.config.ChunkSize)
	}
	outCtx := WithOutput(ctx, capture)

	c.logger.Info("starting daemon", log.Pid(self))

	pluginCtx, cancelPlugins := context.WithCancel(outCtx)
	defer cancelPlugins()
	started, err := c.initPlugins(pluginCtx)
	if err != nil {
		c.shutdownPlugins(outCtx, started)
		capture.Flush()
		c.removePIDFile()
		_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, "plugin init failed")
		return err
	}

	runCtx, cancel := context.WithCancel(outCtx)
	defer cancel()
	c.lifecycle.SetCancel(cancel)

	done := make(chan error, 1)
	c.lifecycle.AddWorker()
	go func() {
		defer c.lifecycle.WorkerDone()
		_, err := c.registry.Trigger(runCtx, domain.EventStart)
		done <- err
	}()

	_ = c.lifecycle.TransitionTo(lifecycle.StateRunning, "start task running")

	select {
	case sig := <-sigCh:
		return c.shutdown(outCtx, "received "+sig.String(), capture, started)
	case <-ctx.Done():
		return c.shutdown(outCtx, "context done", capture, started)
	case err := <-done:
		if ctx.Err() != nil {
			return c.shutdown(outCtx, "context done", capture, started)
		}
		return c.finish(outCtx, err, capture, started)
	}
}

// shutdown is the termination path of a running child: the stop event runs
// to completion and the pidfile is removed before returning.
func (c *Controller) shutdown(ctx context.Context, reason string, capture *log.LineWriter, plugins []Plugin) error {
	_ = c.lifecycle.TransitionTo(lifecycle.StateStopping, reason)
	c.lifecycle.Cancel()

	stopCtx := context.WithoutCancel(ctx)
	_, stopErr := c.registry.Trigger(stopCtx, domain.EventStop)
	if stopErr != nil {
		logEventError(c.logger, "stop task failed", domain.EventStop, stopErr)
	}

	// On timeout the start task is abandoned; the warning is logged by the manager.
	_ = c.lifecycle.WaitWithTimeout(c.config.GracePeriod)

	c.shutdownPlugins(stopCtx, plugins)
	capture.Flush()
	c.logger.Info("stopping daemon", log.Pid(c.PID()), log.String("reason", reason))
	c.removePIDFile()
	_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, "stopped")
	return stopErr
}

// finish handles a start task that returned without a stop request.
func (c *Controller) finish(ctx context.Context, taskErr error, capture *log.LineWriter, plugins []Plugin) error {
	_ = c.lifecycle.TransitionTo(lifecycle.StateStopping, "start task returned")
	c.lifecycle.Cancel()

	if taskErr != nil {
		logEventError(c.logger, "start task failed", domain.EventStart, taskErr)
	}

	c.shutdownPlugins(ctx, plugins)
	capture.Flush()
	c.logger.Info("stopping daemon", log.Pid(c.PID()), log.String("reason", "start task returned"))
	c.removePIDFile()
	_ = c.lifecycle.TransitionTo(lifecycle.StateNotRunning, "stopped")
	return taskErr
}

// logEventError logs a failed event, with the stack trace when it panicked.
func logEventError(logger ports.Logger, msg, event string, err error) {
	fields := []log.Field{log.Event(event), log.Err(err)}
	var pe *PanicError
	if errors.As(err, &pe) {
		fields = append(fields, log.String("stack", string(pe.Stack)))
	}
	logger.Error(msg, fields...)
}

func (c *Controller) removePIDFile() {
	if err := c.store.Remove(); err != nil {
		c.logger.Error("failed to remove pidfile", log.String("path", c.daemon.PIDFile), log.Err(err))
	}
	c.setPID(0)
}

// initPlugins initializes plugins in order and returns those that started.
func (c *Controller) initPlugins(ctx context.Context) ([]Plugin, error) {
	cfg := PluginConfig{
		Logger:  c.logger,
		PIDFile: c.daemon.PIDFile,
		Trigger: c.registry.Trigger,
	}

	started := make([]Plugin, 0, len(c.plugins))
	for _, p := range c.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			c.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return started, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		c.logger.Info("plugin initialized", log.String("plugin", p.Name()))
		started = append(started, p)
	}
	return started, nil
}

// shutdownPlugins shuts plugins down in reverse order.
func (c *Controller) shutdownPlugins(ctx context.Context, plugins []Plugin) {
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			c.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			continue
		}
		c.logger.Debug("plugin shut down", log.String("plugin", p.Name()))
	}
}
