// Package lifecycle provides the daemon state machine.
//
// A daemon instance moves through four states (NotRunning, Starting,
// Running, Stopping). The manager validates transitions, notifies an
// optional EventEmitter, tracks the goroutine running the start task, and
// waits for it with a bounded grace period during shutdown.
//
// # Usage
//
//	manager := lifecycle.NewManager(logger, nil)
//
//	if !manager.CanStart() {
//	    return lifecycle.ErrAlreadyRunning
//	}
//
//	if err := manager.TransitionTo(lifecycle.StateStarting, "start requested"); err != nil {
//	    return err
//	}
//
//	manager.AddWorker()
//	go func() {
//	    defer manager.WorkerDone()
//	    // ... run the start task ...
//	}()
//
//	// Graceful shutdown
//	manager.Cancel()
//	if err := manager.WaitWithTimeout(5 * time.Second); err != nil {
//	    // the task ignored cancellation
//	}
//
// # State Machine
//
// Valid state transitions:
//   - NotRunning -> Starting
//   - Starting -> Running, NotRunning
//   - Running -> Stopping
//   - Stopping -> NotRunning, Running
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package lifecycle
