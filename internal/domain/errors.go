package domain

import "errors"

// Domain errors represent error conditions of the daemon controller.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() finds a live instance.
	ErrAlreadyRunning = errors.New("daemon: already running")

	// ErrNotRunning is returned when Stop() finds no live instance.
	ErrNotRunning = errors.New("daemon: not running")

	// ErrShutdownTimeout is returned when the start task does not return
	// within the grace period after a stop request.
	ErrShutdownTimeout = errors.New("daemon: shutdown timeout")

	// ErrRestartTimeout is returned when the previous instance does not
	// release its pidfile within the restart wait.
	ErrRestartTimeout = errors.New("daemon: timed out waiting for previous instance to exit")

	// ErrSpawnFailed is returned when the background process cannot be created.
	ErrSpawnFailed = errors.New("daemon: unable to start background process")

	// ErrSessionFailed is returned when the background process cannot become
	// a session leader.
	ErrSessionFailed = errors.New("daemon: unable to become session leader")

	// ErrUnsupportedPlatform is returned on systems without POSIX process control.
	ErrUnsupportedPlatform = errors.New("daemon: platform does not support background processes")

	// ErrNoProgramName is returned when the pidfile path cannot be derived
	// because the program name is unknown.
	ErrNoProgramName = errors.New("daemon: program name is required")

	// ErrInvalidPID is returned when a pid is not a positive integer.
	ErrInvalidPID = errors.New("daemon: invalid pid")

	// ErrCallbackPanic wraps the error reported for an event callback that
	// panicked.
	ErrCallbackPanic = errors.New("daemon: event callback panicked")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("daemon: invalid configuration")
)
