package ports

import (
	"context"
	"time"
)

// PIDStore persists the process id of the running daemon instance.
// The pidfile is the only coordination point between invocations.
type PIDStore interface {
	// Path returns the pidfile location.
	Path() string

	// Load returns the pid of a live daemon, or 0 when none is recorded.
	// A file whose content is not a positive integer, or whose process is
	// no longer alive, is removed and reported as 0.
	Load() (int, error)

	// Write replaces the pidfile content with the decimal pid, atomically.
	Write(pid int) error

	// Remove deletes the pidfile. A missing file is not an error.
	Remove() error

	// WaitRemoved blocks until the pidfile no longer exists.
	// Returns domain.ErrRestartTimeout if timeout expires first.
	WaitRemoved(ctx context.Context, timeout time.Duration) error
}
