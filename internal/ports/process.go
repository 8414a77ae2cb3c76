package ports

import (
	"os"
	"syscall"
)

// Process abstracts the operating system process facilities the controller
// needs to detach itself and to signal a running instance.
type Process interface {
	// Pid returns the current process id.
	Pid() int

	// IsChild reports whether this process is the detached daemon instance.
	IsChild() bool

	// Spawn starts a detached copy of the current program and returns its pid.
	Spawn() (int, error)

	// Setsid makes the current process a session leader.
	Setsid() error

	// Alive reports whether a process with the given pid exists.
	Alive(pid int) bool

	// Signal delivers sig to the process with the given pid.
	Signal(pid int, sig syscall.Signal) error
}

// Signals delivers termination requests to the running daemon.
type Signals interface {
	// Notify starts delivery and returns the channel signals arrive on.
	Notify() <-chan os.Signal

	// Stop ends delivery. Later signals fall back to the default action.
	Stop()
}
