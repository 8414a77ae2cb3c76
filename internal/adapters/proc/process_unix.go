//go:build unix

package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/bft-labs/shepherd/internal/domain"
)

// MarkerEnv is set to "1" in the environment of a detached daemon instance.
const MarkerEnv = "SHEPHERD_DAEMON"

// Process implements ports.Process for Unix systems.
type Process struct {
	args  []string
	child bool
}

// NewProcess creates a Process that re-executes the current binary with
// args[1:] when spawning. args[0] is the program name and is ignored; an
// empty args uses os.Args.
//
// The marker variable is consumed here so processes started by the daemon
// do not inherit it.
func NewProcess(args []string) *Process {
	if len(args) == 0 {
		args = os.Args
	}
	child := os.Getenv(MarkerEnv) == "1"
	if child {
		os.Unsetenv(MarkerEnv)
	}
	return &Process{
		args:  append([]string(nil), args...),
		child: child,
	}
}

// Pid returns the current process id.
func (p *Process) Pid() int {
	return unix.Getpid()
}

// IsChild reports whether this process was started by Spawn.
func (p *Process) IsChild() bool {
	return p.child
}

// Spawn re-executes the current binary in the background and returns the
// child's pid. The child keeps the working directory; stdin, stdout and
// stderr are connected to the null device.
func (p *Process) Spawn() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("%w: resolve executable: %v", domain.ErrSpawnFailed, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return 0, fmt.Errorf("%w: working directory: %v", domain.ErrSpawnFailed, err)
	}

	cmd := exec.Command(exe, p.args[1:]...)
	cmd.Dir = wd
	cmd.Env = append(os.Environ(), MarkerEnv+"=1")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSpawnFailed, err)
	}
	pid := cmd.Process.Pid

	// Reap the child if this process outlives it.
	go func() { _ = cmd.Wait() }()

	return pid, nil
}

// Setsid makes the current process the leader of a new session, detaching it
// from the controlling terminal.
func (p *Process) Setsid() error {
	if _, err := unix.Setsid(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionFailed, err)
	}
	return nil
}

// Alive reports whether a process with the given pid exists.
// A process owned by another user (EPERM) counts as alive.
func (p *Process) Alive(pid int) bool {
	return Alive(pid)
}

// Signal delivers sig to pid.
func (p *Process) Signal(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return domain.ErrInvalidPID
	}
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("signal %d: %w", pid, err)
	}
	return nil
}

// Alive reports whether a process with the given pid exists, using a null
// signal.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
