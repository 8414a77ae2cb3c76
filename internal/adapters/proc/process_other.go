//go:build !unix

package proc

import (
	"os"
	"syscall"

	"github.com/bft-labs/shepherd/internal/domain"
)

// MarkerEnv is set to "1" in the environment of a detached daemon instance.
const MarkerEnv = "SHEPHERD_DAEMON"

// Process reports ErrUnsupportedPlatform for every detaching operation.
type Process struct{}

// NewProcess creates a Process.
func NewProcess(args []string) *Process {
	return &Process{}
}

func (p *Process) Pid() int      { return os.Getpid() }
func (p *Process) IsChild() bool { return false }

func (p *Process) Spawn() (int, error) { return 0, domain.ErrUnsupportedPlatform }
func (p *Process) Setsid() error       { return domain.ErrUnsupportedPlatform }
func (p *Process) Alive(pid int) bool  { return Alive(pid) }

func (p *Process) Signal(pid int, sig syscall.Signal) error {
	return domain.ErrUnsupportedPlatform
}

// Alive always reports false on unsupported platforms.
func Alive(pid int) bool { return false }
