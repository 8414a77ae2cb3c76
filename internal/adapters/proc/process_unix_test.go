//go:build unix

package proc

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/shepherd/internal/domain"
)

func TestAlive(t *testing.T) {
	assert.True(t, Alive(os.Getpid()))
	assert.False(t, Alive(0))
	assert.False(t, Alive(-1))
}

func TestAlive_ExitedProcess(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	// A reaped process id is no longer alive.
	assert.False(t, Alive(cmd.ProcessState.Pid()))
}

func TestProcess_Signal(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())

	p := NewProcess([]string{"test"})
	require.True(t, p.Alive(cmd.Process.Pid))
	require.NoError(t, p.Signal(cmd.Process.Pid, syscall.SIGTERM))

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr))
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process did not exit after SIGTERM")
	}
}

func TestProcess_SignalInvalidPID(t *testing.T) {
	p := NewProcess([]string{"test"})

	assert.ErrorIs(t, p.Signal(0, syscall.SIGTERM), domain.ErrInvalidPID)
}

func TestProcess_Pid(t *testing.T) {
	p := NewProcess(nil)

	assert.Equal(t, os.Getpid(), p.Pid())
	assert.Equal(t, os.Args, p.args)
}

func TestNewProcess_ConsumesMarker(t *testing.T) {
	t.Setenv(MarkerEnv, "1")

	p := NewProcess([]string{"test"})

	assert.True(t, p.IsChild())
	_, set := os.LookupEnv(MarkerEnv)
	assert.False(t, set, "marker must not leak to processes the daemon starts")
}

func TestNewProcess_NoMarker(t *testing.T) {
	t.Setenv(MarkerEnv, "")

	assert.False(t, NewProcess([]string{"test"}).IsChild())
}

func TestSignals_Relay(t *testing.T) {
	s := NewSignals(syscall.SIGUSR1)
	ch := s.Notify()
	defer s.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case sig := <-ch:
		assert.Equal(t, syscall.SIGUSR1, sig)
	case <-time.After(5 * time.Second):
		t.Fatal("signal not relayed")
	}
}
