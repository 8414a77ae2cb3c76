package daemon

import (
	"github.com/bft-labs/shepherd/internal/app"
	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/internal/ports"
	"github.com/bft-labs/shepherd/pkg/lifecycle"
	"github.com/bft-labs/shepherd/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// Callback is the body of an event. The context is canceled when the daemon
// is asked to stop; Output(ctx) returns the writer for user output.
type Callback = app.Callback

// Status is the observable daemon state returned by Service.Status.
type Status = app.Status

// State is the lifecycle state of a daemon instance.
type State = lifecycle.State

// Lifecycle states.
const (
	StateNotRunning = lifecycle.StateNotRunning
	StateStarting   = lifecycle.StateStarting
	StateRunning    = lifecycle.StateRunning
	StateStopping   = lifecycle.StateStopping
)

// PanicError is returned by Trigger when a callback panicked. It carries the
// recovered value and the stack of the panicking goroutine.
type PanicError = app.PanicError

// Plugin extends a running daemon. See WithPlugin.
type Plugin = app.Plugin

// PluginConfig is passed to plugins during initialization.
type PluginConfig = app.PluginConfig

// Process abstracts process detachment, liveness checks and signaling.
type Process = ports.Process

// Signals delivers termination signals to a running daemon.
type Signals = ports.Signals

// PIDStore persists the pid of the running daemon.
type PIDStore = ports.PIDStore

// Built-in event names.
const (
	EventStart   = domain.EventStart
	EventStatus  = domain.EventStatus
	EventStop    = domain.EventStop
	EventHelp    = domain.EventHelp
	EventRestart = domain.EventRestart
)

// Exit codes returned by Service.Run.
const (
	ExitOK         = app.ExitOK
	ExitFailure    = app.ExitFailure
	ExitNotRunning = app.ExitNotRunning
)

// Errors returned by Service methods. Check with errors.Is.
var (
	ErrAlreadyRunning      = domain.ErrAlreadyRunning
	ErrNotRunning          = domain.ErrNotRunning
	ErrSpawnFailed         = domain.ErrSpawnFailed
	ErrSessionFailed       = domain.ErrSessionFailed
	ErrRestartTimeout      = domain.ErrRestartTimeout
	ErrUnsupportedPlatform = domain.ErrUnsupportedPlatform
	ErrNoProgramName       = domain.ErrNoProgramName
	ErrInvalidConfig       = domain.ErrInvalidConfig
	ErrCallbackPanic       = domain.ErrCallbackPanic
)
