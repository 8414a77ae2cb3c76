package daemon

import (
	"io"

	"github.com/bft-labs/shepherd/pkg/lifecycle"
)

// Option configures optional behavior of a Service.
type Option func(*options)

// options holds the optional configuration for a Service.
type options struct {
	logger  Logger
	args    []string
	stdout  io.Writer
	plugins []Plugin
	restart bool
	emitter lifecycle.EventEmitter
	process Process
	signals Signals
	store   PIDStore
}

// WithLogger sets the logger. Captured callback output is logged at debug
// level, lifecycle milestones at info.
// If not provided, a rotating file logger writing Config.LogFile is used.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithArgs sets the command line the daemon was invoked with. args[0] names
// the program (pidfile and help text); the full list is passed to the
// detached child. Default: os.Args.
func WithArgs(args []string) Option {
	return func(o *options) {
		o.args = append([]string(nil), args...)
	}
}

// WithStdout sets where user-facing messages and the help text are written.
// Default: os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithPlugin registers a plugin to be initialized when the daemon starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithRestartCommand enables the "restart" command and lists it in the help
// text.
func WithRestartCommand() Option {
	return func(o *options) {
		o.restart = true
	}
}

// WithStateHandler receives lifecycle state changes of this process.
// Calls are synchronous; implementations should return quickly.
func WithStateHandler(h StateHandler) Option {
	return func(o *options) {
		o.emitter = h
	}
}

// WithProcess replaces the process implementation. Intended for tests.
func WithProcess(p Process) Option {
	return func(o *options) {
		o.process = p
	}
}

// WithSignals replaces the signal source. Intended for tests.
func WithSignals(s Signals) Option {
	return func(o *options) {
		o.signals = s
	}
}

// WithPIDStore replaces the pidfile store. Config.PIDFile is ignored.
func WithPIDStore(s PIDStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// StateHandler is notified of lifecycle state changes.
type StateHandler interface {
	OnStateChange(previous, current State, reason string)
}

// StateHandlerFunc adapts a function to StateHandler.
type StateHandlerFunc func(previous, current State, reason string)

// OnStateChange calls f.
func (f StateHandlerFunc) OnStateChange(previous, current State, reason string) {
	f(previous, current, reason)
}
