package daemon

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/shepherd/internal/adapters/fs"
	"github.com/bft-labs/shepherd/internal/adapters/proc"
	"github.com/bft-labs/shepherd/internal/app"
	"github.com/bft-labs/shepherd/pkg/lifecycle"
	"github.com/bft-labs/shepherd/pkg/log"
)

// Service turns a long-running task into a background daemon controlled by
// commands. Use New to create one, register callbacks with On, then hand the
// command line to Run.
type Service struct {
	config     Config
	args       []string
	registry   *app.Registry
	controller *app.Controller
	dispatcher *app.Dispatcher
	logger     Logger
	closer     io.Closer
}

// New creates a Service. The pidfile is read immediately: a pidfile naming a
// dead process is removed.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := options{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.args) == 0 {
		o.args = append([]string(nil), os.Args...)
	}

	if err := cfg.SetDefaults(o.args[0]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	var closer io.Closer
	if logger == nil {
		fileLogger, c, err := log.NewFileLogger(log.DefaultFileConfig(cfg.LogFile))
		if err != nil {
			return nil, err
		}
		logger, closer = fileLogger, c
	}

	process := o.process
	if process == nil {
		process = proc.NewProcess(o.args)
	}
	signals := o.signals
	if signals == nil {
		signals = proc.NewSignals()
	}
	store := o.store
	if store == nil {
		store = fs.NewPIDFile(cfg.PIDFile, process.Alive, logger)
	}

	registry := app.NewRegistry()
	controller, err := app.NewController(app.ControllerConfig{
		GracePeriod: cfg.GracePeriod,
		RestartWait: cfg.RestartWait,
		ChunkSize:   cfg.ChunkSize,
	}, app.ControllerDeps{
		Registry: registry,
		Store:    store,
		Process:  process,
		Signals:  signals,
		Logger:   logger,
		Out:      o.stdout,
		Plugins:  o.plugins,
		Emitter:  o.emitter,
	})
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	return &Service{
		config:     cfg,
		args:       o.args,
		registry:   registry,
		controller: controller,
		dispatcher: app.NewDispatcher(controller, registry, logger, o.stdout, o.restart),
		logger:     logger,
		closer:     closer,
	}, nil
}

// On registers cb for the named event. The description shown by help is only
// changed when one is given.
//
// "start" runs inside the detached daemon for its whole lifetime; "stop" runs
// there when a termination signal arrives. Any other name can be triggered
// from the command line.
func (s *Service) On(name string, cb Callback, description ...string) {
	s.registry.On(name, cb, description...)
}

// Describe sets the help description of an event, keeping its callback.
func (s *Service) Describe(name, description string) {
	s.registry.Describe(name, description)
}

// Trigger runs the callback registered for name and reports whether one ran.
func (s *Service) Trigger(ctx context.Context, name string) (bool, error) {
	return s.registry.Trigger(ctx, name)
}

// Start detaches a daemon instance. In the detached instance itself, Start
// runs the daemon and returns once it has stopped.
func (s *Service) Start(ctx context.Context) error {
	return s.controller.Start(ctx)
}

// Stop sends a termination signal to the running instance.
func (s *Service) Stop() error {
	return s.controller.Stop()
}

// Restart stops the running instance and starts a new one.
func (s *Service) Restart(ctx context.Context) error {
	return s.controller.Restart(ctx)
}

// Status prints and returns whether an instance is running.
func (s *Service) Status() Status {
	return s.controller.Status()
}

// State returns the lifecycle state as seen by this process.
func (s *Service) State() State {
	return s.controller.State()
}

// PIDFile returns the pidfile path.
func (s *Service) PIDFile() string {
	return s.controller.PIDFile()
}

// Help prints the usage text.
func (s *Service) Help() {
	s.dispatcher.Help(s.args[0])
}

// Run dispatches the command in args[1] and returns the process exit code.
// A nil args uses the command line given to New.
func (s *Service) Run(ctx context.Context, args []string) int {
	if args == nil {
		args = s.args
	}
	return s.dispatcher.Run(ctx, args)
}

// Close releases the default logger's file.
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Output returns the writer callbacks should print to. In the detached
// daemon, each line written is logged at debug level; for commands run from
// the terminal it is the Service's stdout.
func Output(ctx context.Context) io.Writer {
	return app.Output(ctx)
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"log":       {log.Version, log.MinCompatibleVersion},
		"lifecycle": {lifecycle.Version, lifecycle.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
