// Package filewatch triggers a daemon event when watched files change.
// The usual use is re-reading a configuration file in a running daemon
// without restarting it.
package filewatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/shepherd/pkg/daemon"
	"github.com/bft-labs/shepherd/pkg/log"
)

// DefaultEvent is the event triggered when no Config.Event is set.
const DefaultEvent = "reload"

// Plugin watches files and triggers an event when one of them is written or
// created.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	paths         []string
	event         string
	debounceDelay time.Duration

	// Runtime state
	logger   daemon.Logger
	trigger  func(ctx context.Context, name string) (bool, error)
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the file watch plugin.
type Config struct {
	// Paths are the files to watch. Their directories must exist; the
	// files themselves may be created later.
	Paths []string

	// Event is the event triggered on change.
	// Default: "reload"
	Event string

	// DebounceDelay collapses bursts of changes into one trigger.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults and no paths.
func DefaultConfig() Config {
	return Config{
		Event:         DefaultEvent,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new file watch plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Event == "" {
		cfg.Event = DefaultEvent
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	paths := make([]string, 0, len(cfg.Paths))
	for _, p := range cfg.Paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		paths = append(paths, filepath.Clean(p))
	}

	return &Plugin{
		paths:         paths,
		event:         cfg.Event,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "filewatch"
}

// Initialize starts watching the configured files.
func (p *Plugin) Initialize(ctx context.Context, cfg daemon.PluginConfig) error {
	if cfg.Trigger == nil {
		return errors.New("filewatch: trigger function is required")
	}

	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	p.trigger = cfg.Trigger
	p.mu.Unlock()

	if len(p.paths) == 0 {
		p.logger.Warn("file watcher disabled: no paths configured")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filewatch: create watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for _, path := range p.paths {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("filewatch: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.watcher = watcher
	p.cancel = cancel

	p.logger.Info("file watcher started",
		log.Int("files", len(p.paths)),
		log.Event(p.event))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher and drops a pending trigger.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watched(name string) bool {
	name = filepath.Clean(name)
	for _, path := range p.paths {
		if path == name {
			return true
		}
	}
	return false
}

// watchLoop forwards relevant file events until ctx is canceled.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()
	defer p.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !p.watched(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.logger.Debug("watched file changed",
				log.String("path", event.Name),
				log.String("op", event.Op.String()))
			p.debounceTrigger(ctx)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("file watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceTrigger(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.fire(ctx)
	})
}

func (p *Plugin) fire(ctx context.Context) {
	ran, err := p.trigger(ctx, p.event)
	switch {
	case !ran:
		p.logger.Debug("no callback registered", log.Event(p.event))
	case err != nil:
		fields := []log.Field{log.Event(p.event), log.Err(err)}
		var pe *daemon.PanicError
		if errors.As(err, &pe) {
			fields = append(fields, log.String("stack", string(pe.Stack)))
		}
		p.logger.Error("file change handler failed", fields...)
	default:
		p.logger.Info("file change handled", log.Event(p.event))
	}
}

// Ensure Plugin implements daemon.Plugin.
var _ daemon.Plugin = (*Plugin)(nil)
