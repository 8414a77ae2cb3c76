package fs

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/pkg/log"
)

// recheckInterval bounds how long a missed fsnotify event can delay WaitRemoved.
const recheckInterval = 100 * time.Millisecond

// WaitRemoved blocks until the pidfile no longer exists, the timeout expires
// (domain.ErrRestartTimeout) or ctx is done (ctx.Err()).
func (f *PIDFile) WaitRemoved(ctx context.Context, timeout time.Duration) error {
	if !f.exists() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var events chan fsnotify.Event
	var errs chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.logger.Warn("pidfile watch unavailable, polling",
			log.Err(err),
		)
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(f.path)); err != nil {
			f.logger.Warn("pidfile watch unavailable, polling",
				log.String("path", f.path),
				log.Err(err),
			)
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	// The file may have gone between the first check and the watch.
	if !f.exists() {
		return nil
	}

	ticker := time.NewTicker(recheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if !f.exists() {
				return nil
			}
			if ctx.Err() == context.DeadlineExceeded {
				return domain.ErrRestartTimeout
			}
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && !f.exists() {
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			f.logger.Debug("pidfile watch error", log.Err(err))

		case <-ticker.C:
			if !f.exists() {
				return nil
			}
		}
	}
}
