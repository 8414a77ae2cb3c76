package filewatch

import "github.com/bft-labs/shepherd/pkg/daemon"

// WithFileWatch returns a daemon Option that triggers cfg.Event whenever one
// of cfg.Paths is written.
//
// Usage:
//
//	svc, err := daemon.New(cfg,
//	    filewatch.WithFileWatch(filewatch.Config{
//	        Paths: []string{"/etc/mydaemon.toml"},
//	        Event: "reload",
//	    }),
//	)
func WithFileWatch(cfg Config) daemon.Option {
	return daemon.WithPlugin(New(cfg))
}
