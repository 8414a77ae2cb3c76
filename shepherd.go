// Package shepherd turns a long-running Go task into a Unix daemon that is
// controlled from the command line with start, stop, status and help.
//
// Example usage:
//
//	svc, err := shepherd.New(shepherd.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.On("start", func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	})
//	os.Exit(svc.Run(context.Background(), nil))
package shepherd

import (
	"context"
	"io"

	"github.com/bft-labs/shepherd/pkg/daemon"
)

// Config holds the configuration of a daemon.
// Zero values are derived from the program name by New.
type Config = daemon.Config

// Service is a daemon controller bound to one program.
type Service = daemon.Service

// Option configures optional behavior of a Service.
type Option = daemon.Option

// Callback is the body of an event.
type Callback = daemon.Callback

// Status is the observable daemon state.
type Status = daemon.Status

// New creates a Service for the current program.
func New(cfg Config, opts ...Option) (*Service, error) {
	return daemon.New(cfg, opts...)
}

// Output returns the writer callbacks should print to.
func Output(ctx context.Context) io.Writer {
	return daemon.Output(ctx)
}

// Exit codes returned by Service.Run.
const (
	ExitOK         = daemon.ExitOK
	ExitFailure    = daemon.ExitFailure
	ExitNotRunning = daemon.ExitNotRunning
)
