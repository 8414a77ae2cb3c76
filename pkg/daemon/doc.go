// Package daemon turns a long-running task into a Unix background daemon.
//
// A Service dispatches a single command-line token: "start" detaches a
// background instance and records its pid in a pidfile, "stop" sends that
// instance SIGTERM, "status" reports whether it is alive and "help" lists
// every command. Any other token runs the callback registered under that name.
//
// # Basic Usage
//
//	svc, err := daemon.New(daemon.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	svc.On("start", func(ctx context.Context) error {
//	    ticker := time.NewTicker(time.Second)
//	    defer ticker.Stop()
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case <-ticker.C:
//	            fmt.Fprintln(daemon.Output(ctx), "Doing a daemon task")
//	        }
//	    }
//	})
//	svc.On("stop", func(ctx context.Context) error {
//	    fmt.Fprintln(daemon.Output(ctx), "Daemon Stopping...")
//	    return nil
//	})
//
//	os.Exit(svc.Run(context.Background(), os.Args))
//
// # Detaching
//
// Go cannot fork a running program, so "start" re-executes the current
// binary with the same arguments and a marker environment variable. The
// re-executed process becomes a session leader, writes its own pid to the
// pidfile, runs the "start" callback and waits for SIGTERM. On SIGTERM the
// start callback's context is canceled, "stop" runs to completion, and the
// pidfile is removed before the process exits.
//
// Embedding programs must therefore reach Run (or Start) with the same
// registrations in the re-executed process, typically by calling it from
// main.
//
// # Output
//
// Inside the daemon, text written to Output(ctx) is split into lines and
// logged at debug level. For custom events run from a terminal it goes to
// the Service's stdout.
//
// # Exit Codes
//
// Run returns ExitOK on success, ExitFailure when the daemon is already
// running, not running, cannot be detached or a callback fails, and
// ExitNotRunning (3) from "status" when no instance is alive.
package daemon
