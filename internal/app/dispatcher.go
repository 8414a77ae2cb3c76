package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/internal/ports"
	"github.com/bft-labs/shepherd/pkg/log"
)

// Process exit codes returned by Dispatcher.Run.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitNotRunning = 3
)

// Dispatcher maps a command token to a controller action or an event.
type Dispatcher struct {
	controller *Controller
	registry   *Registry
	logger     ports.Logger
	out        io.Writer
	restart    bool
}

// NewDispatcher creates a dispatcher. When restart is true the "restart"
// token restarts the daemon and is listed in the help text.
func NewDispatcher(controller *Controller, registry *Registry, logger ports.Logger, out io.Writer, restart bool) *Dispatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if out == nil {
		out = io.Discard
	}
	if restart && !registry.Has(domain.EventRestart) {
		registry.Describe(domain.EventRestart, domain.RestartDescription)
	}
	return &Dispatcher{
		controller: controller,
		registry:   registry,
		logger:     logger,
		out:        out,
		restart:    restart,
	}
}

// Run executes the command named by args[1] and returns the process exit
// code. args[0] is the program name used in the help text. A missing or
// empty command runs help.
func (d *Dispatcher) Run(ctx context.Context, args []string) int {
	prog := ""
	if len(args) > 0 {
		prog = args[0]
	}
	token := domain.EventHelp
	if len(args) > 1 && args[1] != "" {
		token = args[1]
	}

	switch token {
	case domain.EventStart:
		return exitCode(d.controller.Start(ctx))
	case domain.EventStatus:
		if !d.controller.Status().Running() {
			return ExitNotRunning
		}
		return ExitOK
	case domain.EventStop:
		return exitCode(d.controller.Stop())
	case domain.EventHelp:
		d.Help(prog)
		return ExitOK
	case domain.EventRestart:
		if d.restart {
			return exitCode(d.controller.Restart(ctx))
		}
	}

	return d.trigger(ctx, token)
}

func (d *Dispatcher) trigger(ctx context.Context, name string) int {
	ran, err := d.registry.Trigger(WithOutput(ctx, d.out), name)
	if !ran {
		d.logger.Debug("no callback registered", log.Event(name))
		return ExitOK
	}
	if err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
		logEventError(d.logger, "event failed", name, err)
		return ExitFailure
	}
	return ExitOK
}

// Help writes the usage text listing every registered event.
func (d *Dispatcher) Help(prog string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s <command>\n", prog)
	b.WriteString("Commands:\n")
	for _, e := range d.registry.Entries() {
		fmt.Fprintf(&b, "\t%s\t\t%s\n", e.Name, e.Description)
	}
	b.WriteString("\n")
	io.WriteString(d.out, b.String())
}

func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return ExitOK
	}
	return ExitFailure
}
