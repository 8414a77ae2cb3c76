package proc

import (
	"os"
	"os/signal"
	"syscall"
)

// Signals implements ports.Signals with os/signal.
type Signals struct {
	sigs []os.Signal
	ch   chan os.Signal
}

// NewSignals creates a Signals relaying sigs. With no arguments it relays
// SIGTERM.
func NewSignals(sigs ...os.Signal) *Signals {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGTERM}
	}
	return &Signals{sigs: sigs}
}

// Notify starts relaying and returns the delivery channel.
func (s *Signals) Notify() <-chan os.Signal {
	if s.ch == nil {
		s.ch = make(chan os.Signal, 1)
	}
	signal.Notify(s.ch, s.sigs...)
	return s.ch
}

// Stop ends relaying.
func (s *Signals) Stop() {
	if s.ch != nil {
		signal.Stop(s.ch)
	}
}
