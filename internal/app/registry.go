package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/bft-labs/shepherd/internal/domain"
)

// Callback is the body of an event. The context is canceled when the daemon
// is asked to stop and carries the output writer (see Output).
type Callback func(ctx context.Context) error

// EventEntry is a named event with its help description and callback.
type EventEntry struct {
	Name        string
	Description string
	Callback    Callback
}

// Registry maps event names to entries, preserving first-registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*EventEntry
}

// NewRegistry creates a registry holding the built-in events with their
// descriptions and no callbacks.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]*EventEntry)}
	for _, b := range domain.BuiltinEvents {
		r.entry(b.Name).Description = b.Description
	}
	return r
}

// entry returns the entry for name, appending a new one if needed.
// Caller must hold r.mu for writing.
func (r *Registry) entry(name string) *EventEntry {
	e, ok := r.entries[name]
	if !ok {
		e = &EventEntry{Name: name}
		r.entries[name] = e
		r.order = append(r.order, name)
	}
	return e
}

// On sets the callback for name. The description is only replaced when one
// is given; new entries without a description get "".
func (r *Registry) On(name string, cb Callback, description ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entry(name)
	e.Callback = cb
	if len(description) > 0 {
		e.Description = description[0]
	}
}

// Describe sets the description for name, keeping any callback.
func (r *Registry) Describe(name, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entry(name).Description = description
}

// Has reports whether name has an entry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Trigger runs the callback registered for name and reports whether one ran.
// An unknown name or an entry without a callback is a no-op. A panicking
// callback is reported as a *PanicError.
func (r *Registry) Trigger(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	var cb Callback
	if e, ok := r.entries[name]; ok {
		cb = e.Callback
	}
	r.mu.RUnlock()

	if cb == nil {
		return false, nil
	}
	return true, call(ctx, name, cb)
}

// PanicError is returned by Trigger when a callback panicked.
type PanicError struct {
	Event string
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("event %s panicked: %v", e.Event, e.Value)
}

// Unwrap returns domain.ErrCallbackPanic.
func (e *PanicError) Unwrap() error {
	return domain.ErrCallbackPanic
}

// call runs cb, turning a panic into a *PanicError.
func call(ctx context.Context, name string, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Event: name, Value: r, Stack: debug.Stack()}
		}
	}()
	return cb(ctx)
}

// Entries returns a snapshot of all entries in registration order.
func (r *Registry) Entries() []EventEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EventEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.entries[name])
	}
	return out
}
