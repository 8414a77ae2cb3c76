// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// controller needs from the operating system without specifying how those
// needs are fulfilled.
//
// # Port Interfaces
//
//   - [PIDStore]: Persists the daemon's process id in a pidfile
//   - [Process]: Detaches a child, manages sessions, checks liveness and sends signals
//   - [Signals]: Delivers termination signals to the running daemon
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system and golang.org/x/sys/unix.
package ports
