// Package domain contains the core domain values for the daemon controller.
//
// This package represents the innermost layer of the architecture. It has
// no dependencies on infrastructure concerns (processes, file system, logging)
// and contains only the shared vocabulary of the controller.
//
// # Values
//
//   - [DaemonState]: the pid of the running instance and the pidfile tracking it
//   - Built-in event names and their help descriptions
//   - Sentinel errors, checked with errors.Is
package domain
