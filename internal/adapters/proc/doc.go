// Package proc implements ports.Process and ports.Signals on top of
// golang.org/x/sys/unix.
//
// Go programs cannot fork(2) safely once the runtime has started threads, so
// detaching re-executes the current binary with the same arguments and the
// MarkerEnv environment variable set. The re-executed process sees the marker,
// reports IsChild, and completes detachment by calling Setsid itself.
package proc
