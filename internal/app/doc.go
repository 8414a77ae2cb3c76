// Package app contains the daemon controller: the event registry, the process
// controller that detaches and stops instances, and the dispatcher that maps
// a command-line token to one of them.
package app
