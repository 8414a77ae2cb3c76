package domain

import (
	"path/filepath"
	"strings"
)

// Built-in event names.
const (
	EventStart   = "start"
	EventStatus  = "status"
	EventStop    = "stop"
	EventHelp    = "help"
	EventRestart = "restart"
)

// BuiltinEvent is a pre-registered event and its help description.
type BuiltinEvent struct {
	Name        string
	Description string
}

// BuiltinEvents are registered in this order before any user event.
var BuiltinEvents = []BuiltinEvent{
	{Name: EventStart, Description: "Start daemon"},
	{Name: EventStatus, Description: "Display daemon status"},
	{Name: EventStop, Description: "Stop daemon gracefully"},
	{Name: EventHelp, Description: "Display this information message"},
}

// RestartDescription is the help text of the optional restart command.
const RestartDescription = "Restart daemon"

// PIDFileExt is appended to the program name to form the pidfile name.
const PIDFileExt = ".pid"

// DaemonState tracks the running instance of a daemon.
// PID is zero when no live instance is known.
type DaemonState struct {
	PID     int
	PIDFile string
}

// Running reports whether a live instance is known.
func (s DaemonState) Running() bool {
	return s.PID > 0
}

// ProgramName returns the base name of program without its extension,
// e.g. "/usr/local/bin/mydaemon.bin" -> "mydaemon".
func ProgramName(program string) string {
	base := filepath.Base(program)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultPIDFile returns "<dir>/<program name>.pid".
func DefaultPIDFile(dir, program string) (string, error) {
	name := ProgramName(program)
	if name == "" {
		return "", ErrNoProgramName
	}
	return filepath.Join(dir, name+PIDFileExt), nil
}

// DefaultLogFile returns "<dir>/<program name>.log".
func DefaultLogFile(dir, program string) (string, error) {
	name := ProgramName(program)
	if name == "" {
		return "", ErrNoProgramName
	}
	return filepath.Join(dir, name+".log"), nil
}
