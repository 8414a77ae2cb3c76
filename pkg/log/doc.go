// Package log provides the logging abstraction used by the daemon controller.
//
// The controller consumes a Logger with two essential capabilities: Debug,
// which receives every line a daemon task writes to its captured output, and
// Info, which records lifecycle milestones ("starting daemon", "stopping
// daemon"). Default implementations are provided for zerolog, for a rotating
// log file, and a no-op logger for testing.
//
// # Usage
//
// Log to a rotating file next to the program:
//
//	logger, closer, err := log.NewFileLogger(log.DefaultFileConfig("/var/tmp/mydaemon.log"))
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
// Capture task output line by line:
//
//	w := log.NewLineWriter(logger)
//	fmt.Fprintln(w, "doing a daemon task")
//	w.Flush()
//
// # Custom Loggers
//
// Implement the Logger interface to integrate with your existing
// logging infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
