package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures the default file-backed logger.
type FileConfig struct {
	// Path is the log file. Rotated files are kept next to it.
	Path string

	// Level is a zerolog level name. Default: debug.
	Level string

	// MaxSizeMB is the size at which the file is rotated.
	// Default: 10
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep.
	// Default: 3
	MaxBackups int

	// MaxAgeDays is the number of days rotated files are kept.
	// Default: 28
	MaxAgeDays int

	// Console additionally writes human readable output to stderr.
	// Only useful when the process still has a terminal.
	Console bool
}

// DefaultFileConfig returns a FileConfig writing to path with default rotation.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		Level:      "debug",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// NewFileLogger creates a zerolog logger writing to a rotating log file.
// The returned io.Closer must be closed to release the file.
func NewFileLogger(cfg FileConfig) (*ZerologAdapter, io.Closer, error) {
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("log file path is required")
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	var w io.Writer = lj
	if cfg.Console {
		w = io.MultiWriter(lj, NewConsoleWriter(os.Stderr))
	}

	return NewZerologAdapterWithWriter(w, level), lj, nil
}
