package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bft-labs/shepherd/internal/ports"
	"github.com/bft-labs/shepherd/pkg/log"
)

// AliveFunc reports whether a process with the given pid exists.
type AliveFunc func(pid int) bool

// PIDFile implements ports.PIDStore using a plain text file holding the
// decimal pid of the running daemon.
type PIDFile struct {
	path   string
	alive  AliveFunc
	logger ports.Logger
}

// NewPIDFile creates a PIDFile at path. alive is consulted by Load to detect
// stale files.
func NewPIDFile(path string, alive AliveFunc, logger ports.Logger) *PIDFile {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &PIDFile{path: path, alive: alive, logger: logger}
}

// Path returns the full path to the pidfile.
func (f *PIDFile) Path() string {
	return f.path
}

// Load returns the pid recorded in the pidfile if that process is alive.
// Returns 0 and nil error if no pidfile exists. A stale or unparsable file
// is removed.
func (f *PIDFile) Load() (int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read pidfile: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err == nil && pid > 0 && f.alive != nil && f.alive(pid) {
		return pid, nil
	}

	f.logger.Info("removing stale pidfile",
		log.String("path", f.path),
		log.String("content", strings.TrimSpace(string(data))),
	)
	if err := f.Remove(); err != nil {
		return 0, err
	}
	return 0, nil
}

// Write records pid in the pidfile atomically.
// Uses atomic write (write to temp file, then rename) so readers never see
// a partial pid.
func (f *PIDFile) Write(pid int) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pidfile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create pidfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(pid)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write pidfile: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod pidfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close pidfile: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename pidfile: %w", err)
	}
	return nil
}

// Remove deletes the pidfile. A missing file is not an error.
func (f *PIDFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pidfile: %w", err)
	}
	return nil
}

// exists reports whether the pidfile is present.
func (f *PIDFile) exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
