package daemon

import (
	"fmt"
	"os"
	"time"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/pkg/lifecycle"
)

// Config holds the daemon settings.
type Config struct {
	// PIDFile is the pidfile path. Default: <cwd>/<program>.pid.
	PIDFile string

	// LogFile is used by the default logger when no WithLogger option is
	// given. Default: <cwd>/<program>.log.
	LogFile string

	// GracePeriod bounds how long the start callback may keep running after
	// a stop request. Default: 5s.
	GracePeriod time.Duration

	// RestartWait bounds how long restart waits for the old instance to
	// exit. Zero starts the new instance without waiting.
	RestartWait time.Duration

	// ChunkSize is the buffer size for captured output lines. Default: 1024.
	ChunkSize int
}

// SetDefaults fills unset fields. program is the invoking program path,
// usually os.Args[0].
func (c *Config) SetDefaults(program string) error {
	if c.GracePeriod <= 0 {
		c.GracePeriod = lifecycle.DefaultGracePeriod
	}
	if c.PIDFile != "" && c.LogFile != "" {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if c.PIDFile == "" {
		if c.PIDFile, err = domain.DefaultPIDFile(wd, program); err != nil {
			return err
		}
	}
	if c.LogFile == "" {
		if c.LogFile, err = domain.DefaultLogFile(wd, program); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PIDFile == "" {
		return fmt.Errorf("%w: pid file is required", domain.ErrInvalidConfig)
	}
	if c.RestartWait < 0 {
		return fmt.Errorf("%w: restart wait must not be negative", domain.ErrInvalidConfig)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
