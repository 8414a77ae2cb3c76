package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/shepherd/internal/domain"
	"github.com/bft-labs/shepherd/pkg/log"
)

// Config holds CLI configuration for a shepherd daemon.
type Config struct {
	PIDFile string

	LogFile       string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogConsole    bool

	GracePeriod time.Duration
	RestartWait time.Duration

	// Interval is the tick of the example task.
	Interval time.Duration

	// Watch lists files whose changes trigger the reload event.
	Watch []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "debug",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
		GracePeriod:   5 * time.Second,
		RestartWait:   10 * time.Second,
		Interval:      time.Second,
		PIDFile:       "", // Derived from the program name during Validate
		LogFile:       "", // Derived from the program name during Validate
	}
}

// Validate checks the configuration for errors and derives the pidfile and
// log file paths from the program name when they are not set.
func (c *Config) Validate(program string) error {
	if c.PIDFile == "" || c.LogFile == "" {
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
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("%w: grace period must be positive", domain.ErrInvalidConfig)
	}
	if c.RestartWait < 0 {
		return fmt.Errorf("%w: restart wait must not be negative", domain.ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidConfig)
	}

	return nil
}

// FileLogger returns the rotating file logger settings.
func (c Config) FileLogger() log.FileConfig {
	fc := log.DefaultFileConfig(c.LogFile)
	fc.Level = c.LogLevel
	if c.LogMaxSizeMB > 0 {
		fc.MaxSizeMB = c.LogMaxSizeMB
	}
	if c.LogMaxBackups > 0 {
		fc.MaxBackups = c.LogMaxBackups
	}
	if c.LogMaxAgeDays > 0 {
		fc.MaxAgeDays = c.LogMaxAgeDays
	}
	fc.Console = c.LogConsole
	return fc
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setStringsFromString splits a comma separated list.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
