package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	PIDFile       string   `toml:"pid_file"`
	LogFile       string   `toml:"log_file"`
	LogLevel      string   `toml:"log_level"`
	LogMaxSizeMB  int      `toml:"log_max_size_mb"`
	LogMaxBackups int      `toml:"log_max_backups"`
	LogMaxAgeDays int      `toml:"log_max_age_days"`
	LogConsole    *bool    `toml:"log_console"`
	GracePeriod   string   `toml:"grace_period"`
	RestartWait   string   `toml:"restart_wait"`
	Interval      string   `toml:"interval"`
	Watch         []string `toml:"watch"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.shepherd/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".shepherd", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("pid-file", fc.PIDFile, &cfg.PIDFile)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("grace-period", fc.GracePeriod, &cfg.GracePeriod); err != nil {
		return err
	}
	if err := s.setDuration("restart-wait", fc.RestartWait, &cfg.RestartWait); err != nil {
		return err
	}
	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}

	s.setInt("log-max-size", fc.LogMaxSizeMB, &cfg.LogMaxSizeMB)
	s.setInt("log-max-backups", fc.LogMaxBackups, &cfg.LogMaxBackups)
	s.setInt("log-max-age", fc.LogMaxAgeDays, &cfg.LogMaxAgeDays)

	s.setBool("log-console", fc.LogConsole, &cfg.LogConsole)
	s.setStrings("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
