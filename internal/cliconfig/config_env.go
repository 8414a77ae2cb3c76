package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "SHEPHERD_"

// ApplyEnvConfig applies SHEPHERD_* environment variables to cfg.
// Explicitly set flags (changed map) take precedence.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("pid-file", env("PID_FILE"), &cfg.PIDFile)
	s.setString("log-file", env("LOG_FILE"), &cfg.LogFile)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("grace-period", env("GRACE_PERIOD"), &cfg.GracePeriod); err != nil {
		return err
	}
	if err := s.setDuration("restart-wait", env("RESTART_WAIT"), &cfg.RestartWait); err != nil {
		return err
	}
	if err := s.setDuration("interval", env("INTERVAL"), &cfg.Interval); err != nil {
		return err
	}

	if err := s.setIntFromString("log-max-size", env("LOG_MAX_SIZE_MB"), &cfg.LogMaxSizeMB); err != nil {
		return err
	}
	if err := s.setIntFromString("log-max-backups", env("LOG_MAX_BACKUPS"), &cfg.LogMaxBackups); err != nil {
		return err
	}
	if err := s.setIntFromString("log-max-age", env("LOG_MAX_AGE_DAYS"), &cfg.LogMaxAgeDays); err != nil {
		return err
	}

	s.setBoolFromString("log-console", env("LOG_CONSOLE"), &cfg.LogConsole)
	s.setStringsFromString("watch", env("WATCH"), &cfg.Watch)

	return nil
}
