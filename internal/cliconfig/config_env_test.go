package cliconfig

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SHEPHERD_PID_FILE":         "/env/svc.pid",
				"SHEPHERD_LOG_FILE":         "/env/svc.log",
				"SHEPHERD_LOG_LEVEL":        "warn",
				"SHEPHERD_LOG_MAX_SIZE_MB":  "100",
				"SHEPHERD_LOG_MAX_BACKUPS":  "2",
				"SHEPHERD_LOG_MAX_AGE_DAYS": "1",
				"SHEPHERD_LOG_CONSOLE":      "true",
				"SHEPHERD_GRACE_PERIOD":     "1m",
				"SHEPHERD_RESTART_WAIT":     "20s",
				"SHEPHERD_INTERVAL":         "500ms",
				"SHEPHERD_WATCH":            "/a.toml,/b.toml",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				PIDFile:       "/env/svc.pid",
				LogFile:       "/env/svc.log",
				LogLevel:      "warn",
				LogMaxSizeMB:  100,
				LogMaxBackups: 2,
				LogMaxAgeDays: 1,
				LogConsole:    true,
				GracePeriod:   time.Minute,
				RestartWait:   20 * time.Second,
				Interval:      500 * time.Millisecond,
				Watch:         []string{"/a.toml", "/b.toml"},
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SHEPHERD_PID_FILE":  "/env/svc.pid",
				"SHEPHERD_LOG_LEVEL": "error",
			},
			changed: map[string]bool{"pid-file": true},
			initial: Config{
				PIDFile: "/flag/svc.pid",
			},
			expected: Config{
				PIDFile:  "/flag/svc.pid",
				LogLevel: "error",
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"SHEPHERD_GRACE_PERIOD": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"SHEPHERD_LOG_MAX_BACKUPS": "not-a-number",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"SHEPHERD_LOG_CONSOLE": "1",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{LogConsole: true},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"SHEPHERD_LOG_CONSOLE": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{LogConsole: true},
			expected: Config{LogConsole: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File > defaults)
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		PIDFile:     "/file/svc.pid",
		LogLevel:    "info",
		GracePeriod: "7s",
	}

	t.Setenv("SHEPHERD_PID_FILE", "/env/svc.pid")
	t.Setenv("SHEPHERD_LOG_LEVEL", "warn")

	// Simulate CLI flags
	changed := map[string]bool{
		"pid-file": true,
	}

	cfg := DefaultConfig()
	cfg.PIDFile = "/cli/svc.pid"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.PIDFile != "/cli/svc.pid" {
		t.Errorf("PIDFile = %v, want /cli/svc.pid (CLI should win)", cfg.PIDFile)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn (env should override file)", cfg.LogLevel)
	}
	if cfg.GracePeriod != 7*time.Second {
		t.Errorf("GracePeriod = %v, want 7s (file should set)", cfg.GracePeriod)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, want 1s (default should remain)", cfg.Interval)
	}
}
