package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/shepherd/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.GracePeriod != 5*time.Second {
		t.Errorf("GracePeriod = %v, want 5s", cfg.GracePeriod)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, want 1s", cfg.Interval)
	}
	if cfg.PIDFile != "" {
		t.Errorf("PIDFile = %v, want empty until Validate", cfg.PIDFile)
	}
}

func TestConfig_Validate(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		config      Config
		program     string
		wantErr     error
		wantPIDFile string
		wantLogFile string
	}{
		{
			name:        "derives paths from program name",
			config:      DefaultConfig(),
			program:     "/usr/local/bin/simple",
			wantPIDFile: filepath.Join(wd, "simple.pid"),
			wantLogFile: filepath.Join(wd, "simple.log"),
		},
		{
			name:        "strips extension",
			config:      DefaultConfig(),
			program:     "./worker.bin",
			wantPIDFile: filepath.Join(wd, "worker.pid"),
			wantLogFile: filepath.Join(wd, "worker.log"),
		},
		{
			name: "keeps explicit paths",
			config: func() Config {
				c := DefaultConfig()
				c.PIDFile = "/run/svc.pid"
				c.LogFile = "/var/log/svc.log"
				return c
			}(),
			program:     "",
			wantPIDFile: "/run/svc.pid",
			wantLogFile: "/var/log/svc.log",
		},
		{
			name:    "missing program name",
			config:  DefaultConfig(),
			program: "",
			wantErr: domain.ErrNoProgramName,
		},
		{
			name: "invalid log level",
			config: func() Config {
				c := DefaultConfig()
				c.LogLevel = "loud"
				return c
			}(),
			program: "svc",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "zero grace period",
			config: func() Config {
				c := DefaultConfig()
				c.GracePeriod = 0
				return c
			}(),
			program: "svc",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "negative restart wait",
			config: func() Config {
				c := DefaultConfig()
				c.RestartWait = -time.Second
				return c
			}(),
			program: "svc",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "zero restart wait allowed",
			config: func() Config {
				c := DefaultConfig()
				c.RestartWait = 0
				return c
			}(),
			program:     "svc",
			wantPIDFile: filepath.Join(wd, "svc.pid"),
			wantLogFile: filepath.Join(wd, "svc.log"),
		},
		{
			name: "zero interval",
			config: func() Config {
				c := DefaultConfig()
				c.Interval = 0
				return c
			}(),
			program: "svc",
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate(tt.program)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if cfg.PIDFile != tt.wantPIDFile {
				t.Errorf("PIDFile = %v, want %v", cfg.PIDFile, tt.wantPIDFile)
			}
			if cfg.LogFile != tt.wantLogFile {
				t.Errorf("LogFile = %v, want %v", cfg.LogFile, tt.wantLogFile)
			}
		})
	}
}

func TestConfig_FileLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = "/var/log/svc.log"
	cfg.LogLevel = "info"
	cfg.LogMaxSizeMB = 50
	cfg.LogConsole = true

	fc := cfg.FileLogger()

	if fc.Path != "/var/log/svc.log" {
		t.Errorf("Path = %v, want /var/log/svc.log", fc.Path)
	}
	if fc.Level != "info" {
		t.Errorf("Level = %v, want info", fc.Level)
	}
	if fc.MaxSizeMB != 50 {
		t.Errorf("MaxSizeMB = %v, want 50", fc.MaxSizeMB)
	}
	if fc.MaxBackups != 3 || fc.MaxAgeDays != 28 {
		t.Errorf("rotation = %d backups / %d days, want 3 / 28", fc.MaxBackups, fc.MaxAgeDays)
	}
	if !fc.Console {
		t.Error("Console = false, want true")
	}
}

func TestConfigSetter_StringsFromString(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"a.toml", []string{"a.toml"}},
		{"a.toml, b.toml", []string{"a.toml", "b.toml"}},
		{" ,a.toml,,", []string{"a.toml"}},
	}

	for _, tt := range tests {
		var got []string
		newConfigSetter(nil).setStringsFromString("watch", tt.value, &got)
		if len(got) != len(tt.want) {
			t.Fatalf("setStringsFromString(%q) = %v, want %v", tt.value, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("setStringsFromString(%q)[%d] = %v, want %v", tt.value, i, got[i], tt.want[i])
			}
		}
	}
}
