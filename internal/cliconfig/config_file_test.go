package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				PIDFile:       "/run/svc.pid",
				LogFile:       "/var/log/svc.log",
				LogLevel:      "info",
				LogMaxSizeMB:  20,
				LogMaxBackups: 5,
				LogMaxAgeDays: 7,
				LogConsole:    &trueVal,
				GracePeriod:   "10s",
				RestartWait:   "30s",
				Interval:      "2s",
				Watch:         []string{"/etc/svc.toml"},
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				PIDFile:       "/run/svc.pid",
				LogFile:       "/var/log/svc.log",
				LogLevel:      "info",
				LogMaxSizeMB:  20,
				LogMaxBackups: 5,
				LogMaxAgeDays: 7,
				LogConsole:    true,
				GracePeriod:   10 * time.Second,
				RestartWait:   30 * time.Second,
				Interval:      2 * time.Second,
				Watch:         []string{"/etc/svc.toml"},
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				PIDFile:  "/config/svc.pid",
				LogLevel: "warn",
			},
			changed: map[string]bool{"pid-file": true},
			initial: Config{
				PIDFile:  "/flag/svc.pid",
				LogLevel: "debug",
			},
			expected: Config{
				PIDFile:  "/flag/svc.pid", // unchanged because flag was set
				LogLevel: "warn",
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name: "zero restart wait disables waiting",
			fileConfig: FileConfig{
				RestartWait: "0s",
			},
			changed:  map[string]bool{},
			initial:  Config{RestartWait: 10 * time.Second},
			expected: Config{RestartWait: 0},
		},
		{
			name: "invalid grace period",
			fileConfig: FileConfig{
				GracePeriod: "soon",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "invalid interval",
			fileConfig: FileConfig{
				Interval: "1 second",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
pid_file = "/run/simple.pid"
log_level = "info"
log_max_size_mb = 5
log_console = true
grace_period = "3s"
watch = ["/etc/simple.toml", "/etc/simple.d/extra.toml"]
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.PIDFile != "/run/simple.pid" {
		t.Errorf("PIDFile = %v, want /run/simple.pid", fc.PIDFile)
	}
	if fc.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", fc.LogLevel)
	}
	if fc.LogMaxSizeMB != 5 {
		t.Errorf("LogMaxSizeMB = %v, want 5", fc.LogMaxSizeMB)
	}
	if fc.LogConsole == nil || *fc.LogConsole != true {
		t.Errorf("LogConsole = %v, want true", fc.LogConsole)
	}
	if fc.GracePeriod != "3s" {
		t.Errorf("GracePeriod = %v, want 3s", fc.GracePeriod)
	}
	if len(fc.Watch) != 2 || fc.Watch[1] != "/etc/simple.d/extra.toml" {
		t.Errorf("Watch = %v, want two paths", fc.Watch)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
pid_file = "/run/svc.pid"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".shepherd") {
		t.Errorf("DefaultConfigPath() = %v, should contain .shepherd", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
