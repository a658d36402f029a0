package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 7557 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7557)
	}
	if cfg.Progress.GraceDays != 3 || cfg.Progress.FreezeDays != 7 {
		t.Errorf("decay window = %d/%d, want 3/7", cfg.Progress.GraceDays, cfg.Progress.FreezeDays)
	}
	if cfg.Progress.DailyPercent != 0.02 || cfg.Progress.MaxPercent != 0.30 {
		t.Errorf("decay rates = %v/%v, want 0.02/0.30", cfg.Progress.DailyPercent, cfg.Progress.MaxPercent)
	}
	if !cfg.Auth.Enabled {
		t.Error("auth should default to enabled")
	}
}

func TestLoadConfig_TomlOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PURPLESCHOOL_HOME", home)

	toml := `
[server]
port = 9000

[progress]
grace_days = 5

[telemetry]
prometheus = true
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(toml), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Progress.GraceDays != 5 {
		t.Errorf("GraceDays = %d, want 5", cfg.Progress.GraceDays)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("Prometheus should be enabled")
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfig_EnvBeatsToml(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PURPLESCHOOL_HOME", home)

	toml := "[server]\nport = 9000\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(toml), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PURPLESCHOOL_PORT", "9100")
	t.Setenv("PURPLESCHOOL_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PURPLESCHOOL_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 7557 {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("PURPLESCHOOL_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Server.Port = 8123
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("Server.Port = %d, want 8123", loaded.Server.Port)
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{10, 10 * time.Second},
		{60, time.Minute},
		{0, 10 * time.Second},  // default
		{-5, 10 * time.Second}, // default
	}

	for _, tt := range tests {
		p := ProgressConfig{TickSeconds: tt.seconds}
		if got := p.TickInterval(); got != tt.want {
			t.Errorf("TickInterval(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
