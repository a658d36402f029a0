// Package daemon manages the PurpleSchool daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Progress  ProgressConfig  `toml:"progress"`
	Auth      AuthConfig      `toml:"auth"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host" envconfig:"PURPLESCHOOL_HOST"`
	Port int    `toml:"port" envconfig:"PURPLESCHOOL_PORT"`
}

// StorageConfig controls where the progress database lives.
type StorageConfig struct {
	Dir string `toml:"dir" envconfig:"PURPLESCHOOL_DATA_DIR"`
}

// ProgressConfig tunes the XP engine. Zero values fall back to the
// built-in defaults.
type ProgressConfig struct {
	GraceDays    int     `toml:"grace_days" envconfig:"PURPLESCHOOL_GRACE_DAYS"`
	FreezeDays   int     `toml:"freeze_days" envconfig:"PURPLESCHOOL_FREEZE_DAYS"`
	DailyPercent float64 `toml:"daily_percent" envconfig:"PURPLESCHOOL_DAILY_PERCENT"`
	MaxPercent   float64 `toml:"max_percent" envconfig:"PURPLESCHOOL_MAX_PERCENT"`
	TickSeconds  int     `toml:"tick_seconds" envconfig:"PURPLESCHOOL_TICK_SECONDS"`
	DecaySpec    string  `toml:"decay_schedule" envconfig:"PURPLESCHOOL_DECAY_SCHEDULE"`
}

// AuthConfig points at the remote account service.
type AuthConfig struct {
	BaseURL string `toml:"base_url" envconfig:"PURPLESCHOOL_AUTH_URL"`
	Enabled bool   `toml:"enabled" envconfig:"PURPLESCHOOL_AUTH_ENABLED"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus" envconfig:"PURPLESCHOOL_PROMETHEUS"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level" envconfig:"PURPLESCHOOL_LOG_LEVEL"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 7557,
		},
		Storage: StorageConfig{
			Dir: Home(),
		},
		Progress: ProgressConfig{
			GraceDays:    3,
			FreezeDays:   7,
			DailyPercent: 0.02,
			MaxPercent:   0.30,
			TickSeconds:  10,
			DecaySpec:    "5 0 * * *", // shortly after midnight, local time
		},
		Auth: AuthConfig{
			BaseURL: "",
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from ~/.purpleschool/config.toml, then applies
// .env and environment variable overrides on top. Precedence: env vars >
// .env file > config.toml > defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(Home(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env sits next to the binary during development; absence is fine.
	_ = godotenv.Load()

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process env: %w", err)
	}

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = Home()
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.purpleschool/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(Home(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// TickInterval converts the configured tick to a duration.
func (p ProgressConfig) TickInterval() time.Duration {
	if p.TickSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TickSeconds) * time.Second
}

// Home returns the PurpleSchool data directory.
func Home() string {
	if env := os.Getenv("PURPLESCHOOL_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".purpleschool")
}
