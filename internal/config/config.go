// Package config loads the application configuration from .env files, an
// optional config.yaml, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"seguimiento/internal/track"
)

// defaultControlDates is the fixed production delivery schedule: the weekly
// checkpoints the programmable items are measured against.
var defaultControlDates = []string{
	"09-01-2026",
	"16-01-2026",
	"23-01-2026",
	"30-01-2026",
	"06-02-2026",
	"13-02-2026",
	"20-02-2026",
	"27-02-2026",
	"06-03-2026",
	"13-03-2026",
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string `yaml:"data_path"`
	DBPath   string `yaml:"db_path"`

	// Remote sources: the baseline file and the directory holding one JSON
	// file per report snapshot (GitHub contents API or raw URLs).
	BaselineURL string `yaml:"baseline_url"`
	ReportsURL  string `yaml:"reports_url"`
	// Optional bearer token; used solely to raise the remote API rate limit.
	GitHubToken string `yaml:"github_token"`

	AutoFetchSchedule string `yaml:"auto_fetch_schedule"`

	ControlDates []string `yaml:"control_dates"`

	// Control is the normalized form of ControlDates, resolved once here.
	Control []track.ControlDate `yaml:"-"`
}

// Load reads configuration in priority order: .env next to the binary, .env
// in the working directory, config.yaml, then environment variables on top.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded environment from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory")
	}

	cfg := &AppConfig{}

	configPath := getEnv("CONFIG_PATH", "config.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, err)
		}
		log.Debug().Str("path", configPath).Msg("Loaded config file")
	}

	// Env vars override file values.
	envOverride(&cfg.DataPath, "DATA_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.BaselineURL, "BASELINE_URL")
	envOverride(&cfg.ReportsURL, "REPORTS_URL")
	envOverride(&cfg.GitHubToken, "GITHUB_TOKEN")
	envOverride(&cfg.AutoFetchSchedule, "AUTO_FETCH_SCHEDULE")
	if raw := os.Getenv("CONTROL_DATES"); raw != "" {
		cfg.ControlDates = nil
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.ControlDates = append(cfg.ControlDates, d)
			}
		}
	}

	// Defaults.
	if cfg.DataPath == "" {
		if exeDir != "" {
			cfg.DataPath = exeDir
		} else {
			cfg.DataPath = "."
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataPath, "seguimiento.db")
	}
	if len(cfg.ControlDates) == 0 {
		cfg.ControlDates = append([]string(nil), defaultControlDates...)
	}

	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		log.Warn().Err(err).Str("path", cfg.DataPath).Msg("Failed to create data directory")
	}

	control, err := track.NewScheduleConfig(cfg.ControlDates)
	if err != nil {
		return nil, fmt.Errorf("control_dates: %w", err)
	}
	cfg.Control = control

	return cfg, nil
}

// RemoteConfigured reports whether a remote baseline source is set.
func (c *AppConfig) RemoteConfigured() bool {
	return c.BaselineURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
