package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	Profiles ProfilesConfig `koanf:"profiles"`
	Registry RegistryConfig `koanf:"registry"`
}

type ServerConfig struct {
	Port        int    `koanf:"port"`
	Host        string `koanf:"host"`
	MaxUploadMB int    `koanf:"max_upload_mb"`
	Mode        string `koanf:"mode"` // debug | release
}

// DatasetConfig selects the boot-time dataset: a simulated sales ledger,
// a CSV file, or none (uploads only).
type DatasetConfig struct {
	Source   string         `koanf:"source"` // simulate | csv | none
	Profile  string         `koanf:"profile"`
	CSVPath  string         `koanf:"csv_path"`
	Simulate SimulateConfig `koanf:"simulate"`
}

// SimulateConfig controls the synthetic generator. Seed 0 keeps the
// reference's clock-derived behavior; any other value makes the dataset
// reproducible across restarts.
type SimulateConfig struct {
	Rows int   `koanf:"rows"`
	Days int   `koanf:"days"`
	Seed int64 `koanf:"seed"`
}

type ProfilesConfig struct {
	Dir string `koanf:"dir"`
}

type RegistryConfig struct {
	Capacity int `koanf:"capacity"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Dataset.Source {
	case "simulate", "csv", "none":
	default:
		return fmt.Errorf("invalid dataset.source %q (must be simulate, csv or none)", c.Dataset.Source)
	}
	if strings.TrimSpace(c.Dataset.Profile) == "" {
		return fmt.Errorf("dataset.profile is required")
	}
	if c.Dataset.Source == "csv" {
		if strings.TrimSpace(c.Dataset.CSVPath) == "" {
			return fmt.Errorf("dataset.csv_path is required when dataset.source is csv")
		}
		if _, err := os.Stat(c.Dataset.CSVPath); err != nil {
			return fmt.Errorf("dataset.csv_path %q is not accessible: %w", c.Dataset.CSVPath, err)
		}
	}
	if c.Dataset.Simulate.Rows <= 0 {
		return fmt.Errorf("dataset.simulate.rows must be > 0")
	}
	if c.Dataset.Simulate.Days <= 0 {
		return fmt.Errorf("dataset.simulate.days must be > 0")
	}

	if c.Registry.Capacity <= 0 {
		return fmt.Errorf("registry.capacity must be > 0")
	}
	return nil
}

// Load parses config from defaults, then file, then env, and validates.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":           8080,
		"server.host":           "0.0.0.0",
		"server.max_upload_mb":  8,
		"server.mode":           "release",
		"dataset.source":        "simulate",
		"dataset.profile":       "SalesLedger",
		"dataset.csv_path":      "",
		"dataset.simulate.rows": 1000,
		"dataset.simulate.days": 365,
		"dataset.simulate.seed": 0,
		"profiles.dir":          "./config/profiles",
		"registry.capacity":     32,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("MIRADOR_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "MIRADOR_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
