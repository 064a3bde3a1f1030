package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/stall"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Coach     CoachConfig     `yaml:"coach"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// CoachConfig holds the gym inventory and the tunable coaching thresholds.
// Zero values fall back to the built-in defaults, so a config file only
// needs the fields it wants to change.
type CoachConfig struct {
	BarWeightKg float64   `yaml:"bar_weight_kg"`
	PlatesKg    []float64 `yaml:"plates_kg"`
	DumbbellsKg []float64 `yaml:"dumbbells_kg"`

	StallMinimumSessions    int     `yaml:"stall_minimum_sessions"`
	StallImprovementPct     float64 `yaml:"stall_improvement_pct"`
	StallDeloadRPEThreshold float64 `yaml:"stall_deload_rpe_threshold"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Inventory builds the plate inventory from config, falling back to the
// default home-gym inventory for any unset field.
func (c CoachConfig) Inventory() loading.Inventory {
	inv := loading.DefaultInventory()
	if c.BarWeightKg > 0 {
		inv.BarWeight = c.BarWeightKg
	}
	if len(c.PlatesKg) > 0 {
		inv.Plates = c.PlatesKg
	}
	if len(c.DumbbellsKg) > 0 {
		inv.Dumbbells = c.DumbbellsKg
	}
	return inv
}

// StallConfig builds the stall detector thresholds from config overrides.
func (c CoachConfig) StallConfig() stall.Config {
	cfg := stall.DefaultConfig()
	if c.StallMinimumSessions > 0 {
		cfg.MinimumSessions = c.StallMinimumSessions
	}
	if c.StallImprovementPct > 0 {
		cfg.ImprovementThresholdPct = c.StallImprovementPct
	}
	if c.StallDeloadRPEThreshold > 0 {
		cfg.DeloadRPEThreshold = c.StallDeloadRPEThreshold
	}
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTCOACH_ and underscore-separated paths:
//
//	LIFTCOACH_SERVER_HOST, LIFTCOACH_SERVER_PORT,
//	LIFTCOACH_DB_HOST, LIFTCOACH_DB_PORT, LIFTCOACH_DB_NAME,
//	LIFTCOACH_DB_USER, LIFTCOACH_DB_PASSWORD, LIFTCOACH_DB_SSLMODE,
//	LIFTCOACH_AUTH_API_KEY, LIFTCOACH_TS_HOSTNAME, LIFTCOACH_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTCOACH_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("LIFTCOACH_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
