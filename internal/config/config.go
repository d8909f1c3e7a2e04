package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Engine   EngineConfig   `yaml:"engine"`
	Limits   LimitsConfig   `yaml:"limits"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CertFile        string        `yaml:"cert_file"`
	KeyFile         string        `yaml:"key_file"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowOrigin     string        `yaml:"allow_origin"`
}

type EngineConfig struct {
	Workers       int `yaml:"workers"`
	MaxBatch      int `yaml:"max_batch"`
	ChartStations int `yaml:"chart_stations"`
}

type LimitsConfig struct {
	RatePerSecond  float64 `yaml:"rate_per_second"`
	Burst          int     `yaml:"burst"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes"`
}

// DatabaseConfig is optional: without a URL the service runs without history.
type DatabaseConfig struct {
	URL          string        `yaml:"url"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"`
}

type AuthConfig struct {
	TokenKey string        `yaml:"-"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Load reads .env (if present) into the environment, then the YAML file at
// path (if non-empty), applies defaults and environment overrides, and validates.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8443"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Server.AllowOrigin == "" {
		c.Server.AllowOrigin = "*"
	}
	if c.Engine.MaxBatch == 0 {
		c.Engine.MaxBatch = 1_000
	}
	if c.Engine.ChartStations == 0 {
		c.Engine.ChartStations = 40
	}
	if c.Limits.RatePerSecond == 0 {
		c.Limits.RatePerSecond = 5
	}
	if c.Limits.Burst == 0 {
		c.Limits.Burst = 10
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 10 << 20
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.ConnLifetime == 0 {
		c.Database.ConnLifetime = 5 * time.Minute
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 30 * 24 * time.Hour
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FLEXURA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("FLEXURA_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FLEXURA_WORKERS: %w", err)
		}
		c.Engine.Workers = n
	}
	c.Auth.TokenKey = os.Getenv("TOKEN_KEY")
	return nil
}

func (c *Config) validate() error {
	if c.Database.URL != "" && c.Auth.TokenKey == "" {
		return fmt.Errorf("TOKEN_KEY environment variable is not set")
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return fmt.Errorf("server.cert_file and server.key_file must be set together")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	if c.Engine.MaxBatch < 0 || c.Engine.ChartStations < 2 {
		return fmt.Errorf("engine.max_batch must be >= 0 and engine.chart_stations >= 2")
	}
	if c.Limits.RatePerSecond < 0 || c.Limits.Burst < 1 {
		return fmt.Errorf("limits.rate_per_second must be >= 0 and limits.burst >= 1")
	}
	return nil
}

// TLS reports whether the server should listen with TLS.
func (c *Config) TLS() bool {
	return c.Server.CertFile != ""
}
