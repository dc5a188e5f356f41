package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// analytics
	Timezone                 string   `toml:"timezone"`
	AnalyticsCacheSizeMB     int      `toml:"analytics_cache_size_mb"`
	AnalyticsCacheTTLSec     int      `toml:"analytics_cache_ttl_sec"`
	LoginRateLimitPerMin     int      `toml:"login_rate_limit_per_min"`
	AnalyticsRateLimitPerMin int      `toml:"analytics_rate_limit_per_min"`
	AllowedOrigins           []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.AnalyticsCacheSizeMB <= 0 {
		c.AnalyticsCacheSizeMB = 50
	}
	if c.AnalyticsCacheTTLSec <= 0 {
		c.AnalyticsCacheTTLSec = 300
	}
	if c.LoginRateLimitPerMin <= 0 {
		c.LoginRateLimitPerMin = 15
	}
	if c.AnalyticsRateLimitPerMin <= 0 {
		c.AnalyticsRateLimitPerMin = 120
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the timezone used to resolve local session dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) AnalyticsCacheTTL() time.Duration {
	return time.Duration(c.AnalyticsCacheTTLSec) * time.Second
}
