package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultJWTExpiresSecs           = 604800
	DefaultRevokedTokensCleanupSpec = "@every 1h"
	DefaultRevocationCacheSizeMB    = 8
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
	PostgresUser   string `toml:"postgres_user"`
	ApplySchema    bool   `toml:"apply_schema"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	JWTExpiresSecs              int      `toml:"jwt_expires_secs"`
	RevokedTokensCleanupSpec    string   `toml:"revoked_tokens_cleanup_spec"`
	RevocationCacheSizeMB       int      `toml:"revocation_cache_size_mb"`
	CorsAllowedOrigins          []string `toml:"cors_allowed_origins"`
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpiresSecs) * time.Second
}

func (c *Config) applyDefaults() {
	if c.JWTExpiresSecs <= 0 {
		c.JWTExpiresSecs = DefaultJWTExpiresSecs
	}
	if c.RevokedTokensCleanupSpec == "" {
		c.RevokedTokensCleanupSpec = DefaultRevokedTokensCleanupSpec
	}
	if c.RevocationCacheSizeMB <= 0 {
		c.RevocationCacheSizeMB = DefaultRevocationCacheSizeMB
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	if c.RedisHost == "" {
		return errors.New("redis host must be set")
	}
	return nil
}

type Toml struct {
	Development *Config
	Docker      *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "docker", "dockerdev":
		cfg = t.Docker
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not set", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the section of the given environment.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Secrets are never kept in the config file.
type Secrets struct {
	JWTSecret        string `env:"JWT_SECRET, required"`
	RedisPassword    string `env:"REHAB_REDIS_PASS"`
	PostgresPassword string `env:"REHAB_POSTGRES_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME, default=rehabtrack-api"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
