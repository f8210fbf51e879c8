package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Engine      EngineConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string `env:"ENVIRONMENT" envDefault:"production"`
}

// HTTPServerConfig is the configuration for the internal HTTP surface.
type HTTPServerConfig struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"HTTP_PORT" envDefault:"8083"`
	Mode string `env:"HTTP_MODE" envDefault:"release"`
	// InternalKey guards the internal API group. Empty disables the check,
	// which is only acceptable inside a trusted network.
	InternalKey string `env:"HTTP_INTERNAL_KEY" envDefault:""`
}

// LoggerConfig is the configuration for the logger.
type LoggerConfig struct {
	Level        string `env:"LOG_LEVEL" envDefault:"info"`
	Mode         string `env:"LOG_MODE" envDefault:"production"`
	Encoding     string `env:"LOG_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOG_COLOR" envDefault:"false"`
}

// PostgresConfig is the configuration for PostgreSQL.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER,required"`
	Password string `env:"POSTGRES_PASSWORD,required"`
	DBName   string `env:"POSTGRES_DB,required"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// RedisConfig is the configuration for Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// EngineConfig carries the engine's calibration constants. The recovery
// thresholds and ratio weights are tuning knobs verified against acceptance
// fixtures, not derived values; keep them configurable.
type EngineConfig struct {
	MinObservedSessions int64         `env:"ENGINE_MIN_OBSERVED_SESSIONS" envDefault:"20"`
	MinBaselineSessions int64         `env:"ENGINE_MIN_BASELINE_SESSIONS" envDefault:"50"`
	BaselineLookback    time.Duration `env:"ENGINE_BASELINE_LOOKBACK" envDefault:"336h"`
	ExtendedLookback    time.Duration `env:"ENGINE_EXTENDED_LOOKBACK" envDefault:"672h"`
	MaxAffectedPaths    int           `env:"ENGINE_MAX_AFFECTED_PATHS" envDefault:"5"`
	RecoveryWindow      time.Duration `env:"ENGINE_RECOVERY_WINDOW" envDefault:"6h"`
	ConversionWeight    float64       `env:"ENGINE_RECOVERY_CONVERSION_WEIGHT" envDefault:"0.5"`
	ErrorWeight         float64       `env:"ENGINE_RECOVERY_ERROR_WEIGHT" envDefault:"0.3"`
	ThreatWeight        float64       `env:"ENGINE_RECOVERY_THREAT_WEIGHT" envDefault:"0.2"`
	MitigatedRatio      float64       `env:"ENGINE_MITIGATED_RATIO" envDefault:"0.7"`
	ResolvedRatio       float64       `env:"ENGINE_RESOLVED_RATIO" envDefault:"0.9"`
	DefaultCooldown     time.Duration `env:"ENGINE_DEFAULT_COOLDOWN" envDefault:"900s"`
	LockTTL             time.Duration `env:"ENGINE_LOCK_TTL" envDefault:"30s"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Engine.MitigatedRatio <= 0 || cfg.Engine.MitigatedRatio > 1 {
		return fmt.Errorf("ENGINE_MITIGATED_RATIO must be in (0, 1]")
	}
	if cfg.Engine.ResolvedRatio < cfg.Engine.MitigatedRatio || cfg.Engine.ResolvedRatio > 1 {
		return fmt.Errorf("ENGINE_RESOLVED_RATIO must be in [mitigated ratio, 1]")
	}
	if cfg.Engine.DefaultCooldown <= 0 {
		return fmt.Errorf("ENGINE_DEFAULT_COOLDOWN must be positive")
	}
	if cfg.Engine.MinObservedSessions <= 0 || cfg.Engine.MinBaselineSessions <= 0 {
		return fmt.Errorf("session floors must be positive")
	}
	weights := cfg.Engine.ConversionWeight + cfg.Engine.ErrorWeight + cfg.Engine.ThreatWeight
	if weights <= 0 {
		return fmt.Errorf("recovery ratio weights must sum to a positive value")
	}
	return nil
}
