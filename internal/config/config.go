package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// JOURNAL_STORAGE_BACKEND.
const EnvPrefix = "JOURNAL"

// Storage backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Engine     EngineConfig     `mapstructure:"engine"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

// ClickHouseConfig enables the metrics history log when DSN is set.
// The DSN path names the database, e.g. clickhouse://host:9000/trade_journal.
type ClickHouseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig enables the shared projection cache when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type EngineConfig struct {
	StreakWindow         int           `mapstructure:"streak_window"`
	PassTimeout          time.Duration `mapstructure:"pass_timeout"`
	LockTimeout          time.Duration `mapstructure:"lock_timeout"`
	RecomputeConcurrency int           `mapstructure:"recompute_concurrency"`
}

// Load reads the YAML file at path with JOURNAL_ environment overrides.
// With envOnly the file is skipped and only defaults and environment apply.
func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.run_migrations", true)
	v.SetDefault("clickhouse.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("engine.streak_window", 100)
	v.SetDefault("engine.pass_timeout", "30s")
	v.SetDefault("engine.lock_timeout", "5m")
	v.SetDefault("engine.recompute_concurrency", 4)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}

	if c.Engine.StreakWindow <= 0 {
		errs = append(errs, fmt.Errorf("engine.streak_window must be positive, got %d", c.Engine.StreakWindow))
	}
	if c.Engine.PassTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.pass_timeout must be positive, got %s", c.Engine.PassTimeout))
	}
	if c.Engine.LockTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.lock_timeout must be positive, got %s", c.Engine.LockTimeout))
	}
	if c.Engine.RecomputeConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("engine.recompute_concurrency must be positive, got %d", c.Engine.RecomputeConcurrency))
	}

	return errors.Join(errs...)
}
