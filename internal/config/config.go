package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Config is the server configuration, read from the environment
type Config struct {
	Host     string `env:"DUEL_HOST"`
	Port     int    `env:"DUEL_PORT"      envDefault:"8080"`
	LogLevel string `env:"DUEL_LOG_LEVEL" envDefault:"info"`

	Storage          string        `env:"DUEL_STORAGE"            envDefault:"memory"`
	RedisURL         string        `env:"DUEL_REDIS_URL"`
	RedisFinishedTTL time.Duration `env:"DUEL_REDIS_FINISHED_TTL" envDefault:"720h"`
	SQLDriver        string        `env:"DUEL_SQL_DRIVER"         envDefault:"sqlite"`
	SQLDSN           string        `env:"DUEL_SQL_DSN"            envDefault:"kafanski-duel.db?_busy_timeout=5000"`

	JWTSecret   string `env:"DUEL_JWT_SECRET"`
	JWTIssuer   string `env:"DUEL_JWT_ISSUER"`
	JWTAudience string `env:"DUEL_JWT_AUDIENCE"`

	ChallengeTTL  time.Duration `env:"DUEL_CHALLENGE_TTL"  envDefault:"24h"`
	SweepInterval time.Duration `env:"DUEL_SWEEP_INTERVAL" envDefault:"1m"`

	ServiceName  string `env:"DUEL_SERVICE_NAME"  envDefault:"kafanski-duel"`
	OTLPEndpoint string `env:"DUEL_OTLP_ENDPOINT"`
}

// Load reads the given .env files, if they exist, into the process
// environment and then parses it. Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from an explicit environment instead of the process one
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks for settings that cannot work together
func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("DUEL_REDIS_URL is required when DUEL_STORAGE=redis"))
		}
	case StorageSQL:
		if c.SQLDSN == "" {
			errs = append(errs, errors.New("DUEL_SQL_DSN is required when DUEL_STORAGE=sql"))
		}
	default:
		errs = append(errs, fmt.Errorf("DUEL_STORAGE must be memory, redis or sql, got %q", c.Storage))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("DUEL_JWT_SECRET is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("DUEL_PORT out of range: %d", c.Port))
	}
	if c.ChallengeTTL <= 0 {
		errs = append(errs, errors.New("DUEL_CHALLENGE_TTL must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("DUEL_SWEEP_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
