package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Activity ActivityConfig
}

type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET, required"`
	TokenTTL          time.Duration `env:"JWT_EXPIRES_IN,           default=24h"`
	EmailMaxLength    int           `env:"AUTH_EMAIL_MAX_LENGTH,    default=250"`
	PasswordMinLength int           `env:"AUTH_PASSWORD_MIN_LENGTH, default=8"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string        `env:"MONGO_DB,      default=mentoring"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether human-readable logs should be emitted.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Activity.Workers < 1 {
		return nil, fmt.Errorf("config: ACTIVITY_WORKERS must be at least 1, got %d", cfg.Activity.Workers)
	}
	return &cfg, nil
}

// MustLoad is Load for process startup: a missing JWT_SECRET or malformed
// value aborts.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
