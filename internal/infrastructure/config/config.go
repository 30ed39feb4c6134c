package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const defaultSessionSecret = "dev-secret-change-me"

type Config struct {
	Port            string        `env:"PORT,             default=3000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET, default=dev-secret-change-me"`
	TTL        time.Duration `env:"SESSION_TTL,    default=168h"`
	BcryptCost int           `env:"BCRYPT_COST,    default=12"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://127.0.0.1:27017"`
	Database string `env:"MONGO_DB,    default=jemn"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DefaultSecret reports whether the session secret was left at its development value.
func (c *Config) DefaultSecret() bool {
	return c.Session.Secret == defaultSessionSecret
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}
	return &cfg, nil
}
