package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends accepted by SESSION_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// RegistrationPath is where guests are sent by guarded links.
	RegistrationPath string `env:"REGISTRATION_PATH, default=/principal.html"`
	ActivityWorkers  int    `env:"ACTIVITY_WORKERS,  default=4"`
	// ActivityAudit turns the session_events pipeline on. With it off the
	// server never connects to Mongo.
	ActivityAudit bool `env:"ACTIVITY_AUDIT, default=true"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret  string        `env:"SESSION_SECRET, required"`
	Backend string        `env:"SESSION_BACKEND, default=redis"`
	TTL     time.Duration `env:"SESSION_TTL, default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=miAppDB"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the values envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.Session.Backend)
	}
	if c.RegistrationPath == "" {
		return fmt.Errorf("config: REGISTRATION_PATH must not be empty")
	}
	return nil
}

// Process reads configuration from lookuper. Load uses the OS environment.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
