package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogPretty switches zerolog to the console writer.
	LogPretty bool `env:"LOG_PRETTY, default=false"`

	DatabaseURL  string `env:"DATABASE_URL, required"`
	SeedFixtures bool   `env:"SEED_FIXTURES, default=false"`
	WorkerCount  int    `env:"WORKER_COUNT, default=2"`

	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=1h"`

	APIVersion   string `env:"API_VERSION, default=1.0"`
	MaxPageLimit int    `env:"MAX_PAGE_LIMIT, default=100"`

	Cache CacheConfig
	Redis RedisConfig
}

type CacheConfig struct {
	Driver   string        `env:"CACHE_DRIVER, default=redis"`
	TTL      time.Duration `env:"CACHE_TTL, default=1h"`
	Capacity int           `env:"CACHE_CAPACITY, default=10000"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// loadDotenv reads .env files into the process environment; overridable in tests.
var loadDotenv = func() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Load reads configuration from the environment (and an optional .env file).
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values envconfig cannot express as tags.
func (c *Config) Validate() error {
	var errs []error
	if c.Cache.Driver != CacheDriverRedis && c.Cache.Driver != CacheDriverMemory {
		errs = append(errs, fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", CacheDriverRedis, CacheDriverMemory, c.Cache.Driver))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be greater than 0"))
	}
	if c.Cache.Capacity <= 0 {
		errs = append(errs, errors.New("CACHE_CAPACITY must be greater than 0"))
	}
	if c.MaxPageLimit <= 0 {
		errs = append(errs, errors.New("MAX_PAGE_LIMIT must be greater than 0"))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, errors.New("WORKER_COUNT must be greater than 0"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be greater than 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
