package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	Resolution ResolutionConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=earthquake_monitor"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type CatalogConfig struct {
	// BaseURL of the USGS fdsnws event query endpoint. Overridable for tests
	// and mirrors.
	BaseURL string        `env:"CATALOG_BASE_URL"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT, default=5s"`
}

type ResolutionConfig struct {
	CacheTTL    time.Duration `env:"RESOLUTION_CACHE_TTL, default=1h"`
	MaxPageSize int           `env:"HISTORY_MAX_PAGE_SIZE, default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
