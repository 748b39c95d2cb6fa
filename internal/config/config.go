package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port              int    `env:"PORT" envDefault:"8080"`
	RedisURL          string `env:"REDIS_URL"`
	SessionTTLSeconds int    `env:"SESSION_TTL_SECONDS" envDefault:"86400"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitPerMin   int    `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
}

// SessionTTL is the expiration window applied on every session write.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RedisEnabled reports whether a durable backend is configured. Absent
// REDIS_URL means the process runs on the in-memory store only.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
