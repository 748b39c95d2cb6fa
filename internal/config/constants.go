package config

import "time"

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Redis client settings
const (
	RedisPingTimeout = 5 * time.Second
	RedisMaxRetries  = 3
)

// Rate limit window for the public endpoints
const RateLimitWindow = 60 * time.Second
