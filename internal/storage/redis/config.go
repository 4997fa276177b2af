package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// FinishedDuelTTL expires duels once they reach a terminal status.
	// Live duels and players never expire.
	FinishedDuelTTL time.Duration

	// MaxTxRetries bounds optimistic transaction retries per write
	MaxTxRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		FinishedDuelTTL: 30 * 24 * time.Hour,
		MaxTxRetries:    10,
	}
}
