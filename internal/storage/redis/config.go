package redis

// Config holds Redis connection settings.
//
// The pool settings bound the number of concurrent store connections; callers
// that need the store block until a pool slot frees up. This is the system's
// admission-control point.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}
