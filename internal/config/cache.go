package config

import "time"

// CacheConfig defines settings for the public response cache.  Only the
// unauthenticated GET endpoints (tracking view, material catalog) are
// cached; when Enabled is false or no Redis client could be connected,
// caching is disabled entirely.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  The tracking view
// changes on every staff transition, so the default TTL is short.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "15s")),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
