package config

import "time"

// CacheConfig defines settings for the snapshot response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  The snapshot changes on every lock transition, so the TTL is
// deliberately short: it shaves load off hot polling, not correctness-
// critical reads.  Prefix namespaces the keys and MaxBodyBytes caps the
// size of responses worth caching.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 2*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1048576),
    }
}
