package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL configuration constants and defaults.
const (
	// DefaultTTLSeconds is the default cache TTL (1 hour).
	DefaultTTLSeconds = 3600

	// MinTTLSeconds is the minimum allowed TTL (1 minute).
	MinTTLSeconds = 60

	// MaxTTLSeconds is the maximum allowed TTL (7 days).
	MaxTTLSeconds = 604800

	// EnvTTLSeconds is the environment variable for overriding TTL.
	EnvTTLSeconds = "ECOTRACK_CACHE_TTL_SECONDS"

	// EnvCacheEnabled is the environment variable for enabling/disabling cache.
	EnvCacheEnabled = "ECOTRACK_CACHE_ENABLED"

	// EnvCacheDir is the environment variable for cache directory.
	EnvCacheDir = "ECOTRACK_CACHE_DIR"
)

// TTL validation errors.
var (
	ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)
)

// TTLConfig holds cache TTL configuration with validation.
type TTLConfig struct {
	// Seconds is the TTL duration in seconds.
	Seconds int

	// Duration is the TTL as a time.Duration.
	Duration time.Duration
}

// NewTTLConfig creates a TTL configuration with validation.
// Returns an error if the TTL is outside the valid range.
func NewTTLConfig(seconds int) (*TTLConfig, error) {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}

	return &TTLConfig{
		Seconds:  seconds,
		Duration: time.Duration(seconds) * time.Second,
	}, nil
}

// DefaultTTLConfig returns the default TTL configuration.
func DefaultTTLConfig() *TTLConfig {
	return &TTLConfig{
		Seconds:  DefaultTTLSeconds,
		Duration: time.Duration(DefaultTTLSeconds) * time.Second,
	}
}

// GetTTLFromEnv reads the TTL from the environment or returns fallback
// when the variable is unset or out of range.
func GetTTLFromEnv(fallback int) int {
	envVal := os.Getenv(EnvTTLSeconds)
	if envVal == "" {
		return fallback
	}

	ttl, err := ParseTTL(envVal)
	if err != nil {
		return fallback
	}

	return ttl
}

// GetCacheEnabledFromEnv reads the cache enabled flag from the environment.
// Returns fallback if the variable is not set or does not parse.
func GetCacheEnabledFromEnv(fallback bool) bool {
	envVal := os.Getenv(EnvCacheEnabled)
	if envVal == "" {
		return fallback
	}

	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return fallback
	}

	return enabled
}

// GetCacheDirFromEnv reads the cache directory from environment variable.
// Returns an empty string if not set (caller should use default).
func GetCacheDirFromEnv() string {
	return os.Getenv(EnvCacheDir)
}

// ParseTTL parses a TTL string in various formats:
//   - Integer seconds: "3600".
//   - Duration string: "1h", "30m", "1h30m".
func ParseTTL(s string) (int, error) {
	// Try parsing as integer seconds first
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
		}
		return seconds, nil
	}

	// Try parsing as duration
	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}

	seconds := int(duration.Seconds())
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}

	return seconds, nil
}
