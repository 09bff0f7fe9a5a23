package cache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/semver/v3"
)

// CacheEntry represents a single memoized engine result with TTL metadata.
//
//nolint:revive // CacheEntry is the canonical name for this exported type.
type CacheEntry struct {
	// Key is the cache key produced by GenerateKey.
	Key string `json:"key"`

	// EngineVersion is the version of the binary that computed Data.
	EngineVersion string `json:"engine_version"`

	// Data is the cached value (JSON-serializable).
	Data json.RawMessage `json:"data"`

	// CreatedAt is the timestamp when the entry was created.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the timestamp when the entry expires.
	ExpiresAt time.Time `json:"expires_at"`

	// TTLSeconds is the time-to-live in seconds (for reference).
	TTLSeconds int `json:"ttl_seconds"`
}

// NewCacheEntry creates a new cache entry with the given TTL.
func NewCacheEntry(key, engineVersion string, data json.RawMessage, ttlSeconds int) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Key:           key,
		EngineVersion: engineVersion,
		Data:          data,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds:    ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiration time.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// IsValid is the inverse of IsExpired.
func (e *CacheEntry) IsValid() bool {
	return !e.IsExpired()
}

// TimeUntilExpiration returns the duration until the entry expires, or 0.
func (e *CacheEntry) TimeUntilExpiration() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CompatibleWith reports whether the entry can be served to a binary running
// version current. Both versions must parse as semver and share a major
// version; for 0.x releases the minor version must match as well. An empty
// current version accepts everything, which is how dev builds behave.
func (e *CacheEntry) CompatibleWith(current string) bool {
	if current == "" {
		return true
	}
	want, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	got, err := semver.NewVersion(e.EngineVersion)
	if err != nil {
		return false
	}
	if want.Major() != got.Major() {
		return false
	}
	if want.Major() == 0 && want.Minor() != got.Minor() {
		return false
	}
	return true
}

// MarshalJSON formats times as RFC3339 for readability in JSON files.
func (e *CacheEntry) MarshalJSON() ([]byte, error) {
	type Alias CacheEntry
	return json.Marshal(&struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias:     (*Alias)(e),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		ExpiresAt: e.ExpiresAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON parses RFC3339 timestamps from JSON files.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil CacheEntry")
	}
	type Alias CacheEntry
	aux := &struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, aux.CreatedAt)
	if err != nil {
		return err
	}

	e.ExpiresAt, err = time.Parse(time.RFC3339, aux.ExpiresAt)
	if err != nil {
		return err
	}

	return nil
}
