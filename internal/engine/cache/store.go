package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrCacheStale      = errors.New("cache entry written by incompatible engine version")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore provides file-based memoization with TTL expiration.
// Entries are JSON files in a single directory. Safe for concurrent use.
type FileStore struct {
	directory     string
	enabled       bool
	ttlSeconds    int
	engineVersion string
	maxBytes      int64

	mu sync.Mutex
}

// NewFileStore creates a new file-based cache store tagged with
// engineVersion. The directory is created if it doesn't exist.
func NewFileStore(directory string, enabled bool, ttlSeconds int, engineVersion string) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		directory:     directory,
		enabled:       true,
		ttlSeconds:    ttlSeconds,
		engineVersion: engineVersion,
	}, nil
}

// Get retrieves a cache entry by key.
// Returns ErrCacheNotFound if the entry doesn't exist, ErrCacheExpired if it
// has expired and ErrCacheStale if it was written by an incompatible engine.
// Expired and stale entries are removed.
func (s *FileStore) Get(key string) (*CacheEntry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}

	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry CacheEntry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.IsExpired() {
		_ = os.Remove(filePath)
		return nil, ErrCacheExpired
	}
	if !entry.CompatibleWith(s.engineVersion) {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("%w: have %q, running %q", ErrCacheStale, entry.EngineVersion, s.engineVersion)
	}

	return &entry, nil
}

// Load decodes the entry stored under key into out.
func (s *FileStore) Load(key string, out any) error {
	entry, err := s.Get(key)
	if err != nil {
		return err
	}
	if unmarshalErr := json.Unmarshal(entry.Data, out); unmarshalErr != nil {
		return fmt.Errorf("failed to decode cached value: %w", unmarshalErr)
	}
	return nil
}

// Set stores data under key, overwriting any existing entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewCacheEntry(key, s.engineVersion, data, s.ttlSeconds)
	entryData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := s.keyToFilePath(key)

	// Write to temporary file first, then rename for atomicity
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return s.evictLocked(filePath)
}

// Store encodes v as JSON and saves it under key.
func (s *FileStore) Store(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return s.Set(key, data)
}

// Delete removes a cache entry by key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyToFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}

	return nil
}

// Clear removes all cache entries from the store.
func (s *FileStore) Clear() error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExtension {
			continue
		}
		if removeErr := os.Remove(filepath.Join(s.directory, entry.Name())); removeErr != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), removeErr)
		}
	}

	return nil
}

// CleanupExpired removes expired and version-incompatible entries and
// returns how many were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != cacheFileExtension {
			continue
		}

		filePath := filepath.Join(s.directory, dirEntry.Name())
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			continue
		}

		var entry CacheEntry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
			continue
		}

		if entry.IsExpired() || !entry.CompatibleWith(s.engineVersion) {
			if os.Remove(filePath) == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// Count returns the number of cache entries (including expired ones).
func (s *FileStore) Count() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == cacheFileExtension {
			count++
		}
	}

	return count, nil
}

// SetMaxBytes bounds the total size of the cache directory. Once a write
// pushes the directory over the limit the oldest entries are evicted.
// A limit of zero or less disables eviction.
func (s *FileStore) SetMaxBytes(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxBytes = n
}

// Size returns the total size in bytes of all cache entries.
func (s *FileStore) Size() (int64, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	return total, nil
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *FileStore) listLocked() ([]cacheFile, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]cacheFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(s.directory, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// evictLocked removes the oldest entries until the directory fits within
// maxBytes. The entry at keep is never evicted.
func (s *FileStore) evictLocked(keep string) error {
	if s.maxBytes <= 0 {
		return nil
	}

	files, err := s.listLocked()
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= s.maxBytes {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files {
		if total <= s.maxBytes {
			break
		}
		if f.path == keep {
			continue
		}
		if removeErr := os.Remove(f.path); removeErr == nil {
			total -= f.size
		}
	}
	return nil
}

// IsEnabled returns true if caching is enabled.
func (s *FileStore) IsEnabled() bool {
	return s.enabled
}

// GetDirectory returns the cache directory path.
func (s *FileStore) GetDirectory() string {
	return s.directory
}

// GetTTL returns the default TTL in seconds.
func (s *FileStore) GetTTL() int {
	return s.ttlSeconds
}

func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.ReplaceAll(key, "/", "_")
	safeKey = strings.ReplaceAll(safeKey, "\\", "_")
	safeKey = strings.ReplaceAll(safeKey, ":", "_")
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}
