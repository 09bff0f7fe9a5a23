package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecotrack/internal/engine/cache"
	"github.com/rshade/ecotrack/internal/greenops"
)

// Config file layout.
const (
	// CurrentVersion is the config schema version written by New.
	CurrentVersion = "1.0.0"

	// SupportedVersions is the semver constraint a loaded config must satisfy.
	SupportedVersions = ">= 1.0.0, < 2.0.0"

	configFileName = "config.yaml"
	cacheDirName   = "cache"

	defaultPrecision = 2
	maxPrecision     = 6
	defaultCacheSize = "100MB"
)

// Output formats accepted by OutputConfig.DefaultFormat.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Environment overrides applied after the config file is read.
const (
	EnvHome         = "ECOTRACK_HOME"
	EnvLogLevel     = "ECOTRACK_LOG_LEVEL"
	EnvLogFormat    = "ECOTRACK_LOG_FORMAT"
	EnvOutputFormat = "ECOTRACK_OUTPUT_FORMAT"
	EnvProjectDir   = "ECOTRACK_PROJECT_DIR"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the ecotrack configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Impact holds the conversion factors and score weights.
	Impact greenops.Factors `yaml:"impact"`

	Cache CacheConfig `yaml:"cache"`

	configPath string
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// CacheConfig controls report memoization.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`

	// MaxSize caps the cache directory, e.g. "100MB". Empty means unlimited.
	MaxSize string `yaml:"max_size,omitempty"`
}

// MaxSizeBytes parses MaxSize. Empty means no limit and returns 0.
func (c CacheConfig) MaxSizeBytes() (int64, error) {
	if strings.TrimSpace(c.MaxSize) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("cache max_size %q: %w", c.MaxSize, err)
	}
	return int64(n), nil //nolint:gosec // Sizes beyond MaxInt64 are not meaningful.
}

// Defaults returns the built-in configuration without reading any file.
func Defaults() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = "."
	}

	return &Config{
		Version: CurrentVersion,
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Impact: greenops.DefaultFactors(),
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(dir, cacheDirName),
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxSize:    defaultCacheSize,
		},
		configPath: filepath.Join(dir, configFileName),
	}
}

// New returns the defaults overlaid with ~/.ecotrack/config.yaml when it
// exists, followed by environment overrides. A file that fails to load is
// ignored with a warning so the CLI still runs with defaults.
func New() *Config {
	cfg := Defaults()

	if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger := GetLogger()
		logger.Warn().
			Err(err).
			Str("config_path", cfg.configPath).
			Msg("failed to load config file, using defaults")
		cfg = Defaults()
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ConfigPath returns the file New reads and Save writes.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file used by Load and Save.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads the config file onto c. Sections absent from the file keep
// their current values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", c.configPath, err)
	}
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	return nil
}

// Save writes c as YAML, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section and returns the first problem found,
// wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validateVersion(c.Version); err != nil {
		return err
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("%w: output.default_format must be %q or %q, got %q",
			ErrInvalidConfig, FormatTable, FormatJSON, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: output.precision must be between 0 and %d, got %d",
			ErrInvalidConfig, maxPrecision, c.Output.Precision)
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
		}
	}
	switch c.Logging.Format {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}

	if err := c.Impact.Validate(); err != nil {
		return fmt.Errorf("%w: impact: %w", ErrInvalidConfig, err)
	}

	if c.Cache.Enabled {
		if _, err := cache.NewTTLConfig(c.Cache.TTLSeconds); err != nil {
			return fmt.Errorf("%w: cache.ttl_seconds: %w", ErrInvalidConfig, err)
		}
	}
	if _, err := c.Cache.MaxSizeBytes(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func validateVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: version %q is not semver: %w", ErrInvalidConfig, v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: version %s is not supported (want %s)", ErrInvalidConfig, v, SupportedVersions)
	}
	return nil
}

// applyEnvOverrides applies ECOTRACK_* variables on top of the file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = strings.ToLower(v)
	}

	c.Cache.Enabled = cache.GetCacheEnabledFromEnv(c.Cache.Enabled)
	c.Cache.TTLSeconds = cache.GetTTLFromEnv(c.Cache.TTLSeconds)
	if dir := cache.GetCacheDirFromEnv(); dir != "" {
		c.Cache.Directory = dir
	}
}
