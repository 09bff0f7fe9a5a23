package config

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/ecotrack/internal/logging"
)

const (
	outputTypeFile   = "file"
	outputTypeStderr = "stderr"
)

// Logger receives warnings raised while configuration is loading, before the
// command logger exists. Its level comes from ECOTRACK_LOG_LEVEL.
//
//nolint:gochecknoglobals // Bootstrap logger shared by the config loaders
var Logger zerolog.Logger

//nolint:gochecknoglobals // Guards Logger
var logMu sync.RWMutex

// SetLogLevel changes the level of the bootstrap Logger. Unknown levels
// become info.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()
	Logger = Logger.Level(logging.ParseLevel(level))
}

// GetLogger returns the bootstrap logger.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

//nolint:gochecknoinits // the bootstrap logger must exist before any config is read
func init() {
	Logger = logging.NewLogger(logging.Config{
		Level:  os.Getenv(EnvLogLevel),
		Format: logging.FormatConsole,
	}, os.Stderr).With().Str("component", "config").Logger()
}

// ToLoggingConfig converts the config section to a logging.Config:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := outputTypeStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
		Caller: false,
	}
}

// GetLoggingConfig returns a copy of the global Logging section. Flag
// overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
