package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/ecotrack/internal/logging"
)

// projectDirName is the project-local configuration directory.
const projectDirName = ".ecotrack"

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .ecotrack directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. ECOTRACK_PROJECT_DIR env var
//  3. walking up from startDir to the first directory holding .ecotrack/config.yaml
//
// The global config directory is never treated as a project. Returns an
// absolute path or the empty string. Does not create anything.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	return findProjectDir(ctx, startDir)
}

func findProjectDir(ctx context.Context, startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("start_dir", startDir).
			Msg("failed to resolve start directory for project discovery")
		return ""
	}

	globalDir, _ := GetConfigDir()
	if globalDir != "" {
		if abs, absErr := filepath.Abs(globalDir); absErr == nil {
			globalDir = abs
		}
	}

	for {
		candidate := filepath.Join(dir, projectDirName)
		if candidate != globalDir {
			if _, statErr := os.Stat(filepath.Join(candidate, configFileName)); statErr == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir creates a Config by loading global config then
// shallow-merging project-local config on top. If projectDir is empty,
// behaves identically to New().
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()

	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	cfgCopy := New()
	if err := ShallowMergeYAML(cfgCopy, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}

	// Environment still wins over the project file.
	cfgCopy.applyEnvOverrides()
	return cfgCopy
}

// toAbsProjectDir converts dir to an absolute path and appends ".ecotrack"
// unless it already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == projectDirName {
		return abs
	}

	return filepath.Join(abs, projectDirName)
}
