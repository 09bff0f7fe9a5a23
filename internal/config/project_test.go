package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecotrack/internal/config"
)

// writeProjectConfig creates dir/.ecotrack/config.yaml.
func writeProjectConfig(t *testing.T, dir, content string) string {
	t.Helper()
	projectDir := filepath.Join(dir, ".ecotrack")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(content), 0o644))
	return projectDir
}

// isolateHome keeps the real ~/.ecotrack out of the test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(config.EnvHome, "")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	return home
}

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	isolateHome(t)
	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".ecotrack"), got)
	assert.True(t, filepath.IsAbs(got), "returned path must be absolute")
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".ecotrack"), got)
}

func TestResolveProjectDir_EnvVarOverride(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, filepath.Join(envDir, ".ecotrack"), got)
}

func TestResolveProjectDir_WithSuffix(t *testing.T) {
	isolateHome(t)
	got := config.ResolveProjectDir(context.Background(), "/my/project/.ecotrack", "")
	assert.Equal(t, "/my/project/.ecotrack", got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	want := writeProjectConfig(t, root, "output:\n  default_format: json\n")

	subDir := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(subDir, 0o755))

	got := config.ResolveProjectDir(context.Background(), "", subDir)
	assert.Equal(t, want, got)
}

func TestResolveProjectDir_NearestWins(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	dirA := filepath.Join(root, "a")
	dirB := filepath.Join(root, "a", "b")
	dirC := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(dirC, 0o755))
	writeProjectConfig(t, dirA, "{}\n")
	want := writeProjectConfig(t, dirB, "{}\n")

	got := config.ResolveProjectDir(context.Background(), "", dirC)
	assert.Equal(t, want, got, "should find nearest .ecotrack, not the one further up")
}

func TestResolveProjectDir_IgnoresGlobalDir(t *testing.T) {
	home := isolateHome(t)
	writeProjectConfig(t, home, "{}\n")

	work := filepath.Join(home, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))

	got := config.ResolveProjectDir(context.Background(), "", work)
	assert.Empty(t, got, "~/.ecotrack is the global config, not a project")
}

func TestResolveProjectDir_NoProject(t *testing.T) {
	isolateHome(t)
	got := config.ResolveProjectDir(context.Background(), "", t.TempDir())
	assert.Empty(t, got)
	assert.Empty(t, config.ResolveProjectDir(context.Background(), "", ""))
}

func TestSetResolvedProjectDir_RoundTrip(t *testing.T) {
	orig := config.GetResolvedProjectDir()
	t.Cleanup(func() { config.SetResolvedProjectDir(orig) })

	config.SetResolvedProjectDir("/some/project/.ecotrack")
	assert.Equal(t, "/some/project/.ecotrack", config.GetResolvedProjectDir())

	config.SetResolvedProjectDir("")
	assert.Empty(t, config.GetResolvedProjectDir())
}

func TestNewWithProjectDir_EmptyMatchesNew(t *testing.T) {
	isolateHome(t)

	cfgNew := config.New()
	cfgProject := config.NewWithProjectDir(context.Background(), "")

	assert.Equal(t, cfgNew.Output, cfgProject.Output)
	assert.Equal(t, cfgNew.Logging, cfgProject.Logging)
	assert.Equal(t, cfgNew.Impact, cfgProject.Impact)
	assert.Equal(t, cfgNew.Cache, cfgProject.Cache)
}

func TestNewWithProjectDir_DualPathScenario(t *testing.T) {
	isolateHome(t)
	customHome := t.TempDir()
	t.Setenv(config.EnvHome, customHome)

	require.NoError(t, os.WriteFile(filepath.Join(customHome, "config.yaml"),
		[]byte("output:\n  default_format: json\n"), 0o644))

	projectDir := writeProjectConfig(t, t.TempDir(), "logging:\n  level: debug\n  format: json\n")

	cfg := config.NewWithProjectDir(context.Background(), projectDir)
	require.NotNil(t, cfg)

	assert.Equal(t, "json", cfg.Output.DefaultFormat, "output format should come from global config")
	assert.Equal(t, "debug", cfg.Logging.Level, "logging level should come from project overlay")
	assert.Equal(t, filepath.Join(customHome, "cache"), cfg.Cache.Directory,
		"cache stays under the global config directory")
}

func TestNewWithProjectDir_CorruptedYAML(t *testing.T) {
	isolateHome(t)
	projectDir := writeProjectConfig(t, t.TempDir(), "{{{invalid yaml")

	cfg := config.NewWithProjectDir(context.Background(), projectDir)
	assert.NotNil(t, cfg)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestNewWithProjectDir_MissingConfigYAML(t *testing.T) {
	isolateHome(t)
	projectDir := filepath.Join(t.TempDir(), "project", ".ecotrack")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)
	assert.NotNil(t, cfg)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}
