package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecotrack/internal/config"
)

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, err := executeCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.FileExists(t, filepath.Join(home, "config.yaml"))
	assert.DirExists(t, filepath.Join(home, "cache"))

	_, err = executeCmd(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCmd(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ProjectFromEnv(t *testing.T) {
	home := setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	out, err := executeCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, out, "Created .gitignore")

	projectDir := filepath.Join(projectRoot, ".ecotrack")
	assert.FileExists(t, filepath.Join(projectDir, "config.yaml"))
	assert.NoFileExists(t, filepath.Join(home, "config.yaml"))

	gitignore, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(gitignore))
}

func TestConfigInit_ProjectFlagKeepsGitignore(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	projectDir := filepath.Join(projectRoot, ".ecotrack")
	custom := "# mine\n"
	writeFixture(t, mustMkdir(t, projectDir), ".gitignore", custom)
	t.Chdir(projectRoot)

	out, err := executeCmd(t, "config", "init", "--project")
	require.NoError(t, err)
	assert.NotContains(t, out, "Created .gitignore")

	gitignore, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(gitignore))
	assert.FileExists(t, filepath.Join(projectDir, "config.yaml"))
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "CO2 per kWh: 0.5 kg")
	assert.Contains(t, out, "Score weights: energy 40, devices 30, co2 30")

	setupCLITest(t)
	t.Setenv(config.EnvOutputFormat, "xml")
	_, err = executeCmd(t, "config", "validate")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigValidate_ProjectOverlay(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	projectDir := mustMkdir(t, filepath.Join(projectRoot, ".ecotrack"))
	writeFixture(t, projectDir, "config.yaml", "impact:\n  co2_per_kwh: 0.5\n  tree_absorption_kg_per_year: 21\n  water_liters_per_kwh: 2\n  energy_weight_cap: 50\n  device_weight_cap: 30\n  co2_weight_cap: 30\n")

	_, err := executeCmd(t, "--project-dir", projectRoot, "config", "validate")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigShow(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvOutputFormat, "json")

	out, err := executeCmd(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_format: json")
	assert.Contains(t, out, "co2_per_kwh: 0.5")
}

func mustMkdir(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	return dir
}
