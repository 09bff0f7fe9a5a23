package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/ecotrack/internal/cli"
	"github.com/rshade/ecotrack/internal/config"
)

const recordsCSV = `device_id,date,consumption_kwh
laptop,2024-03-01,2
laptop,2024-03-02,2
screen,2024-03-02,1
ghost,2024-03-03,1
laptop,2024-02-10,10
screen,2024-02-11,5
laptop,2024-01-05,20
laptop,2023-06-01,99
`

const devicesYAML = `devices:
  - id: laptop
    type: computer
    display_name: Work laptop
  - id: screen
    type: monitor
`

// setupCLITest isolates the config home and resets global state after the test.
// It returns the config home directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvOutputFormat, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

// writeFixture writes content to dir/name and returns the path.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeFixtures writes the standard record and device files.
func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return writeFixture(t, dir, "usage.csv", recordsCSV), writeFixture(t, dir, "devices.yaml", devicesYAML)
}

// executeCmd runs the root command with args and returns its stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}
