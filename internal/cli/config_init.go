package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/ecotrack/internal/config"
)

// NewConfigInitCmd creates the config init command. With --project it
// creates a project-local .ecotrack/ directory holding config.yaml and a
// .gitignore; otherwise it writes the global ~/.ecotrack/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project that already has .ecotrack/config.yaml, or with --project-dir
or ECOTRACK_PROJECT_DIR set, the project-local file is written. --project
creates .ecotrack/ in the working directory. Otherwise the global
~/.ecotrack/config.yaml (or $ECOTRACK_HOME/config.yaml) is written.`,
		Example: `  # Create global configuration
  ecotrack config init

  # Create project-local configuration in the working directory
  ecotrack config init --project

  # Overwrite an existing file
  ecotrack config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()
			if projectDir == "" && project {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				projectDir = config.ResolveProjectDir(cmd.Context(), cwd, "")
			}

			if projectDir != "" {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create .ecotrack/ in the working directory")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if !force {
		_, err := os.Stat(configPath)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", configPath, err)
		}
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Defaults()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep cached reports and logs out of version control\n")
	}

	return nil
}

// initGlobalConfig creates global config at ~/.ecotrack/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Defaults()

	if !force {
		if _, err := os.Stat(cfg.ConfigPath()); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := config.EnsureSubDirs(); err != nil {
		return fmt.Errorf("failed to create config directories: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
