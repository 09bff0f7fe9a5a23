package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecotrack/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the global file, the project overlay
and environment overrides.

This includes:
- Config version compatibility
- Output format and precision
- Log level and format
- Impact factors (positive, weight caps summing to 100)
- Cache TTL and maximum size`,
		Example: `  # Validate current configuration
  ecotrack config validate

  # Validate and show detailed information
  ecotrack config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project overlay: %s\n", dir)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  CO2 per kWh: %g kg\n", cfg.Impact.CO2PerKwh)
	cmd.Printf("  Score weights: energy %g, devices %g, co2 %g\n",
		cfg.Impact.EnergyWeightCap, cfg.Impact.DeviceWeightCap, cfg.Impact.CO2WeightCap)
	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: %s (ttl %ds, max %s)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds, cfg.Cache.MaxSize)
	} else {
		cmd.Println("  Cache: disabled")
	}
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(config.GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
