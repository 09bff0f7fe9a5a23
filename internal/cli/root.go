package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the ecotrack CLI. It resolves
// the project overlay, loads configuration, wires logging and tracing, and
// registers the report, summary, convert, score, cache and config commands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "ecotrack",
		Short:         "Energy consumption and environmental impact reports",
		Long:          "ecotrack aggregates per-device energy readings into summaries, period comparisons and impact metrics.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cwd, err := os.Getwd()
			if err != nil {
				cwd = ""
			}
			resolved := config.ResolveProjectDir(ctx, projectDir, cwd)
			config.SetResolvedProjectDir(resolved)
			config.InitGlobalConfigWithProject(ctx, resolved)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .ecotrack/config.yaml (default: search upward from the working directory)")

	cmd.AddCommand(
		NewReportCmd(),
		NewSummaryCmd(),
		NewConvertCmd(),
		NewScoreCmd(),
		newCacheCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Compare this month with last month
  ecotrack report --records usage.csv --devices devices.yaml

  # Quarterly report as of a given day, as JSON
  ecotrack report --records usage.json --devices devices.yaml --granularity quarter --ref 2024-05-20 --output json

  # Weekly totals for March with an HTML chart
  ecotrack summary --records usage.csv --group-by week --from 2024-03-01 --to 2024-03-31 --chart march.html

  # Energy and impact of a 150 W device running 8 hours a day
  ecotrack convert --watts 150 --hours 8

  # Sustainability score for 60 kWh saved and 4 recycled devices
  ecotrack score --energy-saved 60 --recycled 4

  # Initialize configuration
  ecotrack config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Report cache maintenance"}
	cmd.AddCommand(NewCacheStatusCmd(), NewCacheClearCmd(), NewCachePruneCmd())
	return cmd
}
