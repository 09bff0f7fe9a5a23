package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/greenops"
)

// NewScoreCmd creates the score command. Without --co2 the CO2 reduction is
// derived from the energy saved and the full impact metrics are printed.
func NewScoreCmd() *cobra.Command {
	var (
		energySaved float64
		recycled    int
		co2         float64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the sustainability score",
		Long: `Computes the 0-100 sustainability score from energy saved, devices recycled
and CO2 reduced. Each term is capped separately (energy 40, devices 30, CO2 30
with default weights) and reaches its cap at 100 kWh, 10 devices and 50 kg.

A negative --energy-saved means consumption increased; it scores as zero.`,
		Example: `  # 60 kWh saved and 4 devices recycled
  ecotrack score --energy-saved 60 --recycled 4

  # With a CO2 figure measured elsewhere
  ecotrack score --energy-saved 60 --recycled 4 --co2 45`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			factors := config.GetGlobalConfig().Impact

			metrics, err := factors.CalculateImpact(energySaved, recycled)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("co2") {
				if metrics, err = withMeasuredCO2(factors, metrics, co2); err != nil {
					return err
				}
			}

			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), metrics)
			}
			return renderImpact(cmd.OutOrStdout(), "SUSTAINABILITY SCORE", metrics, config.GetOutputPrecision())
		},
	}

	cmd.Flags().Float64Var(&energySaved, "energy-saved", 0, "energy saved in kWh (negative when consumption rose)")
	cmd.Flags().IntVar(&recycled, "recycled", 0, "devices recycled")
	cmd.Flags().Float64Var(&co2, "co2", 0, "CO2 reduction in kg (default derived from --energy-saved)")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("energy-saved")

	return cmd
}

// withMeasuredCO2 replaces the derived CO2 figure, its tree equivalent and
// the score with values based on co2Kg.
func withMeasuredCO2(factors greenops.Factors, m greenops.ImpactMetrics, co2Kg float64) (greenops.ImpactMetrics, error) {
	trees, err := factors.TreesEquivalent(co2Kg)
	if err != nil {
		return greenops.ImpactMetrics{}, err
	}
	energy := m.EnergySavedKwh
	if energy < 0 {
		energy = 0
	}
	score, err := factors.SustainabilityScore(energy, m.DevicesRecycled, co2Kg)
	if err != nil {
		return greenops.ImpactMetrics{}, err
	}
	m.CO2ReductionKg = co2Kg
	m.TreesEquivalent = trees
	m.SustainabilityScore = score
	return m, nil
}
