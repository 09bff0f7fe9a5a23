package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/greenops"
)

// convertView is the JSON shape of the convert command.
type convertView struct {
	Watts           float64 `json:"watts"`
	HoursPerDay     float64 `json:"hours_per_day"`
	Days            int     `json:"days"`
	DailyKwh        float64 `json:"daily_kwh"`
	TotalKwh        float64 `json:"total_kwh"`
	CO2Kg           float64 `json:"co2_kg"`
	TreesEquivalent float64 `json:"trees_equivalent"`
	WaterLiters     float64 `json:"water_liters"`
	EquivalencyText string  `json:"equivalency_text,omitempty"`
	CO2PerKwh       float64 `json:"co2_per_kwh"`
}

// NewConvertCmd creates the convert command: energy and impact figures for a
// device of a given power draw.
func NewConvertCmd() *cobra.Command {
	var (
		watts  float64
		hours  float64
		days   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a power draw and daily usage into energy, CO2, trees and water",
		Example: `  # A 60 W bulb lit 5 hours a day
  ecotrack convert --watts 60 --hours 5

  # A 150 W workstation over a 30-day month, as JSON
  ecotrack convert --watts 150 --hours 8 --days 30 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}

			view, err := convertUsage(config.GetGlobalConfig().Impact, watts, hours, days)
			if err != nil {
				return err
			}

			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return renderConvert(cmd, view, config.GetOutputPrecision())
		},
	}

	cmd.Flags().Float64Var(&watts, "watts", 0, "power draw in watts")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours of use per day (0 to 24)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days of use")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("watts")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

// convertUsage runs the unit converters with factors.
func convertUsage(factors greenops.Factors, watts, hours float64, days int) (convertView, error) {
	daily, err := greenops.DailyConsumptionKwh(watts, hours)
	if err != nil {
		return convertView{}, err
	}
	total := daily * float64(days)

	co2, err := factors.CO2ReductionKg(total)
	if err != nil {
		return convertView{}, err
	}
	trees, err := factors.TreesEquivalent(co2)
	if err != nil {
		return convertView{}, err
	}
	water, err := factors.WaterSavedLiters(total)
	if err != nil {
		return convertView{}, err
	}

	eq := greenops.Equivalency(greenops.ImpactMetrics{
		EnergySavedKwh:   total,
		CO2ReductionKg:   co2,
		TreesEquivalent:  trees,
		WaterSavedLiters: water,
	})

	return convertView{
		Watts:           watts,
		HoursPerDay:     hours,
		Days:            days,
		DailyKwh:        daily,
		TotalKwh:        total,
		CO2Kg:           co2,
		TreesEquivalent: trees,
		WaterLiters:     water,
		EquivalencyText: eq.DisplayText,
		CO2PerKwh:       factors.CO2PerKwh,
	}, nil
}

func renderConvert(cmd *cobra.Command, v convertView, precision int) error {
	w := cmd.OutOrStdout()
	title := fmt.Sprintf("%s W for %s h/day over %d day(s)",
		formatValue(v.Watts, precision), formatValue(v.HoursPerDay, precision), v.Days)
	if err := renderHeading(w, title); err != nil {
		return err
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Daily energy kWh", formatValue(v.DailyKwh, precision)},
		{"Total energy kWh", formatValue(v.TotalKwh, precision)},
		{"CO2 kg", formatValue(v.CO2Kg, precision)},
		{"Trees for a year", formatValue(v.TreesEquivalent, precision)},
		{"Water L", formatValue(v.WaterLiters, precision)},
	})
	rightAlign(tbl, 2)
	tbl.Render()

	if v.EquivalencyText != "" {
		cmd.Println(v.EquivalencyText)
	}
	return nil
}
