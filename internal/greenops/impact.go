package greenops

import (
	"fmt"
	"math"
)

// CalculateImpact derives ImpactMetrics from signed energy saved and a
// recycled-device count using the default factors.
func CalculateImpact(energySavedKwh float64, devicesRecycled int) (ImpactMetrics, error) {
	return DefaultFactors().CalculateImpact(energySavedKwh, devicesRecycled)
}

// CalculateImpact derives ImpactMetrics using the receiver's factors.
//
// Negative energy saved means consumption went up. It is kept as-is on the
// result but clamped to zero before the CO2, tree, water and score
// conversions, which are therefore never negative.
func (f Factors) CalculateImpact(energySavedKwh float64, devicesRecycled int) (ImpactMetrics, error) {
	if !isFinite(energySavedKwh) {
		return ImpactMetrics{}, fmt.Errorf("%w: energy saved must be finite, got %v",
			ErrInvalidArgument, energySavedKwh)
	}
	if devicesRecycled < 0 {
		return ImpactMetrics{}, fmt.Errorf("%w: devices recycled cannot be negative, got %d",
			ErrInvalidArgument, devicesRecycled)
	}

	clamped := math.Max(energySavedKwh, 0)

	co2, err := f.CO2ReductionKg(clamped)
	if err != nil {
		return ImpactMetrics{}, err
	}
	trees, err := f.TreesEquivalent(co2)
	if err != nil {
		return ImpactMetrics{}, err
	}
	water, err := f.WaterSavedLiters(clamped)
	if err != nil {
		return ImpactMetrics{}, err
	}
	score, err := f.SustainabilityScore(clamped, devicesRecycled, co2)
	if err != nil {
		return ImpactMetrics{}, err
	}

	return ImpactMetrics{
		EnergySavedKwh:      energySavedKwh,
		CO2ReductionKg:      co2,
		TreesEquivalent:     trees,
		WaterSavedLiters:    water,
		DevicesRecycled:     devicesRecycled,
		SustainabilityScore: score,
	}, nil
}

// CompareImpact diffs two periods. Zero baselines follow PercentChange.
func CompareImpact(current, previous ImpactMetrics) ImpactComparison {
	return ImpactComparison{
		Current:  current,
		Previous: previous,
		PercentageChange: PercentageChange{
			EnergySaved:  PercentChange(current.EnergySavedKwh, previous.EnergySavedKwh),
			CO2Reduction: PercentChange(current.CO2ReductionKg, previous.CO2ReductionKg),
			SustainabilityScore: PercentChange(
				float64(current.SustainabilityScore),
				float64(previous.SustainabilityScore),
			),
		},
	}
}

// Equivalency renders the tree and water equivalencies of m for display.
// It returns an empty output when the CO2 reduction is below
// MinEquivalencyThresholdKg.
func Equivalency(m ImpactMetrics) EquivalencyOutput {
	if m.CO2ReductionKg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{IsEmpty: true}
	}

	trees := formatEquivalencyValue(m.TreesEquivalent)
	water := formatEquivalencyValue(m.WaterSavedLiters)

	return EquivalencyOutput{
		Results: []EquivalencyResult{
			{
				Type:           EquivalencyTreeYears,
				Value:          m.TreesEquivalent,
				FormattedValue: trees,
				Label:          "trees growing for a year",
			},
			{
				Type:           EquivalencyWaterLiters,
				Value:          m.WaterSavedLiters,
				FormattedValue: water,
				Label:          "liters of water",
			},
		},
		DisplayText: fmt.Sprintf("Equivalent to ~%s trees growing for a year and ~%s liters of water",
			trees, water),
		CompactText: fmt.Sprintf("(≈ %s trees, %s L)", trees, water),
	}
}

// formatEquivalencyValue keeps one decimal for values under ten so that
// fractional trees stay visible, and scales large values.
func formatEquivalencyValue(v float64) string {
	const smallValue = 10
	switch {
	case v >= LargeNumberThreshold:
		return FormatLarge(v)
	case v < smallValue:
		return FormatFloat(v, 1)
	default:
		return FormatNumber(int64(math.Round(v)))
	}
}
