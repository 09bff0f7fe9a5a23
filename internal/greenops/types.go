// Package greenops converts energy figures into environmental impact metrics.
//
// It holds the fixed linear conversion models (kWh to CO2, CO2 to tree-years,
// kWh to liters of water), the weighted sustainability score and the
// period-over-period impact comparison. Every function is pure: inputs are
// values, outputs are freshly allocated and nothing is cached.
package greenops

import "fmt"

// EquivalencyType represents a category of environmental equivalency.
type EquivalencyType int

const (
	// EquivalencyTreeYears expresses CO2 as trees absorbing it for one year.
	EquivalencyTreeYears EquivalencyType = iota

	// EquivalencyWaterLiters expresses saved energy as liters of water not consumed.
	EquivalencyWaterLiters
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyTreeYears:
		return "TreeYears"
	case EquivalencyWaterLiters:
		return "WaterLiters"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// ImpactMetrics is the set of environmental figures derived from energy saved.
type ImpactMetrics struct {
	// EnergySavedKwh is signed: negative means consumption increased.
	EnergySavedKwh float64 `json:"energy_saved_kwh"`

	// CO2ReductionKg is never negative.
	CO2ReductionKg float64 `json:"co2_reduction_kg"`

	// TreesEquivalent is the number of trees absorbing CO2ReductionKg in a year.
	TreesEquivalent float64 `json:"trees_equivalent"`

	// WaterSavedLiters is never negative.
	WaterSavedLiters float64 `json:"water_saved_liters"`

	// DevicesRecycled is the count supplied by the caller.
	DevicesRecycled int `json:"devices_recycled"`

	// SustainabilityScore is bounded to 0..100.
	SustainabilityScore int `json:"sustainability_score"`
}

// ConsumptionIncreased reports whether the period used more energy than its baseline.
func (m ImpactMetrics) ConsumptionIncreased() bool {
	return m.EnergySavedKwh < 0
}

// PercentageChange holds the period-over-period deltas of an ImpactComparison.
type PercentageChange struct {
	EnergySaved         float64 `json:"energy_saved"`
	CO2Reduction        float64 `json:"co2_reduction"`
	SustainabilityScore float64 `json:"sustainability_score"`
}

// ImpactComparison pairs the impact of two periods with their percentage changes.
type ImpactComparison struct {
	Current          ImpactMetrics    `json:"current"`
	Previous         ImpactMetrics    `json:"previous"`
	PercentageChange PercentageChange `json:"percentage_change"`
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	// Type identifies the equivalency category.
	Type EquivalencyType `json:"type"`

	// Value is the raw calculated equivalency value.
	Value float64 `json:"value"`

	// FormattedValue is the display-ready string with separators/scaling.
	FormattedValue string `json:"formatted_value"`

	// Label is the descriptive phrase (e.g., "trees growing for a year").
	Label string `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to ~12 trees growing for a year and ~500 liters of water".
	DisplayText string `json:"display_text"`

	// CompactText is the abbreviated form, e.g. "(≈ 12 trees, 500 L)".
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}
