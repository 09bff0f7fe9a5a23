package greenops

import (
	"fmt"
	"math"
)

// Factors is the single configuration object for the externally tunable
// parameters: the three impact conversion factors and the three score weight
// caps. The zero value is not usable; start from DefaultFactors.
type Factors struct {
	CO2PerKwh               float64 `yaml:"co2_per_kwh"                 json:"co2_per_kwh"`
	TreeAbsorptionKgPerYear float64 `yaml:"tree_absorption_kg_per_year" json:"tree_absorption_kg_per_year"`
	WaterLitersPerKwh       float64 `yaml:"water_liters_per_kwh"        json:"water_liters_per_kwh"`
	EnergyWeightCap         float64 `yaml:"energy_weight_cap"           json:"energy_weight_cap"`
	DeviceWeightCap         float64 `yaml:"device_weight_cap"           json:"device_weight_cap"`
	CO2WeightCap            float64 `yaml:"co2_weight_cap"              json:"co2_weight_cap"`
}

// DefaultFactors returns {co2PerKwh: 0.5, treeAbsorptionKgPerYear: 21,
// waterLitersPerKwh: 2, energyWeightCap: 40, deviceWeightCap: 30, co2WeightCap: 30}.
func DefaultFactors() Factors {
	return Factors{
		CO2PerKwh:               CO2KgPerKwh,
		TreeAbsorptionKgPerYear: TreeAbsorptionKgPerYear,
		WaterLitersPerKwh:       WaterLitersPerKwh,
		EnergyWeightCap:         EnergyWeightCap,
		DeviceWeightCap:         DeviceWeightCap,
		CO2WeightCap:            CO2WeightCap,
	}
}

// weightCapTolerance absorbs float noise when checking the caps sum to 100.
const weightCapTolerance = 1e-9

// Validate checks that every factor is positive and finite and that the
// weight caps sum to MaxSustainabilityScore.
func (f Factors) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"co2_per_kwh", f.CO2PerKwh},
		{"tree_absorption_kg_per_year", f.TreeAbsorptionKgPerYear},
		{"water_liters_per_kwh", f.WaterLitersPerKwh},
		{"energy_weight_cap", f.EnergyWeightCap},
		{"device_weight_cap", f.DeviceWeightCap},
		{"co2_weight_cap", f.CO2WeightCap},
	}
	for _, n := range named {
		if !isFinite(n.value) || n.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidArgument, n.name, n.value)
		}
	}

	sum := f.WeightCapSum()
	if math.Abs(sum-MaxSustainabilityScore) > weightCapTolerance {
		return fmt.Errorf("%w: weight caps must sum to %d, got %v",
			ErrInvalidArgument, MaxSustainabilityScore, sum)
	}
	return nil
}

// WeightCapSum returns the sum of the three score weight caps.
func (f Factors) WeightCapSum() float64 {
	return f.EnergyWeightCap + f.DeviceWeightCap + f.CO2WeightCap
}

// CO2ReductionKg converts energy saved to kg of CO2 avoided.
func (f Factors) CO2ReductionKg(energySavedKwh float64) (float64, error) {
	if err := checkMagnitude("energy saved kWh", energySavedKwh); err != nil {
		return 0, err
	}
	return energySavedKwh * f.CO2PerKwh, nil
}

// TreesEquivalent converts kg of CO2 to trees absorbing it over a year.
func (f Factors) TreesEquivalent(co2Kg float64) (float64, error) {
	if err := checkMagnitude("co2 kg", co2Kg); err != nil {
		return 0, err
	}
	return co2Kg / f.TreeAbsorptionKgPerYear, nil
}

// WaterSavedLiters converts energy saved to liters of water.
func (f Factors) WaterSavedLiters(energySavedKwh float64) (float64, error) {
	if err := checkMagnitude("energy saved kWh", energySavedKwh); err != nil {
		return 0, err
	}
	return energySavedKwh * f.WaterLitersPerKwh, nil
}
