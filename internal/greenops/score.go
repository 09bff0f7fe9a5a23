package greenops

import "math"

// SustainabilityScore combines energy saved, devices recycled and CO2 reduced
// into an integer in [0, MaxSustainabilityScore] using the default weights.
//
//	energyScore = min(energySavedKwh / 100 * 40, 40)
//	deviceScore = min(devicesRecycled / 10 * 30, 30)
//	co2Score    = min(co2ReductionKg / 50 * 30, 30)
//	score       = round(min(energyScore + deviceScore + co2Score, 100))
//
// Inputs must already be clamped non-negative by the caller; negative or
// non-finite inputs return ErrInvalidArgument.
func SustainabilityScore(energySavedKwh float64, devicesRecycled int, co2ReductionKg float64) (int, error) {
	return DefaultFactors().SustainabilityScore(energySavedKwh, devicesRecycled, co2ReductionKg)
}

// SustainabilityScore computes the composite score with the receiver's weight caps.
// Each sub-score is capped on its own before summation, so a saturated term
// cannot make up for a weak one.
func (f Factors) SustainabilityScore(energySavedKwh float64, devicesRecycled int, co2ReductionKg float64) (int, error) {
	if err := checkMagnitude("energy saved kWh", energySavedKwh); err != nil {
		return 0, err
	}
	if err := checkMagnitude("devices recycled", float64(devicesRecycled)); err != nil {
		return 0, err
	}
	if err := checkMagnitude("co2 reduction kg", co2ReductionKg); err != nil {
		return 0, err
	}

	energyScore := subScore(energySavedKwh, EnergyTargetKwh, f.EnergyWeightCap)
	deviceScore := subScore(float64(devicesRecycled), DevicesRecycledTarget, f.DeviceWeightCap)
	co2Score := subScore(co2ReductionKg, CO2TargetKg, f.CO2WeightCap)

	// Unreachable when the caps sum to MaxSustainabilityScore.
	total := math.Min(energyScore+deviceScore+co2Score, MaxSustainabilityScore)

	return int(math.Round(total)), nil
}

// subScore scales value against target and caps the result at weight.
func subScore(value, target, weight float64) float64 {
	return math.Min(value/target*weight, weight)
}
