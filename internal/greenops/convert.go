package greenops

import (
	"fmt"
	"math"
)

// isFinite reports whether v is neither NaN nor ±Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkMagnitude rejects negative and non-finite magnitudes.
func checkMagnitude(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidArgument, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative, got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

// DailyConsumptionKwh returns the energy drawn by a device rated at watts
// running hours per day. hours must lie in [0, MaxDailyUsageHours].
//
// Example:
//
//	kwh, err := DailyConsumptionKwh(60, 5) // 0.3
func DailyConsumptionKwh(watts, hours float64) (float64, error) {
	if err := checkMagnitude("watts", watts); err != nil {
		return 0, err
	}
	if err := checkMagnitude("hours", hours); err != nil {
		return 0, err
	}
	if hours > MaxDailyUsageHours {
		return 0, fmt.Errorf("%w: daily usage hours cannot exceed %v, got %v",
			ErrInvalidArgument, MaxDailyUsageHours, hours)
	}
	return watts * hours / WattsPerKilowatt, nil
}

// CO2ReductionKg converts energy saved to kg of CO2 using CO2KgPerKwh.
func CO2ReductionKg(energySavedKwh float64) (float64, error) {
	return DefaultFactors().CO2ReductionKg(energySavedKwh)
}

// TreesEquivalent converts kg of CO2 to trees using TreeAbsorptionKgPerYear.
func TreesEquivalent(co2Kg float64) (float64, error) {
	return DefaultFactors().TreesEquivalent(co2Kg)
}

// WaterSavedLiters converts energy saved to liters using WaterLitersPerKwh.
func WaterSavedLiters(energySavedKwh float64) (float64, error) {
	return DefaultFactors().WaterSavedLiters(energySavedKwh)
}

// PercentChange returns (current - baseline) / |baseline| * 100.
//
// A zero baseline is a defined case, not an error: ZeroBaselineGrowthPct when
// current is positive, ZeroBaselineFlatPct otherwise. The result is never NaN
// or Inf for finite inputs.
func PercentChange(current, baseline float64) float64 {
	if baseline == 0 {
		if current > 0 {
			return ZeroBaselineGrowthPct
		}
		return ZeroBaselineFlatPct
	}
	return (current - baseline) / math.Abs(baseline) * PercentageMultiplier
}
