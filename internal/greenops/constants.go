package greenops

// Conversion constants. These are simple linear models, not fitted values.
//
//	kWh          = watts * hours / WattsPerKilowatt
//	co2Kg        = kWh * CO2KgPerKwh
//	trees        = co2Kg / TreeAbsorptionKgPerYear
//	waterLiters  = kWh * WaterLitersPerKwh
const (
	// WattsPerKilowatt converts a watt-hour product into kWh.
	WattsPerKilowatt = 1000.0

	// MaxDailyUsageHours bounds hours-denominated inputs to a single day.
	MaxDailyUsageHours = 24.0

	// CO2KgPerKwh is kg of CO2 avoided per kWh saved.
	CO2KgPerKwh = 0.5

	// TreeAbsorptionKgPerYear is kg of CO2 one tree absorbs per year.
	TreeAbsorptionKgPerYear = 21.0

	// WaterLitersPerKwh is liters of water saved per kWh not generated.
	WaterLitersPerKwh = 2.0
)

// Sustainability score weights. Each sub-score saturates at its cap once its
// target is reached; the caps sum to MaxSustainabilityScore.
const (
	// EnergyWeightCap is the maximum contribution of energy saved.
	EnergyWeightCap = 40.0

	// DeviceWeightCap is the maximum contribution of recycled devices.
	DeviceWeightCap = 30.0

	// CO2WeightCap is the maximum contribution of CO2 reduced.
	CO2WeightCap = 30.0

	// EnergyTargetKwh is the energy saved that earns the full energy weight.
	EnergyTargetKwh = 100.0

	// DevicesRecycledTarget is the device count that earns the full device weight.
	DevicesRecycledTarget = 10.0

	// CO2TargetKg is the CO2 reduction that earns the full CO2 weight.
	CO2TargetKg = 50.0

	// MaxSustainabilityScore is the upper bound of the composite score.
	MaxSustainabilityScore = 100
)

// Percentage change against a zero baseline is defined rather than divided:
// any growth from nothing reports ZeroBaselineGrowthPct, no change reports
// ZeroBaselineFlatPct. The two are deliberately asymmetric.
const (
	ZeroBaselineGrowthPct = 100.0
	ZeroBaselineFlatPct   = 0.0

	// PercentageMultiplier scales a ratio to a percentage.
	PercentageMultiplier = 100.0
)

// Display threshold constants control when equivalencies are shown.
const (
	// MinEquivalencyThresholdKg is the CO2 below which equivalencies are omitted
	// because they round to nothing.
	MinEquivalencyThresholdKg = 0.01

	// LargeNumberThreshold is the threshold for "~X.X million" display.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the threshold for billion-scale display.
	BillionThreshold = 1_000_000_000
)
