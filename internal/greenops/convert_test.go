package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyConsumptionKwh(t *testing.T) {
	tests := []struct {
		name    string
		watts   float64
		hours   float64
		want    float64
		wantErr bool
	}{
		{name: "laptop five hours", watts: 60, hours: 5, want: 0.3},
		{name: "full day", watts: 1000, hours: 24, want: 24},
		{name: "zero watts", watts: 0, hours: 8, want: 0},
		{name: "zero hours", watts: 150, hours: 0, want: 0},
		{name: "hours just over a day", watts: 100, hours: 24.0001, wantErr: true},
		{name: "negative watts", watts: -1, hours: 1, wantErr: true},
		{name: "negative hours", watts: 10, hours: -0.5, wantErr: true},
		{name: "NaN watts", watts: math.NaN(), hours: 1, wantErr: true},
		{name: "infinite hours", watts: 10, hours: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailyConsumptionKwh(tt.watts, tt.hours)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestDailyConsumptionKwh_Linearity(t *testing.T) {
	for w := 0.0; w <= 2000; w += 137.5 {
		for h := 0.0; h <= MaxDailyUsageHours; h += 1.5 {
			got, err := DailyConsumptionKwh(w, h)
			require.NoError(t, err)
			assert.InDelta(t, w*h/1000, got, 1e-9, "w=%v h=%v", w, h)
		}
	}
}

func TestImpactConverters(t *testing.T) {
	co2, err := CO2ReductionKg(42)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, co2, 1e-12)

	trees, err := TreesEquivalent(co2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, trees, 1e-12)

	water, err := WaterSavedLiters(42)
	require.NoError(t, err)
	assert.InDelta(t, 84.0, water, 1e-12)

	t.Run("negative inputs rejected", func(t *testing.T) {
		_, err := CO2ReductionKg(-1)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = TreesEquivalent(-0.1)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = WaterSavedLiters(-5)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		baseline float64
		want     float64
	}{
		{name: "growth from zero baseline", current: 5, baseline: 0, want: ZeroBaselineGrowthPct},
		{name: "flat zero", current: 0, baseline: 0, want: ZeroBaselineFlatPct},
		{name: "negative current against zero", current: -3, baseline: 0, want: ZeroBaselineFlatPct},
		{name: "doubling", current: 20, baseline: 10, want: 100},
		{name: "halving", current: 5, baseline: 10, want: -50},
		{name: "unchanged", current: 7, baseline: 7, want: 0},
		{name: "negative baseline improving", current: -5, baseline: -10, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.current, tt.baseline)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
		})
	}

	// The asymmetry is easy to get backwards.
	assert.NotEqual(t, ZeroBaselineGrowthPct, ZeroBaselineFlatPct)
}
