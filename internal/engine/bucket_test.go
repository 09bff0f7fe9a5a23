package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) []ConsumptionRecord {
	t.Helper()
	return []ConsumptionRecord{
		rec(t, "d1", "2024-01-01", 2),
		rec(t, "d1", "2024-01-01", 0.1),
		rec(t, "d1", "2024-01-02", 4),
		rec(t, "d2", "2024-01-02", 0.7),
		rec(t, "d2", "2024-01-08", 1.3),
		rec(t, "d3", "2024-02-01", 0.2),
		rec(t, "ghost", "2024-02-03", 5),
	}
}

func sampleLookup() DeviceLookup {
	return NewDeviceLookup([]DeviceDescriptor{
		{ID: "d1", Type: DeviceTypeComputer, DisplayName: "Laptop"},
		{ID: "d2", Type: DeviceTypeMonitor, DisplayName: "Screen"},
		{ID: "d3", Type: DeviceTypeLighting, DisplayName: "Desk lamp"},
	})
}

func TestBucketByDay(t *testing.T) {
	got, err := BucketByDay(sampleRecords(t))
	require.NoError(t, err)

	assert.Len(t, got, 5)
	assert.InDelta(t, 2.1, got["2024-01-01"], 1e-12)
	assert.InDelta(t, 4.7, got["2024-01-02"], 1e-12)
	assert.InDelta(t, 1.3, got["2024-01-08"], 1e-12)
	assert.Zero(t, got.Get("2024-01-03"))
}

func TestBucketByWeek(t *testing.T) {
	got, err := BucketByWeek(sampleRecords(t))
	require.NoError(t, err)

	// 2024-01-01 is a Monday in ISO week 1.
	assert.InDelta(t, 6.8, got["2024-W01"], 1e-12)
	assert.InDelta(t, 1.3, got["2024-W02"], 1e-12)
	assert.InDelta(t, 5.2, got["2024-W05"], 1e-12)
}

func TestBucketByWeek_YearBoundary(t *testing.T) {
	// 2020-12-31 belongs to ISO week 53 of 2020; 2021-01-01 too.
	got, err := BucketByWeek([]ConsumptionRecord{
		rec(t, "d1", "2020-12-31", 1),
		rec(t, "d1", "2021-01-01", 1),
		rec(t, "d1", "2021-01-04", 1),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got["2020-W53"], 0)
	assert.InDelta(t, 1.0, got["2021-W01"], 0)
}

func TestBucketByMonth(t *testing.T) {
	got, err := BucketByMonth(sampleRecords(t))
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.InDelta(t, 8.1, got["2024-01"], 1e-12)
	assert.InDelta(t, 5.2, got["2024-02"], 1e-12)
}

func TestBucketByDevice(t *testing.T) {
	got, err := BucketByDevice(sampleRecords(t))
	require.NoError(t, err)

	assert.InDelta(t, 6.1, got["d1"], 1e-12)
	assert.InDelta(t, 2.0, got["d2"], 1e-12)
	assert.InDelta(t, 0.2, got["d3"], 1e-12)
	assert.InDelta(t, 5.0, got["ghost"], 1e-12)
}

func TestBucketByType(t *testing.T) {
	got, err := BucketByType(sampleRecords(t), sampleLookup())
	require.NoError(t, err)

	assert.InDelta(t, 6.1, got.Bucket["computer"], 1e-12)
	assert.InDelta(t, 2.0, got.Bucket["monitor"], 1e-12)
	assert.InDelta(t, 0.2, got.Bucket["lighting"], 1e-12)
	assert.InDelta(t, 5.0, got.Bucket["other"], 1e-12, "unknown devices stay in totals")

	assert.Equal(t, 1, got.Unattributed.Count)
	assert.InDelta(t, 5.0, got.Unattributed.Kwh, 1e-12)
	assert.Equal(t, []string{"ghost"}, got.Unattributed.DeviceIDs)

	t.Run("nil lookup sends everything to other", func(t *testing.T) {
		got, err := BucketByType(sampleRecords(t), nil)
		require.NoError(t, err)
		assert.Len(t, got.Bucket, 1)
		assert.Equal(t, 7, got.Unattributed.Count)
		assert.Equal(t, []string{"d1", "d2", "d3", "ghost"}, got.Unattributed.DeviceIDs)
	})
}

func TestBucketing_EmptyInput(t *testing.T) {
	got, err := BucketByDay(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	types, err := BucketByType(nil, sampleLookup())
	require.NoError(t, err)
	assert.Empty(t, types.Bucket)
	assert.Zero(t, types.Unattributed.Count)
}

func TestBucketing_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		r    ConsumptionRecord
	}{
		{name: "negative", r: rec(t, "d1", "2024-01-01", -0.1)},
		{name: "NaN", r: rec(t, "d1", "2024-01-01", math.NaN())},
		{name: "infinite", r: rec(t, "d1", "2024-01-01", math.Inf(1))},
		{name: "missing device id", r: rec(t, "", "2024-01-01", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BucketByDay([]ConsumptionRecord{tt.r})
			require.ErrorIs(t, err, ErrInvalidArgument)

			_, err = BucketByType([]ConsumptionRecord{tt.r}, nil)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

// Shuffling the input must not change any bucket total, bit for bit.
func TestBucketing_OrderIndependent(t *testing.T) {
	base := sampleRecords(t)
	for i := range 40 {
		base = append(base, rec(t, "d2", "2024-01-15", 0.1*float64(i+1)))
	}
	lookup := sampleLookup()

	wantDays, err := BucketByDay(base)
	require.NoError(t, err)
	wantTypes, err := BucketByType(base, lookup)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		shuffled := make([]ConsumptionRecord, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		gotDays, err := BucketByDay(shuffled)
		require.NoError(t, err)
		assert.Equal(t, wantDays, gotDays)

		gotTypes, err := BucketByType(shuffled, lookup)
		require.NoError(t, err)
		assert.Equal(t, wantTypes, gotTypes)
	}
}

func TestBucketing_DoesNotMutateInput(t *testing.T) {
	records := []ConsumptionRecord{
		rec(t, "d2", "2024-01-02", 1),
		rec(t, "d1", "2024-01-01", 2),
	}
	_, err := BucketByDevice(records)
	require.NoError(t, err)
	assert.Equal(t, "d2", records[0].DeviceID)
}

func TestAggregate(t *testing.T) {
	records := sampleRecords(t)
	for _, g := range []GroupBy{GroupByDay, GroupByWeek, GroupByMonth, GroupByDevice, GroupByType} {
		t.Run(string(g), func(t *testing.T) {
			got, err := Aggregate(records, g, sampleLookup())
			require.NoError(t, err)
			assert.InDelta(t, 13.3, Total(got), 1e-9)
		})
	}

	_, err := Aggregate(records, GroupBy("hour"), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseGroupBy(t *testing.T) {
	g, err := ParseGroupBy("Week")
	require.NoError(t, err)
	assert.Equal(t, GroupByWeek, g)

	_, err = ParseGroupBy("fortnight")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
