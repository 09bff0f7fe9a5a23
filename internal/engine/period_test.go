package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveComparisonPeriod(t *testing.T) {
	tests := []struct {
		name        string
		granularity Granularity
		ref         string
		current     [2]string
		previous    [2]string
	}{
		{
			name:        "month in leap year",
			granularity: GranularityMonth,
			ref:         "2024-03-15",
			current:     [2]string{"2024-03-01", "2024-03-15"},
			previous:    [2]string{"2024-02-01", "2024-02-29"},
		},
		{
			name:        "month in non-leap year",
			granularity: GranularityMonth,
			ref:         "2023-03-31",
			current:     [2]string{"2023-03-01", "2023-03-31"},
			previous:    [2]string{"2023-02-01", "2023-02-28"},
		},
		{
			name:        "january wraps to december",
			granularity: GranularityMonth,
			ref:         "2024-01-01",
			current:     [2]string{"2024-01-01", "2024-01-01"},
			previous:    [2]string{"2023-12-01", "2023-12-31"},
		},
		{
			name:        "first quarter wraps to previous year",
			granularity: GranularityQuarter,
			ref:         "2024-02-10",
			current:     [2]string{"2024-01-01", "2024-02-10"},
			previous:    [2]string{"2023-10-01", "2023-12-31"},
		},
		{
			name:        "second quarter",
			granularity: GranularityQuarter,
			ref:         "2024-06-30",
			current:     [2]string{"2024-04-01", "2024-06-30"},
			previous:    [2]string{"2024-01-01", "2024-03-31"},
		},
		{
			name:        "third quarter",
			granularity: GranularityQuarter,
			ref:         "2024-07-01",
			current:     [2]string{"2024-07-01", "2024-07-01"},
			previous:    [2]string{"2024-04-01", "2024-06-30"},
		},
		{
			name:        "fourth quarter",
			granularity: GranularityQuarter,
			ref:         "2024-11-20",
			current:     [2]string{"2024-10-01", "2024-11-20"},
			previous:    [2]string{"2024-07-01", "2024-09-30"},
		},
		{
			name:        "year",
			granularity: GranularityYear,
			ref:         "2024-03-15",
			current:     [2]string{"2024-01-01", "2024-03-15"},
			previous:    [2]string{"2023-01-01", "2023-12-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolveComparisonPeriod(tt.granularity, day(t, tt.ref))
			require.NoError(t, err)

			assert.Equal(t, tt.granularity, p.Granularity)
			assert.Equal(t, tt.current[0], p.Current.Start.Format(DayLayout))
			assert.Equal(t, tt.current[1], p.Current.End.Format(DayLayout))
			assert.Equal(t, tt.previous[0], p.Previous.Start.Format(DayLayout))
			assert.Equal(t, tt.previous[1], p.Previous.End.Format(DayLayout))

			// Contiguous and non-overlapping.
			assert.Equal(t, p.Current.Start, p.Previous.End.AddDate(0, 0, 1))
			assert.True(t, p.Previous.End.Before(p.Current.Start))
		})
	}
}

func TestResolveComparisonPeriod_LeapDayPrevious(t *testing.T) {
	p, err := ResolveComparisonPeriod(GranularityMonth, day(t, "2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, 29, p.Previous.Days())
	assert.Equal(t, 15, p.Current.Days())
}

func TestResolveComparisonPeriod_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*60*60)
	ref := time.Date(2024, 3, 15, 23, 59, 0, 0, loc)

	p, err := ResolveComparisonPeriod(GranularityMonth, ref)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", p.Current.End.Format(DayLayout))
}

func TestResolveComparisonPeriod_UnknownGranularity(t *testing.T) {
	_, err := ResolveComparisonPeriod(Granularity("week"), day(t, "2024-03-15"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveComparisonPeriodNow(t *testing.T) {
	p, err := ResolveComparisonPeriodNow(GranularityYear)
	require.NoError(t, err)
	assert.Equal(t, time.January, p.Current.Start.Month())
	assert.Equal(t, 1, p.Current.Start.Day())
}

func TestComparisonPeriod_Prior(t *testing.T) {
	p, err := ResolveComparisonPeriod(GranularityQuarter, day(t, "2024-02-10"))
	require.NoError(t, err)

	prior, err := p.Prior()
	require.NoError(t, err)
	assert.Equal(t, "2023-07-01..2023-09-30", prior.String())
}

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"month", "QUARTER", " year "} {
		_, err := ParseGranularity(s)
		require.NoError(t, err, s)
	}
	_, err := ParseGranularity("decade")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
