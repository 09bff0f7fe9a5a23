package engine

import (
	"fmt"
	"sort"

	"github.com/rshade/ecotrack/internal/greenops"
)

// Baseline is the optional previous-period total a summary compares against.
type Baseline struct {
	Kwh float64
	Set bool
}

// NoBaseline reports 0% change.
func NoBaseline() Baseline { return Baseline{} }

// BaselineOf compares against kwh.
func BaselineOf(kwh float64) Baseline { return Baseline{Kwh: kwh, Set: true} }

// Keys returns the bucket keys in ascending order.
func (b Bucket) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total sums every value in b. Keys are visited in sorted order so that the
// float result is the same on every call.
func Total(b Bucket) float64 {
	var sum float64
	for _, k := range b.Keys() {
		sum += b[k]
	}
	return sum
}

// AverageDaily divides total by the number of day keys in dayBucket.
// It returns ErrDivisionDomain when dayBucket has no keys; a day with a zero
// value still counts.
func AverageDaily(total float64, dayBucket Bucket) (float64, error) {
	if len(dayBucket) == 0 {
		return 0, fmt.Errorf("%w: average daily consumption needs at least one day", ErrDivisionDomain)
	}
	return total / float64(len(dayBucket)), nil
}

// PercentageChange compares current with baseline. A zero baseline yields
// greenops.ZeroBaselineGrowthPct when current is positive and
// greenops.ZeroBaselineFlatPct otherwise.
func PercentageChange(current, baseline float64) float64 {
	return greenops.PercentChange(current, baseline)
}

// FillDays returns a copy of dayBucket with a zero entry for every day of r
// that has no readings. Keys outside r are kept.
func FillDays(dayBucket Bucket, r DateRange) (Bucket, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := dayBucket.Clone()
	for d := Day(r.Start); !d.After(Day(r.End)); d = d.AddDate(0, 0, 1) {
		key := d.Format(DayLayout)
		if _, ok := out[key]; !ok {
			out[key] = 0
		}
	}
	return out, nil
}

// SummarizeBuckets assembles a PeriodSummary from precomputed buckets.
func SummarizeBuckets(dayBucket, byDevice, byType Bucket, baseline Baseline) (PeriodSummary, error) {
	total := Total(dayBucket)
	avg, err := AverageDaily(total, dayBucket)
	if err != nil {
		return PeriodSummary{}, err
	}

	pct := greenops.ZeroBaselineFlatPct
	if baseline.Set {
		pct = PercentageChange(total, baseline.Kwh)
	}

	return PeriodSummary{
		TotalKwh:                      total,
		AverageDailyKwh:               avg,
		ComparisonToPreviousPeriodPct: pct,
		ByDevice:                      byDevice.Clone(),
		ByType:                        byType.Clone(),
	}, nil
}

// Summarize buckets records and builds their PeriodSummary. The average is
// taken over the distinct days present in records; use SummarizeRange to
// average over every day of a window.
func Summarize(records []ConsumptionRecord, lookup DeviceLookup, baseline Baseline) (PeriodSummary, error) {
	return summarize(records, lookup, baseline, nil)
}

// SummarizeRange is Summarize with the day bucket padded to every day of r.
func SummarizeRange(records []ConsumptionRecord, lookup DeviceLookup, r DateRange, baseline Baseline) (PeriodSummary, error) {
	return summarize(records, lookup, baseline, &r)
}

func summarize(records []ConsumptionRecord, lookup DeviceLookup, baseline Baseline, window *DateRange) (PeriodSummary, error) {
	days, err := BucketByDay(records)
	if err != nil {
		return PeriodSummary{}, err
	}
	if window != nil {
		if days, err = FillDays(days, *window); err != nil {
			return PeriodSummary{}, err
		}
	}
	devices, err := BucketByDevice(records)
	if err != nil {
		return PeriodSummary{}, err
	}
	types, err := BucketByType(records, lookup)
	if err != nil {
		return PeriodSummary{}, err
	}
	return SummarizeBuckets(days, devices, types.Bucket, baseline)
}
