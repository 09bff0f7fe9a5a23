package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// GroupBy selects the bucket key of an aggregation.
type GroupBy string

// Supported groupings.
const (
	GroupByDay    GroupBy = "day"
	GroupByWeek   GroupBy = "week"
	GroupByMonth  GroupBy = "month"
	GroupByDevice GroupBy = "device"
	GroupByType   GroupBy = "type"
)

// ParseGroupBy parses a grouping name case-insensitively.
func ParseGroupBy(s string) (GroupBy, error) {
	g := GroupBy(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByDevice, GroupByType:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown grouping %q (want day, week, month, device or type)",
			ErrInvalidArgument, s)
	}
}

// UnattributedRecords describes records whose device id was missing from the
// lookup. They are still counted under DeviceTypeOther; this makes the
// fallback visible instead of silent.
type UnattributedRecords struct {
	Count     int      `json:"count"`
	Kwh       float64  `json:"kwh"`
	DeviceIDs []string `json:"device_ids,omitempty"`
}

// TypeBreakdown is the result of bucketing by device type.
type TypeBreakdown struct {
	Bucket       Bucket              `json:"bucket"`
	Unattributed UnattributedRecords `json:"unattributed"`
}

// ValidateRecord rejects records no aggregation can represent.
func ValidateRecord(r ConsumptionRecord) error {
	if r.DeviceID == "" {
		return fmt.Errorf("%w: record on %s has no device id", ErrInvalidArgument, r.DayKey())
	}
	if math.IsNaN(r.ConsumptionKwh) || math.IsInf(r.ConsumptionKwh, 0) {
		return fmt.Errorf("%w: device %s on %s has non-finite consumption",
			ErrInvalidArgument, r.DeviceID, r.DayKey())
	}
	if r.ConsumptionKwh < 0 {
		return fmt.Errorf("%w: device %s on %s has negative consumption %v",
			ErrInvalidArgument, r.DeviceID, r.DayKey(), r.ConsumptionKwh)
	}
	return nil
}

// bucketBy sums consumption under key(record). Records are visited in a
// canonical order so float totals do not depend on input order.
func bucketBy(records []ConsumptionRecord, key func(ConsumptionRecord) string) (Bucket, error) {
	ordered, err := canonicalOrder(records)
	if err != nil {
		return nil, err
	}
	out := make(Bucket)
	for _, r := range ordered {
		out[key(r)] += r.ConsumptionKwh
	}
	return out, nil
}

// canonicalOrder validates records and returns a sorted copy.
func canonicalOrder(records []ConsumptionRecord) ([]ConsumptionRecord, error) {
	for _, r := range records {
		if err := ValidateRecord(r); err != nil {
			return nil, err
		}
	}
	sorted := make([]ConsumptionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ka, kb := a.DayKey(), b.DayKey(); ka != kb {
			return ka < kb
		}
		if a.DeviceID != b.DeviceID {
			return a.DeviceID < b.DeviceID
		}
		return a.ConsumptionKwh < b.ConsumptionKwh
	})
	return sorted, nil
}

// BucketByDay totals records per calendar day, keyed YYYY-MM-DD.
func BucketByDay(records []ConsumptionRecord) (Bucket, error) {
	return bucketBy(records, ConsumptionRecord.DayKey)
}

// BucketByWeek totals records per ISO-8601 week, keyed YYYY-Www.
func BucketByWeek(records []ConsumptionRecord) (Bucket, error) {
	return bucketBy(records, func(r ConsumptionRecord) string {
		year, week := Day(r.Date).ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	})
}

// BucketByMonth totals records per calendar month, keyed YYYY-MM.
func BucketByMonth(records []ConsumptionRecord) (Bucket, error) {
	return bucketBy(records, func(r ConsumptionRecord) string {
		return Day(r.Date).Format("2006-01")
	})
}

// BucketByDevice totals records per device id.
func BucketByDevice(records []ConsumptionRecord) (Bucket, error) {
	return bucketBy(records, func(r ConsumptionRecord) string {
		return r.DeviceID
	})
}

// BucketByType totals records per device type. Records whose device id is
// not in lookup are counted under DeviceTypeOther and reported in
// Unattributed.
func BucketByType(records []ConsumptionRecord, lookup DeviceLookup) (TypeBreakdown, error) {
	ordered, err := canonicalOrder(records)
	if err != nil {
		return TypeBreakdown{}, err
	}

	result := TypeBreakdown{Bucket: make(Bucket)}
	seen := make(map[string]bool)
	for _, r := range ordered {
		t, known := lookup.TypeOf(r.DeviceID)
		result.Bucket[string(t)] += r.ConsumptionKwh
		if known {
			continue
		}
		result.Unattributed.Count++
		result.Unattributed.Kwh += r.ConsumptionKwh
		if !seen[r.DeviceID] {
			seen[r.DeviceID] = true
			result.Unattributed.DeviceIDs = append(result.Unattributed.DeviceIDs, r.DeviceID)
		}
	}
	sort.Strings(result.Unattributed.DeviceIDs)
	return result, nil
}

// Aggregate dispatches to the bucketing function selected by groupBy.
// lookup is only consulted for GroupByType.
func Aggregate(records []ConsumptionRecord, groupBy GroupBy, lookup DeviceLookup) (Bucket, error) {
	switch groupBy {
	case GroupByDay:
		return BucketByDay(records)
	case GroupByWeek:
		return BucketByWeek(records)
	case GroupByMonth:
		return BucketByMonth(records)
	case GroupByDevice:
		return BucketByDevice(records)
	case GroupByType:
		tb, err := BucketByType(records, lookup)
		if err != nil {
			return nil, err
		}
		return tb.Bucket, nil
	default:
		return nil, fmt.Errorf("%w: unknown grouping %q", ErrInvalidArgument, groupBy)
	}
}
