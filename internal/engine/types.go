// Package engine aggregates per-device consumption records into period
// summaries, breakdowns and comparison windows.
//
// Every exported function is pure: it reads its arguments, allocates fresh
// results and never mutates caller-owned slices or maps. There are no
// goroutines, timers or caches here; callers own concurrency and memoization.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rshade/ecotrack/internal/greenops"
)

// Errors re-exported from greenops so engine callers need a single import.
var (
	ErrInvalidArgument = greenops.ErrInvalidArgument
	ErrDivisionDomain  = greenops.ErrDivisionDomain
)

// DayLayout is the bucket key layout for daily buckets and date ranges.
const DayLayout = "2006-01-02"

// DeviceType classifies a device for type breakdowns.
type DeviceType string

// Known device types.
const (
	DeviceTypeComputer  DeviceType = "computer"
	DeviceTypeMonitor   DeviceType = "monitor"
	DeviceTypePrinter   DeviceType = "printer"
	DeviceTypeAppliance DeviceType = "appliance"
	DeviceTypeLighting  DeviceType = "lighting"
	DeviceTypeOther     DeviceType = "other"
)

// DeviceTypes lists every known device type in display order.
func DeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeComputer, DeviceTypeMonitor, DeviceTypePrinter,
		DeviceTypeAppliance, DeviceTypeLighting, DeviceTypeOther,
	}
}

// ParseDeviceType maps s case-insensitively to a DeviceType.
// Unrecognized values map to DeviceTypeOther.
func ParseDeviceType(s string) DeviceType {
	t := DeviceType(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return DeviceTypeOther
}

// IsValid reports whether t is one of the known device types.
func (t DeviceType) IsValid() bool {
	switch t {
	case DeviceTypeComputer, DeviceTypeMonitor, DeviceTypePrinter,
		DeviceTypeAppliance, DeviceTypeLighting, DeviceTypeOther:
		return true
	default:
		return false
	}
}

// ConsumptionRecord is one energy reading for one device on one calendar day.
// Only the year, month and day of Date are used; no timezone conversion is done.
type ConsumptionRecord struct {
	DeviceID       string    `json:"device_id"`
	Date           time.Time `json:"date"`
	ConsumptionKwh float64   `json:"consumption_kwh"`
}

// DayKey returns the record's calendar day as YYYY-MM-DD.
func (r ConsumptionRecord) DayKey() string {
	return Day(r.Date).Format(DayLayout)
}

// DeviceDescriptor labels a device for aggregation.
type DeviceDescriptor struct {
	ID          string     `json:"id"           yaml:"id"`
	Type        DeviceType `json:"type"         yaml:"type"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
}

// DeviceLookup resolves device ids to descriptors.
type DeviceLookup map[string]DeviceDescriptor

// NewDeviceLookup indexes devices by id. Later duplicates win.
func NewDeviceLookup(devices []DeviceDescriptor) DeviceLookup {
	lookup := make(DeviceLookup, len(devices))
	for _, d := range devices {
		lookup[d.ID] = d
	}
	return lookup
}

// TypeOf returns the device type of id and whether the id was known.
// Unknown ids resolve to DeviceTypeOther.
func (l DeviceLookup) TypeOf(id string) (DeviceType, bool) {
	d, ok := l[id]
	if !ok {
		return DeviceTypeOther, false
	}
	if !d.Type.IsValid() {
		return DeviceTypeOther, true
	}
	return d.Type, true
}

// Day truncates t to midnight UTC of its own calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a validated range from two days.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks Start <= End.
func (r DateRange) Validate() error {
	if Day(r.Start).After(Day(r.End)) {
		return fmt.Errorf("%w: range start %s is after end %s",
			ErrInvalidArgument, r.Start.Format(DayLayout), r.End.Format(DayLayout))
	}
	return nil
}

// Contains reports whether the calendar day of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	n := 0
	for d := Day(r.Start); !d.After(Day(r.End)); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// String renders the range as YYYY-MM-DD..YYYY-MM-DD.
func (r DateRange) String() string {
	return r.Start.Format(DayLayout) + ".." + r.End.Format(DayLayout)
}

// Bucket maps a bucket key (day, week, month, device id or device type) to a
// non-negative kWh total. Keys only exist for data that was present; a
// missing key reads as zero.
type Bucket map[string]float64

// Get returns the total for key, or zero when absent.
func (b Bucket) Get(key string) float64 {
	return b[key]
}

// Clone returns an independent copy of b.
func (b Bucket) Clone() Bucket {
	out := make(Bucket, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// PeriodSummary is the derived summary of one period.
type PeriodSummary struct {
	TotalKwh                      float64 `json:"total_kwh"`
	AverageDailyKwh               float64 `json:"average_daily_kwh"`
	ComparisonToPreviousPeriodPct float64 `json:"comparison_to_previous_period_pct"`
	ByDevice                      Bucket  `json:"by_device"`
	ByType                        Bucket  `json:"by_type"`
}

// BreakdownEntry is one row of a percentage-of-total breakdown.
type BreakdownEntry struct {
	Key        string  `json:"key"`
	TotalKwh   float64 `json:"total_kwh"`
	Percentage float64 `json:"percentage"`
}
