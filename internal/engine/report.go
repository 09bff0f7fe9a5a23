package engine

import (
	"context"
	"fmt"

	"github.com/rshade/ecotrack/internal/greenops"
	"github.com/rshade/ecotrack/internal/logging"
)

// DefaultTopN is the number of devices ranked in a report when unset.
const DefaultTopN = 5

// ReportInput carries already-fetched records for each window of a
// comparison period. The prior window counts as measured when Prior holds
// records or PriorKnown is set; otherwise the previous period's energy saved
// is zero.
type ReportInput struct {
	Period   ComparisonPeriod
	Current  []ConsumptionRecord
	Previous []ConsumptionRecord
	Prior    []ConsumptionRecord
	Devices  DeviceLookup

	// PriorKnown marks an empty Prior as an idle window rather than missing data.
	PriorKnown bool

	// DevicesRecycled counts devices recycled during each window.
	DevicesRecycled         int
	PreviousDevicesRecycled int

	// TopN limits the device ranking; zero means DefaultTopN, negative keeps all.
	TopN int

	// Factors overrides the default conversion factors and weights.
	Factors *greenops.Factors
}

// Report is the read-only result of one pipeline run.
type Report struct {
	Period        ComparisonPeriod           `json:"period"`
	Current       PeriodSummary              `json:"current"`
	Previous      PeriodSummary              `json:"previous"`
	TypeBreakdown []BreakdownEntry           `json:"type_breakdown"`
	TopDevices    []BreakdownEntry           `json:"top_devices"`
	Unattributed  UnattributedRecords        `json:"unattributed"`
	Impact        greenops.ImpactComparison  `json:"impact"`
	Equivalency   greenops.EquivalencyOutput `json:"equivalency"`
}

// WindowTotal validates that records fall inside r and returns their total.
func WindowTotal(records []ConsumptionRecord, r DateRange) (float64, error) {
	if err := checkWindow(records, r); err != nil {
		return 0, err
	}
	days, err := BucketByDay(records)
	if err != nil {
		return 0, err
	}
	return Total(days), nil
}

func checkWindow(records []ConsumptionRecord, r DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, rec := range records {
		if !r.Contains(rec.Date) {
			return fmt.Errorf("%w: record for %s on %s is outside window %s",
				ErrInvalidArgument, rec.DeviceID, rec.DayKey(), r)
		}
	}
	return nil
}

// BuildReport runs the aggregation and impact pipeline over the windows of
// in.Period and diffs them. Each window is computed independently.
func BuildReport(ctx context.Context, in ReportInput) (*Report, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "BuildReport").
		Logger()

	factors := greenops.DefaultFactors()
	if in.Factors != nil {
		factors = *in.Factors
	}
	if err := factors.Validate(); err != nil {
		return nil, fmt.Errorf("impact factors: %w", err)
	}

	if err := checkWindow(in.Current, in.Period.Current); err != nil {
		return nil, fmt.Errorf("current window: %w", err)
	}
	if err := checkWindow(in.Previous, in.Period.Previous); err != nil {
		return nil, fmt.Errorf("previous window: %w", err)
	}

	previous, err := SummarizeRange(in.Previous, in.Devices, in.Period.Previous, NoBaseline())
	if err != nil {
		return nil, fmt.Errorf("summarizing previous window: %w", err)
	}
	current, err := SummarizeRange(in.Current, in.Devices, in.Period.Current, BaselineOf(previous.TotalKwh))
	if err != nil {
		return nil, fmt.Errorf("summarizing current window: %w", err)
	}

	// The previous window is measured against the one before it when known.
	priorTotal := previous.TotalKwh
	if in.PriorKnown || len(in.Prior) > 0 {
		priorRange, priorErr := in.Period.Prior()
		if priorErr != nil {
			return nil, priorErr
		}
		if priorTotal, err = WindowTotal(in.Prior, priorRange); err != nil {
			return nil, fmt.Errorf("prior window: %w", err)
		}
		previous.ComparisonToPreviousPeriodPct = PercentageChange(previous.TotalKwh, priorTotal)
	}

	currentImpact, err := factors.CalculateImpact(previous.TotalKwh-current.TotalKwh, in.DevicesRecycled)
	if err != nil {
		return nil, fmt.Errorf("current impact: %w", err)
	}
	previousImpact, err := factors.CalculateImpact(priorTotal-previous.TotalKwh, in.PreviousDevicesRecycled)
	if err != nil {
		return nil, fmt.Errorf("previous impact: %w", err)
	}

	types, err := BucketByType(in.Current, in.Devices)
	if err != nil {
		return nil, err
	}

	topN := in.TopN
	if topN == 0 {
		topN = DefaultTopN
	}

	report := &Report{
		Period:        in.Period,
		Current:       current,
		Previous:      previous,
		TypeBreakdown: Breakdown(types.Bucket, current.TotalKwh),
		TopDevices:    TopN(current.ByDevice, current.TotalKwh, topN),
		Unattributed:  types.Unattributed,
		Impact:        greenops.CompareImpact(currentImpact, previousImpact),
		Equivalency:   greenops.Equivalency(currentImpact),
	}

	if types.Unattributed.Count > 0 {
		logger.Warn().
			Int("records", types.Unattributed.Count).
			Strs("device_ids", types.Unattributed.DeviceIDs).
			Msg("records for unknown devices counted as other")
	}
	logger.Debug().
		Str("current", in.Period.Current.String()).
		Str("previous", in.Period.Previous.String()).
		Float64("current_kwh", current.TotalKwh).
		Float64("previous_kwh", previous.TotalKwh).
		Int("score", currentImpact.SustainabilityScore).
		Msg("report built")

	return report, nil
}

// Windows holds the records of one comparison period split by window.
type Windows struct {
	Current  []ConsumptionRecord
	Previous []ConsumptionRecord
	Prior    []ConsumptionRecord
	Outside  int

	// PriorKnown is set when any record falls on or before the prior window's
	// last day, so the data reaches back far enough to measure it.
	PriorKnown bool
}

// SplitWindows partitions records into the current, previous and prior
// windows of p. Records that fall in none of them are counted in Outside.
// The input slice is not modified.
func SplitWindows(records []ConsumptionRecord, p ComparisonPeriod) (Windows, error) {
	prior, err := p.Prior()
	if err != nil {
		return Windows{}, err
	}

	var w Windows
	for _, r := range records {
		switch {
		case p.Current.Contains(r.Date):
			w.Current = append(w.Current, r)
		case p.Previous.Contains(r.Date):
			w.Previous = append(w.Previous, r)
		case prior.Contains(r.Date):
			w.Prior = append(w.Prior, r)
		default:
			w.Outside++
		}
		if !Day(r.Date).After(Day(prior.End)) {
			w.PriorKnown = true
		}
	}
	return w, nil
}

// RecordsIn returns the records that fall inside r, in input order.
func RecordsIn(records []ConsumptionRecord, r DateRange) []ConsumptionRecord {
	var out []ConsumptionRecord
	for _, rec := range records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
