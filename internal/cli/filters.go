package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/logging"
)

// Filter keys accepted by --filter.
const (
	filterKeyDevice = "device"
	filterKeyType   = "type"
)

// ErrInvalidFilter is returned for filter expressions that are not key=value
// with a known key.
var ErrInvalidFilter = errors.New("invalid filter")

// ValidateFilter checks a single "key=value" expression.
func ValidateFilter(f string) error {
	key, value, ok := strings.Cut(f, "=")
	if !ok {
		return fmt.Errorf("%w: %q must be key=value", ErrInvalidFilter, f)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key != filterKeyDevice && key != filterKeyType {
		return fmt.Errorf("%w: unknown key %q (want %s or %s)", ErrInvalidFilter, key, filterKeyDevice, filterKeyType)
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %q has an empty value", ErrInvalidFilter, f)
	}
	return nil
}

// matchFilter reports whether rec satisfies a validated filter. Type
// filters resolve through lookup; devices missing from it count as other.
func matchFilter(rec engine.ConsumptionRecord, lookup engine.DeviceLookup, f string) bool {
	key, value, _ := strings.Cut(f, "=")
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case filterKeyDevice:
		return rec.DeviceID == value
	case filterKeyType:
		t, _ := lookup.TypeOf(rec.DeviceID)
		return t == engine.ParseDeviceType(value)
	default:
		return false
	}
}

// ApplyFilters validates every filter up front, then narrows records by each
// in turn. Empty filter strings are ignored. The input slice is not modified.
func ApplyFilters(
	ctx context.Context,
	records []engine.ConsumptionRecord,
	lookup engine.DeviceLookup,
	filters []string,
) ([]engine.ConsumptionRecord, error) {
	log := logging.FromContext(ctx)

	if len(filters) == 0 {
		return records, nil
	}

	for _, f := range filters {
		if f == "" {
			continue
		}
		if err := ValidateFilter(f); err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", f).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
	}

	result := records
	for _, f := range filters {
		if f == "" {
			continue
		}
		before := len(result)
		kept := make([]engine.ConsumptionRecord, 0, before)
		for _, rec := range result {
			if matchFilter(rec, lookup, f) {
				kept = append(kept, rec)
			}
		}
		result = kept
		log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Str("filter", f).
			Int("before", before).
			Int("after", len(result)).
			Msg("applied filter")
	}

	if len(result) == 0 && len(records) > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(records)).
			Msg("no records match filter criteria")
	}

	return result, nil
}
