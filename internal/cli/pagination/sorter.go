package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/ecotrack/internal/engine"
)

// Sort fields for breakdown rows.
const (
	FieldKey        = "key"
	FieldKwh        = "kwh"
	FieldPercentage = "percentage"
)

// EntrySorter orders breakdown rows.
type EntrySorter struct {
	validFields map[string]bool
}

// NewEntrySorter returns a sorter accepting key, kwh and percentage.
func NewEntrySorter() *EntrySorter {
	return &EntrySorter{
		validFields: map[string]bool{
			FieldKey:        true,
			FieldKwh:        true,
			FieldPercentage: true,
		},
	}
}

// IsValidField checks if the field can be sorted on.
func (s *EntrySorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns the sortable fields in a stable order.
func (s *EntrySorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for f := range s.validFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of entries. Ties on kWh or percentage fall back
// to the key so output is deterministic.
func (s *EntrySorter) Sort(entries []engine.BreakdownEntry, field, order string) ([]engine.BreakdownEntry, error) {
	if !s.IsValidField(field) {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.GetValidFields(), ", "))
	}

	sorted := make([]engine.BreakdownEntry, len(entries))
	copy(sorted, entries)

	desc := order == SortOrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var less, equal bool
		switch field {
		case FieldKwh:
			less, equal = a.TotalKwh < b.TotalKwh, a.TotalKwh == b.TotalKwh
		case FieldPercentage:
			less, equal = a.Percentage < b.Percentage, a.Percentage == b.Percentage
		default:
			less, equal = a.Key < b.Key, a.Key == b.Key
		}
		if equal {
			return a.Key < b.Key
		}
		if desc {
			return !less
		}
		return less
	})
	return sorted, nil
}
