package engine

import (
	"sort"

	"github.com/rshade/ecotrack/internal/greenops"
)

// Breakdown returns one entry per bucket key, ordered by key, with each
// key's share of grandTotal. When grandTotal is zero every percentage is
// zero; no division takes place.
func Breakdown(b Bucket, grandTotal float64) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(b))
	for _, k := range b.Keys() {
		entries = append(entries, BreakdownEntry{
			Key:        k,
			TotalKwh:   b[k],
			Percentage: percentageOf(b[k], grandTotal),
		})
	}
	return entries
}

// TopN ranks bucket keys by total descending, ties broken by key ascending,
// and keeps the first n. n <= 0 keeps every entry. b is not modified.
func TopN(b Bucket, grandTotal float64, n int) []BreakdownEntry {
	ranked := Breakdown(b, grandTotal)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalKwh != ranked[j].TotalKwh {
			return ranked[i].TotalKwh > ranked[j].TotalKwh
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func percentageOf(value, grandTotal float64) float64 {
	if grandTotal == 0 {
		return 0
	}
	return value / grandTotal * greenops.PercentageMultiplier
}
