package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rshade/ecotrack/internal/engine"
)

// RecordSetHash returns a SHA256 digest of records that is independent of
// their order.
func RecordSetHash(records []engine.ConsumptionRecord) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.DeviceID + "|" + r.DayKey() + "|" +
			strconv.FormatFloat(r.ConsumptionKwh, 'g', -1, 64)
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		_, _ = h.Write([]byte(l))
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DeviceSetHash returns a SHA256 digest of a device lookup.
func DeviceSetHash(lookup engine.DeviceLookup) string {
	ids := make([]string, 0, len(lookup))
	for id := range lookup {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		_, _ = fmt.Fprintf(h, "%s|%s\n", id, lookup[id].Type)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// KeyParams identifies one memoized computation.
type KeyParams struct {
	// Operation names the computation, e.g. "report" or "summary".
	Operation string

	// RecordSetHash is the RecordSetHash of the input records.
	RecordSetHash string

	// Ranges are the date windows the computation covered.
	Ranges []engine.DateRange

	// Extra holds any other inputs that change the result (top-n, factors, ...).
	Extra map[string]string
}

// GenerateKey returns a deterministic key for params. Operation is
// normalized for case and surrounding space; Extra is read in key order.
func GenerateKey(params KeyParams) (string, error) {
	op := strings.ToLower(strings.TrimSpace(params.Operation))
	if op == "" {
		return "", ErrInvalidCacheKey
	}

	var b strings.Builder
	b.WriteString(op)
	b.WriteString("\x00")
	b.WriteString(params.RecordSetHash)
	for _, r := range params.Ranges {
		b.WriteString("\x00")
		b.WriteString(r.String())
	}

	keys := make([]string, 0, len(params.Extra))
	for k := range params.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\x00")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params.Extra[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return op + "-" + hex.EncodeToString(sum[:]), nil
}
