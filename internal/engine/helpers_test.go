package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// day parses a YYYY-MM-DD test date.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DayLayout, s)
	require.NoError(t, err)
	return d
}

func rec(t *testing.T, device, date string, kwh float64) ConsumptionRecord {
	t.Helper()
	return ConsumptionRecord{DeviceID: device, Date: day(t, date), ConsumptionKwh: kwh}
}
