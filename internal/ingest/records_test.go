package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/ingest"
)

func TestReadRecordsCSV(t *testing.T) {
	input := "device_id,date,consumption_kwh\n" +
		"laptop,2024-01-01,1.5\n" +
		"fridge, 2024-01-02 ,3\n"

	records, err := ingest.ReadRecordsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "laptop", records[0].DeviceID)
	assert.Equal(t, "2024-01-01", records[0].DayKey())
	assert.InDelta(t, 1.5, records[0].ConsumptionKwh, 1e-12)
	assert.Equal(t, "2024-01-02", records[1].DayKey())
}

func TestReadRecordsCSV_ColumnOrderAndCase(t *testing.T) {
	input := "Consumption_KWh,Device_ID,extra,Date\n2.25,tv,x,2024-02-29\n"

	records, err := ingest.ReadRecordsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "tv", records[0].DeviceID)
	assert.Equal(t, "2024-02-29", records[0].DayKey())
}

func TestReadRecordsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing header",
			input:   "device_id,date\nlaptop,2024-01-01\n",
			wantErr: ingest.ErrMalformedInput,
			wantMsg: "consumption_kwh",
		},
		{
			name:    "bad number",
			input:   "device_id,date,consumption_kwh\nlaptop,2024-01-01,lots\n",
			wantErr: ingest.ErrMalformedInput,
			wantMsg: "line 2",
		},
		{
			name:    "bad date",
			input:   "device_id,date,consumption_kwh\nlaptop,2024-01-01,1\nlaptop,yesterday,1\n",
			wantErr: ingest.ErrMalformedInput,
			wantMsg: "line 3",
		},
		{
			name:    "empty device",
			input:   "device_id,date,consumption_kwh\n,2024-01-01,1\n",
			wantErr: ingest.ErrMalformedInput,
		},
		{
			name:    "negative consumption",
			input:   "device_id,date,consumption_kwh\nlaptop,2024-01-01,-1\n",
			wantErr: engine.ErrInvalidArgument,
		},
		{
			name:    "nan consumption",
			input:   "device_id,date,consumption_kwh\nlaptop,2024-01-01,NaN\n",
			wantErr: engine.ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.ReadRecordsCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestReadRecordsCSV_Empty(t *testing.T) {
	records, err := ingest.ReadRecordsCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecordsJSON(t *testing.T) {
	input := `[
		{"device_id": "laptop", "date": "2024-01-01", "consumption_kwh": 1.5},
		{"device_id": "fridge", "date": "2024-01-02T23:30:00+05:00", "consumption_kwh": 0}
	]`

	records, err := ingest.ReadRecordsJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-01", records[0].DayKey())
	// The wall-clock date is kept as written.
	assert.Equal(t, "2024-01-02", records[1].DayKey())
}

func TestReadRecordsJSON_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"not an array", `{"device_id": "x"}`, ""},
		{"missing field", `[{"device_id": "x", "date": "2024-01-01"}]`, "consumption_kwh"},
		{"negative", `[{"device_id": "x", "date": "2024-01-01", "consumption_kwh": -2}]`, ""},
		{"empty id", `[{"device_id": "", "date": "2024-01-01", "consumption_kwh": 2}]`, ""},
		{"string number", `[{"device_id": "x", "date": "2024-01-01", "consumption_kwh": "2"}]`, ""},
		{"invalid json", `[{`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.ReadRecordsJSON(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ingest.ErrMalformedInput)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestReadRecordsJSON_BadDate(t *testing.T) {
	input := `[{"device_id": "x", "date": "2024-13-45", "consumption_kwh": 1}]`
	_, err := ingest.ReadRecordsJSON(strings.NewReader(input))
	require.ErrorIs(t, err, ingest.ErrMalformedInput)
	assert.Contains(t, err.Error(), "record 0")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"2024-03-15T22:00:00Z", "2024-03-15"},
		{"2024-03-15T22:00:00", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{" 2024-03-15 ", "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ingest.ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(engine.DayLayout))
		})
	}

	_, err := ingest.ParseDate("15.03.2024")
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
}

func TestDetectFormat(t *testing.T) {
	f, err := ingest.DetectFormat("data/Records.CSV")
	require.NoError(t, err)
	assert.Equal(t, ingest.FormatCSV, f)

	f, err = ingest.DetectFormat("records.json")
	require.NoError(t, err)
	assert.Equal(t, ingest.FormatJSON, f)

	_, err = ingest.DetectFormat("records.xlsx")
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "records.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("device_id,date,consumption_kwh\nd1,2024-01-01,2\n"), 0o600))
	records, err := ingest.LoadRecords(context.Background(), csvPath)
	require.NoError(t, err)
	require.Len(t, records, 1)

	jsonPath := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`[{"device_id":"d1","date":"2024-01-01","consumption_kwh":2}]`), 0o600))
	records, err = ingest.LoadRecords(context.Background(), jsonPath)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = ingest.LoadRecords(context.Background(), filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	badPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badPath, []byte("device_id,date,consumption_kwh\nd1,nope,2\n"), 0o600))
	_, err = ingest.LoadRecords(context.Background(), badPath)
	require.ErrorIs(t, err, ingest.ErrMalformedInput)
	assert.Contains(t, err.Error(), badPath)
}
