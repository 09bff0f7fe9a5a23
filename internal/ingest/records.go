package ingest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/logging"
)

// Column names of a record file.
const (
	ColumnDeviceID       = "device_id"
	ColumnDate           = "date"
	ColumnConsumptionKwh = "consumption_kwh"
)

// Format identifies a record file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrMalformedInput is returned when a record or device file cannot be read.
var ErrMalformedInput = errors.New("malformed input")

//go:embed records.schema.json
var recordsSchema []byte

// dateLayouts are tried in order when parsing the date column.
//
//nolint:gochecknoglobals // Read-only table.
var dateLayouts = []string{
	engine.DayLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// DetectFormat picks the record format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported record file extension %q", ErrMalformedInput, filepath.Ext(path))
	}
}

// ParseDate reads a calendar day. Timestamps keep their own wall-clock date;
// no timezone conversion happens.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return engine.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrMalformedInput, s)
}

// LoadRecords reads a record file, choosing the format from its extension.
func LoadRecords(ctx context.Context, path string) ([]engine.ConsumptionRecord, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_records").
		Str("path", path).
		Msg("loading consumption records")

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening record file: %w", err)
	}
	defer f.Close()

	var records []engine.ConsumptionRecord
	switch format {
	case FormatCSV:
		records, err = ReadRecordsCSV(f)
	case FormatJSON:
		records, err = ReadRecordsJSON(f)
	}
	if err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Str("path", path).
			Msg("failed to parse record file")
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("component", "ingest").
		Str("format", string(format)).
		Int("record_count", len(records)).
		Msg("records parsed successfully")

	return records, nil
}

// ReadRecordsCSV parses a CSV stream with a header row. Column order is free
// and header names are case-insensitive; unknown columns are ignored.
func ReadRecordsCSV(r io.Reader) ([]engine.ConsumptionRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading csv header: %w", ErrMalformedInput, err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{ColumnDeviceID, ColumnDate, ColumnConsumptionKwh} {
		if _, ok := columns[req]; !ok {
			return nil, fmt.Errorf("%w: missing required csv header %q", ErrMalformedInput, req)
		}
	}

	var records []engine.ConsumptionRecord
	line := 1
	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line, readErr)
		}

		rec, parseErr := parseRow(row, columns)
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, parseErr)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, columns map[string]int) (engine.ConsumptionRecord, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	id := field(ColumnDeviceID)
	if id == "" {
		return engine.ConsumptionRecord{}, fmt.Errorf("%w: empty %s", ErrMalformedInput, ColumnDeviceID)
	}

	date, err := ParseDate(field(ColumnDate))
	if err != nil {
		return engine.ConsumptionRecord{}, err
	}

	kwh, err := strconv.ParseFloat(field(ColumnConsumptionKwh), 64)
	if err != nil {
		return engine.ConsumptionRecord{}, fmt.Errorf("%w: invalid %s %q",
			ErrMalformedInput, ColumnConsumptionKwh, field(ColumnConsumptionKwh))
	}

	rec := engine.ConsumptionRecord{DeviceID: id, Date: date, ConsumptionKwh: kwh}
	if validateErr := engine.ValidateRecord(rec); validateErr != nil {
		return engine.ConsumptionRecord{}, validateErr
	}
	return rec, nil
}

// jsonRecord is the wire shape of one record in a JSON file.
type jsonRecord struct {
	DeviceID       string  `json:"device_id"`
	Date           string  `json:"date"`
	ConsumptionKwh float64 `json:"consumption_kwh"`
}

// ReadRecordsJSON parses a JSON array of records. The document is checked
// against the embedded record schema before decoding.
func ReadRecordsJSON(r io.Reader) ([]engine.ConsumptionRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(recordsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, strings.Join(msgs, "; "))
	}

	var raw []jsonRecord
	if unmarshalErr := json.Unmarshal(data, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, unmarshalErr)
	}

	records := make([]engine.ConsumptionRecord, 0, len(raw))
	for i, jr := range raw {
		date, dateErr := ParseDate(jr.Date)
		if dateErr != nil {
			return nil, fmt.Errorf("record %d: %w", i, dateErr)
		}
		rec := engine.ConsumptionRecord{
			DeviceID:       strings.TrimSpace(jr.DeviceID),
			Date:           date,
			ConsumptionKwh: jr.ConsumptionKwh,
		}
		if validateErr := engine.ValidateRecord(rec); validateErr != nil {
			return nil, fmt.Errorf("record %d: %w", i, validateErr)
		}
		records = append(records, rec)
	}
	return records, nil
}
