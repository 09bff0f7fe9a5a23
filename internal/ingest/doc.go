// Package ingest reads consumption records and device catalogues from files.
//
// Record files are CSV with a device_id,date,consumption_kwh header or a JSON
// array of objects with the same fields. Device catalogues are YAML or JSON
// lists of {id, type, display_name}. Parsing fails on the first malformed row;
// the engine never sees partially read input.
package ingest
