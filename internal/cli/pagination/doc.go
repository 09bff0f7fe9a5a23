// Package pagination provides the sorting and paging shared by CLI commands
// that print lists of breakdown rows.
//
//   - Params: --limit/--offset and --page/--page-size parsing and validation
//   - Meta: paging metadata included in JSON output
//   - EntrySorter: ordering of engine.BreakdownEntry rows by a named field
package pagination
