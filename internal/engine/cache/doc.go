// Package cache memoizes engine results on disk for the CLI.
//
// The aggregation engine itself is stateless; callers that want to avoid
// recomputing a report for the same inputs key an entry on the hash of the
// record set plus the date windows it was computed for. Key features:
//   - File-based storage in ~/.ecotrack/cache/ with atomic writes
//   - Configurable TTL (default 1 hour) via config file, environment variable, or CLI flag
//   - Entries written by an incompatible engine version are treated as stale
//   - SHA256-based cache keys that do not depend on record order
package cache
