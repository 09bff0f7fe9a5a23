package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/engine/cache"
	"github.com/rshade/ecotrack/pkg/version"
)

// errCacheDisabled is returned by cache commands when caching is off.
var errCacheDisabled = errors.New("report cache is disabled (cache.enabled: false or ECOTRACK_CACHE_ENABLED=false)")

// cacheStatus is the JSON shape of cache status.
type cacheStatus struct {
	Enabled    bool   `json:"enabled"`
	Directory  string `json:"directory"`
	Entries    int    `json:"entries"`
	SizeBytes  int64  `json:"size_bytes"`
	MaxBytes   int64  `json:"max_bytes"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// openCacheForMaintenance opens the configured cache even when it is empty.
func openCacheForMaintenance() (*cache.FileStore, error) {
	cfg := config.GetGlobalConfig()
	if !cfg.Cache.Enabled {
		return nil, errCacheDisabled
	}
	return cache.NewFileStore(cfg.Cache.Directory, true, cfg.Cache.TTLSeconds, version.GetVersion())
}

// NewCacheStatusCmd creates the cache status command.
func NewCacheStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache location, entry count and size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}

			cfg := config.GetGlobalConfig()
			status := cacheStatus{
				Enabled:    cfg.Cache.Enabled,
				Directory:  cfg.Cache.Directory,
				TTLSeconds: cfg.Cache.TTLSeconds,
			}
			if status.MaxBytes, err = cfg.Cache.MaxSizeBytes(); err != nil {
				return err
			}
			if cfg.Cache.Enabled {
				store, openErr := openCacheForMaintenance()
				if openErr != nil {
					return openErr
				}
				if status.Entries, err = store.Count(); err != nil {
					return err
				}
				if status.SizeBytes, err = store.Size(); err != nil {
					return err
				}
			}

			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}

			w := cmd.OutOrStdout()
			if err = renderHeading(w, "REPORT CACHE"); err != nil {
				return err
			}
			maxSize := "unlimited"
			if status.MaxBytes > 0 {
				maxSize = humanize.Bytes(uint64(status.MaxBytes))
			}
			tbl := newTable(w)
			tbl.AppendRows([]table.Row{
				{"Enabled", status.Enabled},
				{"Directory", status.Directory},
				{"Entries", status.Entries},
				{"Size", humanize.Bytes(uint64(status.SizeBytes))},
				{"Max size", maxSize},
				{"TTL", (time.Duration(status.TTLSeconds) * time.Second).String()},
			})
			tbl.Render()
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForMaintenance()
			if err != nil {
				return err
			}
			count, err := store.Count()
			if err != nil {
				return err
			}
			if err = store.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			cmd.Printf("Removed %d cached report(s) from %s\n", count, store.GetDirectory())
			return nil
		},
	}
}

// NewCachePruneCmd creates the cache prune command.
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached reports and those written by an incompatible version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForMaintenance()
			if err != nil {
				return err
			}
			removed, err := store.CleanupExpired()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			cmd.Printf("Pruned %d cached report(s)\n", removed)
			return nil
		},
	}
}
