package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/engine/cache"
	"github.com/rshade/ecotrack/internal/ingest"
	"github.com/rshade/ecotrack/internal/logging"
	"github.com/rshade/ecotrack/pkg/version"
)

// inputs holds the materialized record and device files of one invocation.
type inputs struct {
	Records []engine.ConsumptionRecord
	Devices []engine.DeviceDescriptor
	Lookup  engine.DeviceLookup
}

// loadInputs reads the record file and, when given, the device catalogue
// concurrently.
func loadInputs(ctx context.Context, recordsPath, devicesPath string) (*inputs, error) {
	log := logging.FromContext(ctx)

	var in inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := ingest.LoadRecords(gctx, recordsPath)
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}
		in.Records = records
		return nil
	})
	if devicesPath != "" {
		g.Go(func() error {
			devices, err := ingest.LoadDevices(gctx, devicesPath)
			if err != nil {
				return fmt.Errorf("loading devices: %w", err)
			}
			in.Devices = devices
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.Lookup = engine.NewDeviceLookup(in.Devices)
	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Int("records", len(in.Records)).
		Int("devices", len(in.Devices)).
		Msg("inputs loaded")
	return &in, nil
}

// resolveOutputFormat returns the --output flag value or the configured
// default, validated.
func resolveOutputFormat(flagValue string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want %s or %s)",
			format, config.FormatTable, config.FormatJSON)
	}
}

// parseDayFlag parses a YYYY-MM-DD style flag value into a calendar day.
func parseDayFlag(name, value string) (time.Time, error) {
	d, err := ingest.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// openCacheStore opens the report cache described by the global config.
// It returns nil when caching is disabled or the store cannot be opened;
// the report then runs uncached.
func openCacheStore(ctx context.Context) *cache.FileStore {
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()
	if !cfg.Cache.Enabled {
		return nil
	}

	store, err := cache.NewFileStore(cfg.Cache.Directory, true, cfg.Cache.TTLSeconds, version.GetVersion())
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("dir", cfg.Cache.Directory).Msg("report cache unavailable")
		return nil
	}
	if maxBytes, sizeErr := cfg.Cache.MaxSizeBytes(); sizeErr == nil {
		store.SetMaxBytes(maxBytes)
	}
	return store
}

// addOutputFlag registers --output on cmd.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "",
		"output format: table or json (default from config)")
}
