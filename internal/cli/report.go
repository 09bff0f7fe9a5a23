package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/engine/cache"
	"github.com/rshade/ecotrack/internal/logging"
)

// reportCacheOperation names report entries in the cache.
const reportCacheOperation = "report"

// reportParams holds the report command flags.
type reportParams struct {
	recordsPath      string
	devicesPath      string
	granularity      string
	ref              string
	top              int
	recycled         int
	recycledPrevious int
	output           string
	noCache          bool
	metricsFile      string
	filters          []string
}

// NewReportCmd creates the report command: a period-over-period comparison
// of consumption and environmental impact.
func NewReportCmd() *cobra.Command {
	var params reportParams

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare consumption and impact with the previous period",
		Long: `Builds a comparison report for the period containing --ref (default today)
against the full preceding period: totals, daily averages, device type breakdown,
top devices, energy saved, CO2 avoided, trees and water equivalents and the
sustainability score.

Results are cached by the content of the records that fall in each window, so
rerunning on unchanged data is served from ~/.ecotrack/cache.`,
		Example: `  # This month versus last month
  ecotrack report --records usage.csv --devices devices.yaml

  # Quarter containing 2024-05-20, top 10 devices, as JSON
  ecotrack report --records usage.json --devices devices.yaml --granularity quarter --ref 2024-05-20 --top 10 -o json

  # Also write Prometheus textfile metrics
  ecotrack report --records usage.csv --devices devices.yaml --metrics-file /var/lib/node_exporter/ecotrack.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.recordsPath, "records", "", "consumption record file (.csv or .json)")
	cmd.Flags().StringVar(&params.devicesPath, "devices", "", "device catalogue (.yaml or .json)")
	cmd.Flags().StringVar(&params.granularity, "granularity", string(engine.GranularityMonth),
		"comparison granularity: month, quarter or year")
	cmd.Flags().StringVar(&params.ref, "ref", "", "reference day YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&params.top, "top", engine.DefaultTopN, "number of devices to rank; negative ranks all")
	cmd.Flags().IntVar(&params.recycled, "recycled", 0, "devices recycled in the current period")
	cmd.Flags().IntVar(&params.recycledPrevious, "recycled-previous", 0, "devices recycled in the previous period")
	cmd.Flags().BoolVar(&params.noCache, "no-cache", false, "bypass the report cache")
	cmd.Flags().StringVar(&params.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().StringArrayVar(&params.filters, "filter", nil, "filter records: device=ID or type=TYPE (repeatable)")
	addOutputFlag(cmd, &params.output)
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func runReport(cmd *cobra.Command, params reportParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveOutputFormat(params.output)
	if err != nil {
		return err
	}
	if params.recycled < 0 || params.recycledPrevious < 0 {
		return errors.New("recycled device counts cannot be negative")
	}

	period, err := resolvePeriod(params.granularity, params.ref)
	if err != nil {
		return err
	}

	in, err := loadInputs(ctx, params.recordsPath, params.devicesPath)
	if err != nil {
		return err
	}
	records, err := ApplyFilters(ctx, in.Records, in.Lookup, params.filters)
	if err != nil {
		return err
	}

	windows, err := engine.SplitWindows(records, period)
	if err != nil {
		return err
	}
	if windows.Outside > 0 {
		log.Info().Ctx(ctx).
			Int("records", windows.Outside).
			Msg("records outside the comparison windows ignored")
	}

	cfg := config.GetGlobalConfig()
	input := engine.ReportInput{
		Period:                  period,
		Current:                 windows.Current,
		Previous:                windows.Previous,
		Prior:                   windows.Prior,
		PriorKnown:              windows.PriorKnown,
		Devices:                 in.Lookup,
		DevicesRecycled:         params.recycled,
		PreviousDevicesRecycled: params.recycledPrevious,
		TopN:                    params.top,
		Factors:                 &cfg.Impact,
	}

	report, err := buildReportCached(ctx, input, params.noCache)
	if err != nil {
		return err
	}

	if params.metricsFile != "" {
		if err = writeReportMetrics(params.metricsFile, report); err != nil {
			return err
		}
		log.Debug().Ctx(ctx).Str("path", params.metricsFile).Msg("metrics written")
	}

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return renderReport(cmd.OutOrStdout(), report, in.Lookup, config.GetOutputPrecision())
}

// resolvePeriod parses the granularity and reference day flags.
func resolvePeriod(granularity, ref string) (engine.ComparisonPeriod, error) {
	g, err := engine.ParseGranularity(granularity)
	if err != nil {
		return engine.ComparisonPeriod{}, err
	}
	refDay := time.Now()
	if ref != "" {
		if refDay, err = parseDayFlag("ref", ref); err != nil {
			return engine.ComparisonPeriod{}, err
		}
	}
	return engine.ResolveComparisonPeriod(g, refDay)
}

// buildReportCached returns the cached report for input when one exists and
// otherwise builds and stores it. Cache failures never fail the report.
func buildReportCached(ctx context.Context, input engine.ReportInput, noCache bool) (*engine.Report, error) {
	log := logging.FromContext(ctx)

	var store *cache.FileStore
	if !noCache {
		store = openCacheStore(ctx)
	}
	if store == nil {
		return engine.BuildReport(ctx, input)
	}

	key, err := reportCacheKey(ctx, input)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("cannot derive report cache key")
		return engine.BuildReport(ctx, input)
	}

	var cached engine.Report
	switch loadErr := store.Load(key, &cached); {
	case loadErr == nil:
		log.Debug().Ctx(ctx).Str("key", key).Msg("report served from cache")
		return &cached, nil
	case errors.Is(loadErr, cache.ErrCacheNotFound),
		errors.Is(loadErr, cache.ErrCacheExpired),
		errors.Is(loadErr, cache.ErrCacheStale):
		log.Debug().Ctx(ctx).Str("key", key).Err(loadErr).Msg("report cache miss")
	default:
		log.Warn().Ctx(ctx).Str("key", key).Err(loadErr).Msg("report cache read failed")
	}

	report, err := engine.BuildReport(ctx, input)
	if err != nil {
		return nil, err
	}
	if storeErr := store.Store(key, report); storeErr != nil {
		log.Warn().Ctx(ctx).Str("key", key).Err(storeErr).Msg("report cache write failed")
	}
	return report, nil
}

// reportCacheKey hashes the three windows and the device catalogue
// concurrently and combines them with every other report input.
func reportCacheKey(ctx context.Context, input engine.ReportInput) (string, error) {
	prior, err := input.Period.Prior()
	if err != nil {
		return "", err
	}

	sets := [][]engine.ConsumptionRecord{input.Current, input.Previous, input.Prior}
	hashes := make([]string, len(sets)+1)

	g, _ := errgroup.WithContext(ctx)
	for i, set := range sets {
		g.Go(func() error {
			hashes[i] = cache.RecordSetHash(set)
			return nil
		})
	}
	g.Go(func() error {
		hashes[len(sets)] = cache.DeviceSetHash(input.Devices)
		return nil
	})
	if err = g.Wait(); err != nil {
		return "", err
	}

	extra := map[string]string{
		"top":               strconv.Itoa(input.TopN),
		"recycled":          strconv.Itoa(input.DevicesRecycled),
		"recycled_previous": strconv.Itoa(input.PreviousDevicesRecycled),
		"devices":           hashes[len(sets)],
		"prior_known":       strconv.FormatBool(input.PriorKnown),
	}
	if f := input.Factors; f != nil {
		extra["factors"] = fmt.Sprintf("%g|%g|%g|%g|%g|%g",
			f.CO2PerKwh, f.TreeAbsorptionKgPerYear, f.WaterLitersPerKwh,
			f.EnergyWeightCap, f.DeviceWeightCap, f.CO2WeightCap)
	}

	return cache.GenerateKey(cache.KeyParams{
		Operation:     reportCacheOperation + "-" + string(input.Period.Granularity),
		RecordSetHash: strings.Join(hashes[:len(sets)], ":"),
		Ranges:        []engine.DateRange{input.Period.Current, input.Period.Previous, prior},
		Extra:         extra,
	})
}
