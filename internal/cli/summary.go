package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecotrack/internal/cli/pagination"
	"github.com/rshade/ecotrack/internal/config"
	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/greenops"
	"github.com/rshade/ecotrack/internal/logging"
)

// summaryParams holds the summary command flags.
type summaryParams struct {
	recordsPath string
	devicesPath string
	groupBy     string
	from        string
	to          string
	baseline    float64
	sort        string
	output      string
	chart       string
	filters     []string
	page        pagination.Params
}

// summaryView is the JSON shape of the summary command.
type summaryView struct {
	GroupBy      engine.GroupBy             `json:"group_by"`
	Range        *engine.DateRange          `json:"range,omitempty"`
	Summary      engine.PeriodSummary       `json:"summary"`
	Unattributed engine.UnattributedRecords `json:"unattributed"`
	Rows         []engine.BreakdownEntry    `json:"rows"`
	Pagination   *pagination.Meta           `json:"pagination,omitempty"`
}

// NewSummaryCmd creates the summary command: totals and a grouped breakdown
// of the records in an optional date range.
func NewSummaryCmd() *cobra.Command {
	var params summaryParams

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize consumption grouped by day, week, month, device or type",
		Long: `Aggregates consumption records into buckets and prints the total, the average
daily consumption and each bucket's share of the total.

With --from and --to only records in that inclusive range are used and the
daily average spans every day of the range, including days without readings.
--baseline sets the kWh the total is compared against.`,
		Example: `  # Daily totals of every record
  ecotrack summary --records usage.csv

  # Weekly totals for March compared with 120 kWh, as an HTML chart
  ecotrack summary --records usage.csv --group-by week --from 2024-03-01 --to 2024-03-31 --baseline 120 --chart march.html

  # The five highest-consuming device types
  ecotrack summary --records usage.csv --devices devices.yaml --group-by type --sort kwh:desc --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.recordsPath, "records", "", "consumption record file (.csv or .json)")
	cmd.Flags().StringVar(&params.devicesPath, "devices", "", "device catalogue (.yaml or .json)")
	cmd.Flags().StringVar(&params.groupBy, "group-by", string(engine.GroupByDay),
		"grouping: day, week, month, device or type")
	cmd.Flags().StringVar(&params.from, "from", "", "first day to include, YYYY-MM-DD")
	cmd.Flags().StringVar(&params.to, "to", "", "last day to include, YYYY-MM-DD")
	cmd.Flags().Float64Var(&params.baseline, "baseline", 0, "baseline kWh the total is compared against")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort rows: key, kwh or percentage, optionally :asc or :desc")
	cmd.Flags().StringVar(&params.chart, "chart", "", "also write an HTML bar chart of the rows to this path")
	cmd.Flags().StringArrayVar(&params.filters, "filter", nil, "filter records: device=ID or type=TYPE (repeatable)")
	cmd.Flags().IntVar(&params.page.Limit, "limit", 0, "maximum rows to print (0 = all)")
	cmd.Flags().IntVar(&params.page.Offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&params.page.Page, "page", 0, "1-based page number (requires --page-size)")
	cmd.Flags().IntVar(&params.page.PageSize, "page-size", 0, "rows per page")
	addOutputFlag(cmd, &params.output)
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

//nolint:gocognit // Sequential flag handling; splitting it hides the order of steps.
func runSummary(cmd *cobra.Command, params summaryParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveOutputFormat(params.output)
	if err != nil {
		return err
	}
	groupBy, err := engine.ParseGroupBy(params.groupBy)
	if err != nil {
		return err
	}
	if err = params.page.Validate(); err != nil {
		return err
	}
	sortField, sortOrder, err := pagination.ParseSort(params.sort, pagination.SortOrderAsc)
	if err != nil {
		return err
	}
	if sortField == "" {
		sortField = pagination.FieldKey
	}
	sorter := pagination.NewEntrySorter()
	if !sorter.IsValidField(sortField) {
		return fmt.Errorf("%w: %q", pagination.ErrInvalidSortField, sortField)
	}

	baseline := engine.NoBaseline()
	if cmd.Flags().Changed("baseline") {
		if params.baseline < 0 {
			return fmt.Errorf("--baseline cannot be negative, got %v", params.baseline)
		}
		baseline = engine.BaselineOf(params.baseline)
	}

	window, err := summaryRange(params.from, params.to)
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
	if window != nil {
		before := len(records)
		records = engine.RecordsIn(records, *window)
		log.Debug().Ctx(ctx).
			Str("range", window.String()).
			Int("before", before).
			Int("after", len(records)).
			Msg("records narrowed to range")
	}

	view := summaryView{GroupBy: groupBy, Range: window}
	if window != nil {
		view.Summary, err = engine.SummarizeRange(records, in.Lookup, *window, baseline)
	} else {
		view.Summary, err = engine.Summarize(records, in.Lookup, baseline)
	}
	if err != nil {
		return fmt.Errorf("summarizing records: %w", err)
	}

	bucket, err := engine.Aggregate(records, groupBy, in.Lookup)
	if err != nil {
		return err
	}
	if groupBy == engine.GroupByDay && window != nil {
		if bucket, err = engine.FillDays(bucket, *window); err != nil {
			return err
		}
	}
	types, err := engine.BucketByType(records, in.Lookup)
	if err != nil {
		return err
	}
	view.Unattributed = types.Unattributed

	rows, err := sorter.Sort(engine.Breakdown(bucket, view.Summary.TotalKwh), sortField, sortOrder)
	if err != nil {
		return err
	}
	if params.page.IsEnabled() {
		meta := pagination.NewMeta(params.page, len(rows))
		view.Pagination = &meta
		rows = pagination.Apply(params.page, rows)
	}
	view.Rows = rows

	if params.chart != "" {
		subtitle := "all records"
		if window != nil {
			subtitle = window.String()
		}
		if err = writeBreakdownChart(params.chart, "Consumption by "+string(groupBy), subtitle, rows); err != nil {
			return err
		}
		log.Debug().Ctx(ctx).Str("path", params.chart).Msg("chart written")
	}

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	return renderSummary(cmd.OutOrStdout(), view, baseline.Set, config.GetOutputPrecision())
}

// summaryRange builds the --from/--to range. Either bound alone is an error.
func summaryRange(from, to string) (*engine.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil //nolint:nilnil // no range requested
	}
	if from == "" || to == "" {
		return nil, errors.New("--from and --to must be given together")
	}
	start, err := parseDayFlag("from", from)
	if err != nil {
		return nil, err
	}
	end, err := parseDayFlag("to", to)
	if err != nil {
		return nil, err
	}
	r, err := engine.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// renderSummary writes the table form of a summary.
func renderSummary(w io.Writer, v summaryView, showChange bool, precision int) error {
	title := "CONSUMPTION SUMMARY"
	if v.Range != nil {
		title += " " + v.Range.String()
	}
	if err := renderHeading(w, title); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total: %s kWh   Average daily: %s kWh\n",
		formatValue(v.Summary.TotalKwh, precision), formatValue(v.Summary.AverageDailyKwh, precision)); err != nil {
		return err
	}
	if showChange {
		if _, err := fmt.Fprintf(w, "Change vs baseline: %s\n",
			greenops.FormatPercent(v.Summary.ComparisonToPreviousPeriodPct)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	renderBreakdown(w, string(v.GroupBy), v.Rows, v.Summary.TotalKwh, precision)

	if v.Pagination != nil {
		if _, err := fmt.Fprintf(w, "Page %d of %d (%d rows)\n",
			v.Pagination.CurrentPage, v.Pagination.TotalPages, v.Pagination.TotalItems); err != nil {
			return err
		}
	}
	if v.Unattributed.Count > 0 && v.GroupBy == engine.GroupByType {
		return renderWarning(w, fmt.Sprintf("%d record(s) from unknown devices counted as other", v.Unattributed.Count))
	}
	return nil
}
