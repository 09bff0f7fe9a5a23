package cli

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rshade/ecotrack/internal/engine"
)

const (
	chartPageTitle = "ecotrack"
	chartHeight    = "500px"
	chartRotate    = 45
)

// newBreakdownChart builds a bar chart of entries in their given order.
func newBreakdownChart(title, subtitle string, entries []engine.BreakdownEntry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: chartPageTitle,
			Width:     "100%",
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: chartRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kWh"}),
	)

	labels := make([]string, len(entries))
	data := make([]opts.BarData, len(entries))
	for i, e := range entries {
		labels[i] = e.Key
		data[i] = opts.BarData{Value: e.TotalKwh}
	}
	bar.SetXAxis(labels).AddSeries("kWh", data)
	return bar
}

// writeBreakdownChart renders the chart as a standalone HTML page at path.
func writeBreakdownChart(path, title, subtitle string, entries []engine.BreakdownEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}

	renderErr := newBreakdownChart(title, subtitle, entries).Render(f)
	closeErr := f.Close()
	if renderErr != nil {
		return fmt.Errorf("rendering chart: %w", renderErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing chart file: %w", closeErr)
	}
	return nil
}
