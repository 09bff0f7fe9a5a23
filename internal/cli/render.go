package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/greenops"
)

// headingColor is the lipgloss color used for section titles on a TTY.
func headingColor() lipgloss.Color { return lipgloss.Color("39") }

// warningColor is the lipgloss color used for warnings on a TTY.
func warningColor() lipgloss.Color { return lipgloss.Color("214") }

// isWriterTerminal reports whether w is a terminal. Buffers used in tests
// never are.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// renderHeading writes a section title: bold and colored on a TTY,
// underlined plain text otherwise.
func renderHeading(w io.Writer, title string) error {
	if isWriterTerminal(w) {
		style := lipgloss.NewStyle().Bold(true).Foreground(headingColor())
		_, err := fmt.Fprintln(w, style.Render(title))
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	return err
}

// renderWarning writes a single warning line.
func renderWarning(w io.Writer, msg string) error {
	if isWriterTerminal(w) {
		style := lipgloss.NewStyle().Foreground(warningColor())
		_, err := fmt.Fprintln(w, style.Render("! "+msg))
		return err
	}
	_, err := fmt.Fprintf(w, "Warning: %s\n", msg)
	return err
}

// newTable returns a light-style table mirrored to w.
func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

// rightAlign right-aligns the given 1-based columns of tbl.
func rightAlign(tbl table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, c := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      c,
			Align:       text.AlignRight,
			AlignFooter: text.AlignRight,
		})
	}
	tbl.SetColumnConfigs(configs)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v float64, precision int) string {
	return greenops.FormatFloat(v, precision)
}

func formatShare(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// renderBreakdown writes a key / kWh / share table with a total footer.
func renderBreakdown(w io.Writer, keyHeader string, entries []engine.BreakdownEntry, total float64, precision int) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{keyHeader, "kWh", "Share"})
	for _, e := range entries {
		tbl.AppendRow(table.Row{e.Key, formatValue(e.TotalKwh, precision), formatShare(e.Percentage)})
	}
	tbl.AppendFooter(table.Row{"Total", formatValue(total, precision), ""})
	rightAlign(tbl, 2, 3)
	tbl.Render()
}

// renderReport writes the table form of a report.
func renderReport(w io.Writer, r *engine.Report, lookup engine.DeviceLookup, precision int) error {
	title := fmt.Sprintf("ENERGY REPORT (%s)", r.Period.Granularity)
	if err := renderHeading(w, title); err != nil {
		return err
	}

	cur, prev := r.Impact.Current, r.Impact.Previous
	change := r.Impact.PercentageChange

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Current " + r.Period.Current.String(), "Previous " + r.Period.Previous.String(), "Change"})
	tbl.AppendRows([]table.Row{
		{"Total kWh", formatValue(r.Current.TotalKwh, precision), formatValue(r.Previous.TotalKwh, precision),
			greenops.FormatPercent(r.Current.ComparisonToPreviousPeriodPct)},
		{"Average daily kWh", formatValue(r.Current.AverageDailyKwh, precision), formatValue(r.Previous.AverageDailyKwh, precision), ""},
		{"Energy saved kWh", formatValue(cur.EnergySavedKwh, precision), formatValue(prev.EnergySavedKwh, precision),
			greenops.FormatPercent(change.EnergySaved)},
		{"CO2 reduction kg", formatValue(cur.CO2ReductionKg, precision), formatValue(prev.CO2ReductionKg, precision),
			greenops.FormatPercent(change.CO2Reduction)},
		{"Trees equivalent", formatValue(cur.TreesEquivalent, precision), formatValue(prev.TreesEquivalent, precision), ""},
		{"Water saved L", formatValue(cur.WaterSavedLiters, precision), formatValue(prev.WaterSavedLiters, precision), ""},
		{"Devices recycled", cur.DevicesRecycled, prev.DevicesRecycled, ""},
		{"Sustainability score", cur.SustainabilityScore, prev.SustainabilityScore,
			greenops.FormatPercent(change.SustainabilityScore)},
	})
	rightAlign(tbl, 2, 3, 4)
	tbl.Render()

	if cur.ConsumptionIncreased() {
		msg := fmt.Sprintf("consumption increased by %s kWh versus the previous period",
			formatValue(math.Abs(cur.EnergySavedKwh), precision))
		if err := renderWarning(w, msg); err != nil {
			return err
		}
	}
	if !r.Equivalency.IsEmpty {
		if _, err := fmt.Fprintln(w, r.Equivalency.DisplayText); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := renderHeading(w, "BY DEVICE TYPE"); err != nil {
		return err
	}
	renderBreakdown(w, "Type", r.TypeBreakdown, r.Current.TotalKwh, precision)

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := renderHeading(w, "TOP DEVICES"); err != nil {
		return err
	}
	top := newTable(w)
	top.AppendHeader(table.Row{"#", "Device", "Name", "kWh", "Share"})
	for i, e := range r.TopDevices {
		name := ""
		if d, ok := lookup[e.Key]; ok {
			name = d.DisplayName
		}
		top.AppendRow(table.Row{i + 1, e.Key, name, formatValue(e.TotalKwh, precision), formatShare(e.Percentage)})
	}
	top.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	top.Render()

	if r.Unattributed.Count > 0 {
		msg := fmt.Sprintf("%d record(s), %s kWh, from unknown devices counted as other: %s",
			r.Unattributed.Count, formatValue(r.Unattributed.Kwh, precision),
			strings.Join(r.Unattributed.DeviceIDs, ", "))
		if err := renderWarning(w, msg); err != nil {
			return err
		}
	}
	return nil
}

// renderImpact writes a two-column table of impact metrics.
func renderImpact(w io.Writer, title string, m greenops.ImpactMetrics, precision int) error {
	if err := renderHeading(w, title); err != nil {
		return err
	}
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Energy saved kWh", formatValue(m.EnergySavedKwh, precision)},
		{"CO2 reduction kg", formatValue(m.CO2ReductionKg, precision)},
		{"Trees equivalent", formatValue(m.TreesEquivalent, precision)},
		{"Water saved L", formatValue(m.WaterSavedLiters, precision)},
		{"Devices recycled", m.DevicesRecycled},
		{"Sustainability score", fmt.Sprintf("%d / %d", m.SustainabilityScore, greenops.MaxSustainabilityScore)},
	})
	rightAlign(tbl, 2)
	tbl.Render()
	return nil
}
