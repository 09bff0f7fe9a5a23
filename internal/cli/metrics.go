package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/greenops"
)

const metricsNamespace = "ecotrack"

// Window label values.
const (
	windowCurrent  = "current"
	windowPrevious = "previous"
)

// reportGauges are the gauges exported for one report.
type reportGauges struct {
	energy       *prometheus.GaugeVec
	averageDaily *prometheus.GaugeVec
	energySaved  *prometheus.GaugeVec
	co2          *prometheus.GaugeVec
	trees        *prometheus.GaugeVec
	water        *prometheus.GaugeVec
	recycled     *prometheus.GaugeVec
	score        *prometheus.GaugeVec
	deviceEnergy *prometheus.GaugeVec
	typeEnergy   *prometheus.GaugeVec
	unattributed prometheus.Gauge
}

func newReportGauges(reg prometheus.Registerer) (*reportGauges, error) {
	window := []string{"window"}
	newVec := func(name, help string, labels []string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	g := &reportGauges{
		energy:       newVec("energy_kwh", "Total energy consumed in the window.", window),
		averageDaily: newVec("average_daily_kwh", "Average daily energy consumed in the window.", window),
		energySaved:  newVec("energy_saved_kwh", "Energy saved versus the preceding window; negative when consumption rose.", window),
		co2:          newVec("co2_reduction_kg", "CO2 avoided in the window.", window),
		trees:        newVec("trees_equivalent", "Trees absorbing the avoided CO2 for a year.", window),
		water:        newVec("water_saved_liters", "Water saved in the window.", window),
		recycled:     newVec("devices_recycled", "Devices recycled in the window.", window),
		score:        newVec("sustainability_score", "Composite sustainability score, 0 to 100.", window),
		deviceEnergy: newVec("device_energy_kwh", "Energy consumed by a top-ranked device in the current window.", []string{"device"}),
		typeEnergy:   newVec("type_energy_kwh", "Energy consumed by a device type in the current window.", []string{"type"}),
		unattributed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "unattributed_records",
			Help:      "Current-window records whose device is missing from the catalogue.",
		}),
	}

	collectors := []prometheus.Collector{
		g.energy, g.averageDaily, g.energySaved, g.co2, g.trees, g.water,
		g.recycled, g.score, g.deviceEnergy, g.typeEnergy, g.unattributed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering report metrics: %w", err)
		}
	}
	return g, nil
}

func (g *reportGauges) setWindow(window string, s engine.PeriodSummary, m greenops.ImpactMetrics) {
	g.energy.WithLabelValues(window).Set(s.TotalKwh)
	g.averageDaily.WithLabelValues(window).Set(s.AverageDailyKwh)
	g.energySaved.WithLabelValues(window).Set(m.EnergySavedKwh)
	g.co2.WithLabelValues(window).Set(m.CO2ReductionKg)
	g.trees.WithLabelValues(window).Set(m.TreesEquivalent)
	g.water.WithLabelValues(window).Set(m.WaterSavedLiters)
	g.recycled.WithLabelValues(window).Set(float64(m.DevicesRecycled))
	g.score.WithLabelValues(window).Set(float64(m.SustainabilityScore))
}

// writeReportMetrics writes r in the Prometheus text exposition format to
// path, for pickup by a node exporter textfile collector.
func writeReportMetrics(path string, r *engine.Report) error {
	reg := prometheus.NewRegistry()
	g, err := newReportGauges(reg)
	if err != nil {
		return err
	}

	g.setWindow(windowCurrent, r.Current, r.Impact.Current)
	g.setWindow(windowPrevious, r.Previous, r.Impact.Previous)
	for _, e := range r.TopDevices {
		g.deviceEnergy.WithLabelValues(e.Key).Set(e.TotalKwh)
	}
	for _, e := range r.TypeBreakdown {
		g.typeEnergy.WithLabelValues(e.Key).Set(e.TotalKwh)
	}
	g.unattributed.Set(float64(r.Unattributed.Count))

	if err = prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics file %s: %w", path, err)
	}
	return nil
}
