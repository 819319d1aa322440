// Package promstats exports declaration statistics as Prometheus metrics.
package promstats

import (
	"io"

	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Collector is a prometheus.Collector reporting the contents of an
// ast.Stats each time it is scraped.
type Collector struct {
	stats   *ast.Stats
	decls   *prometheus.Desc
	bytes   *prometheus.Desc
	size    *prometheus.Desc
	enabled *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(stats *ast.Stats, constLabels prometheus.Labels) *Collector {
	return &Collector{
		stats: stats,
		decls: prometheus.NewDesc("cdecl_decls",
			"Number of declarations created, by statistics bucket.",
			[]string{"bucket"}, constLabels),
		bytes: prometheus.NewDesc("cdecl_decl_bytes",
			"Bytes allocated for declarations, by statistics bucket.",
			[]string{"bucket"}, constLabels),
		size: prometheus.NewDesc("cdecl_decl_size_bytes",
			"Size of one declaration, by statistics bucket.",
			[]string{"bucket"}, constLabels),
		enabled: prometheus.NewDesc("cdecl_stats_enabled",
			"Whether statistics collection was requested.",
			nil, constLabels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.decls
	ch <- c.bytes
	ch <- c.size
	ch <- c.enabled
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, b := range c.stats.Report().Buckets {
		ch <- prometheus.MustNewConstMetric(c.decls, prometheus.GaugeValue, float64(b.Count), b.Key)
		ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(b.Bytes), b.Key)
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(b.Size), b.Key)
	}
	var enabled float64
	if c.stats.Enabled() {
		enabled = 1
	}
	ch <- prometheus.MustNewConstMetric(c.enabled, prometheus.GaugeValue, enabled)
}

// Gather registers collectors with a new registry and gathers their
// metric families.
func Gather(collectors ...prometheus.Collector) ([]*dto.MetricFamily, error) {
	reg := prometheus.NewPedanticRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg.Gather()
}

// WriteText writes the metrics of collectors to w in the Prometheus text
// exposition format.
func WriteText(w io.Writer, collectors ...prometheus.Collector) error {
	families, err := Gather(collectors...)
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
