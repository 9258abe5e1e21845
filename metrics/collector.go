// FILE: lixenwraith/daylog/metrics/collector.go
// Package metrics exports logger counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/daylog"
)

// StatsSource is satisfied by *daylog.Logger
type StatsSource interface {
	Stats() daylog.Stats
}

// Collector implements prometheus.Collector by reading a fresh Stats snapshot on each scrape
type Collector struct {
	source StatsSource

	logsWritten     *prometheus.Desc
	droppedLogs     *prometheus.Desc
	rotations       *prometheus.Desc
	failedRotations *prometheus.Desc
	deletions       *prometheus.Desc
	writeErrors     *prometheus.Desc
	pending         *prometheus.Desc
	open            *prometheus.Desc
	uptime          *prometheus.Desc
}

// NewCollector creates a collector for source. constLabels are attached to every metric,
// typically {"logger": name} when several loggers are registered.
func NewCollector(source StatsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("daylog", "", name), help, nil, constLabels)
	}

	return &Collector{
		source:          source,
		logsWritten:     desc("logs_written_total", "Lines written to log files."),
		droppedLogs:     desc("dropped_logs_total", "Records dropped while the logger was opening or closing."),
		rotations:       desc("rotations_total", "Successful log file rotations."),
		failedRotations: desc("failed_rotations_total", "Rotations aborted because the new file could not be created."),
		deletions:       desc("deletions_total", "Log files removed by retention."),
		writeErrors:     desc("write_errors_total", "Failed writes to the console or a log file."),
		pending:         desc("pending_records", "Records buffered while a rotation is creating its file."),
		open:            desc("open", "1 when the logger is open, 0 otherwise."),
		uptime:          desc("uptime_seconds", "Seconds since the logger was created."),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.logsWritten
	ch <- c.droppedLogs
	ch <- c.rotations
	ch <- c.failedRotations
	ch <- c.deletions
	ch <- c.writeErrors
	ch <- c.pending
	ch <- c.open
	ch <- c.uptime
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	open := 0.0
	if s.State == daylog.StateOpen {
		open = 1
	}

	ch <- prometheus.MustNewConstMetric(c.logsWritten, prometheus.CounterValue, float64(s.LogsWritten))
	ch <- prometheus.MustNewConstMetric(c.droppedLogs, prometheus.CounterValue, float64(s.DroppedLogs))
	ch <- prometheus.MustNewConstMetric(c.rotations, prometheus.CounterValue, float64(s.Rotations))
	ch <- prometheus.MustNewConstMetric(c.failedRotations, prometheus.CounterValue, float64(s.FailedRotations))
	ch <- prometheus.MustNewConstMetric(c.deletions, prometheus.CounterValue, float64(s.Deletions))
	ch <- prometheus.MustNewConstMetric(c.writeErrors, prometheus.CounterValue, float64(s.WriteErrors))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.Pending))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, open)
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, s.Uptime.Seconds())
}
