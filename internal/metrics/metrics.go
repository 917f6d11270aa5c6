// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
)

const namespace = "sheetwatch"

// Recorder collects gauges for one run on a private registry. All methods
// are no-ops on a nil Recorder.
type Recorder struct {
	reg *prometheus.Registry

	rowsPrevious prometheus.Gauge
	rowsCurrent  prometheus.Gauge
	rowsAdded    prometheus.Gauge
	rowsRemoved  prometheus.Gauge
	changed      prometheus.Gauge
	baseline     prometheus.Gauge
	success      prometheus.Gauge
	lastRun      prometheus.Gauge
	lastSuccess  prometheus.Gauge
	duration     prometheus.Gauge
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

// New returns a Recorder with every gauge registered.
func New() *Recorder {
	r := &Recorder{
		reg:          prometheus.NewRegistry(),
		rowsPrevious: gauge("rows_previous", "Rows in the stored snapshot."),
		rowsCurrent:  gauge("rows_current", "Rows in the fetched report."),
		rowsAdded:    gauge("rows_added", "Rows present today but not in the snapshot."),
		rowsRemoved:  gauge("rows_removed", "Rows present in the snapshot but not today."),
		changed:      gauge("changed", "1 when the last run found row-level changes."),
		baseline:     gauge("baseline", "1 when the last run stored the first snapshot."),
		success:      gauge("last_run_success", "1 when the last run completed without error."),
		lastRun:      gauge("last_run_timestamp_seconds", "Unix time the last run finished."),
		lastSuccess:  gauge("last_success_timestamp_seconds", "Unix time of the last successful run."),
		duration:     gauge("run_duration_seconds", "Wall time of the last run."),
	}
	r.reg.MustRegister(
		r.rowsPrevious, r.rowsCurrent, r.rowsAdded, r.rowsRemoved,
		r.changed, r.baseline, r.success, r.lastRun, r.lastSuccess, r.duration,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveDiff records the counts of a compared run.
func (r *Recorder) ObserveDiff(previous, current, added, removed int) {
	if r == nil {
		return
	}
	r.rowsPrevious.Set(float64(previous))
	r.rowsCurrent.Set(float64(current))
	r.rowsAdded.Set(float64(added))
	r.rowsRemoved.Set(float64(removed))
	r.changed.Set(boolFloat(added > 0 || removed > 0))
	r.baseline.Set(0)
}

// ObserveBaseline records a first run.
func (r *Recorder) ObserveBaseline(current int) {
	if r == nil {
		return
	}
	r.rowsPrevious.Set(0)
	r.rowsCurrent.Set(float64(current))
	r.rowsAdded.Set(0)
	r.rowsRemoved.Set(0)
	r.changed.Set(0)
	r.baseline.Set(1)
}

// Finish stamps the run's end time, duration and result.
func (r *Recorder) Finish(start, end time.Time, err error) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(end.Unix()))
	r.duration.Set(end.Sub(start).Seconds())
	if err != nil {
		r.success.Set(0)
		return
	}
	r.success.Set(1)
	r.lastSuccess.Set(float64(end.Unix()))
}

// WriteTextfile writes the registry in the text exposition format for a
// node_exporter textfile collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("%w: failed to write metrics to %s: %w", failure.ErrStorage, path, err)
	}
	log.Debugf("metrics written: path=%s", path)
	return nil
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
