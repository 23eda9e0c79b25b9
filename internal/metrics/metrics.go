// Package metrics exposes check-run counters in the Prometheus text format.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tagcheck/internal/diag"
)

// Recorder owns a private registry so repeated runs in one process (watch
// mode, tests) never collide on the default one. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	filesChecked   prometheus.Counter
	cacheHits      prometheus.Counter
	runs           prometheus.Counter
	diagnostics    *prometheus.CounterVec
	tagUses        *prometheus.CounterVec
	fileDuration   prometheus.Histogram
	lastRunSeconds prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		filesChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tagcheck_files_checked_total",
			Help: "Java files parsed or replayed from the cache",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tagcheck_cache_hits_total",
			Help: "Files whose diagnostics were replayed from the disk cache",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tagcheck_runs_total",
			Help: "Completed check runs",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tagcheck_diagnostics_total",
			Help: "Reported diagnostics by code and severity",
		}, []string{"code", "severity"}),
		tagUses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tagcheck_tag_uses_total",
			Help: "Restriction tag occurrences seen on declared elements",
		}, []string{"tag"}),
		fileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tagcheck_file_check_duration_seconds",
			Help:    "Time to parse and validate one file",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagcheck_last_run_duration_seconds",
			Help: "Wall time of the most recent check run",
		}),
	}
	r.registry.MustRegister(
		r.filesChecked,
		r.cacheHits,
		r.runs,
		r.diagnostics,
		r.tagUses,
		r.fileDuration,
		r.lastRunSeconds,
	)
	return r
}

// Registry returns the gatherer backing r.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// FileChecked records one processed file.
func (r *Recorder) FileChecked(d time.Duration, cached bool) {
	if r == nil {
		return
	}
	r.filesChecked.Inc()
	if cached {
		r.cacheHits.Inc()
		return
	}
	r.fileDuration.Observe(d.Seconds())
}

func (r *Recorder) TagUses(tag string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.tagUses.WithLabelValues(tag).Add(float64(n))
}

// RunFinished records the final diagnostics of a run.
func (r *Recorder) RunFinished(d time.Duration, diags []diag.Diagnostic) {
	if r == nil {
		return
	}
	r.runs.Inc()
	r.lastRunSeconds.Set(d.Seconds())
	for i := range diags {
		r.diagnostics.WithLabelValues(diags[i].Code.ID(), strings.ToLower(diags[i].Severity.String())).Inc()
	}
}

// WriteTextfile writes the current values in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
