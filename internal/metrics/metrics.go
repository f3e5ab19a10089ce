// Package metrics records run metrics through a global, pluggable backend.
//
// The default backend is a no-op, so instrumented code is always safe to
// call. cmd/sheetsync installs a Pushgateway or DogStatsD backend when asked
// and flushes it once at exit.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "sheetsync_step_total"
	StepDurationSeconds = "sheetsync_step_duration_seconds"
	TablesTotal         = "sheetsync_tables_total"
	RowsTotal           = "sheetsync_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a workflow step (read_sources,
// inspect, confirm, write, apply_ddl) and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordTables counts per-table outcomes of a batch for op (load, build,
// drop).
func RecordTables(job, op string, succeeded, failed int) {
	if succeeded > 0 {
		backend.IncCounter(TablesTotal, float64(succeeded), Labels{"job": job, "op": op, "status": "success"})
	}
	if failed > 0 {
		backend.IncCounter(TablesTotal, float64(failed), Labels{"job": job, "op": op, "status": "failure"})
	}
}

// RecordRows counts rows written to table.
func RecordRows(job, table string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(n), Labels{"job": job, "table": table})
}
