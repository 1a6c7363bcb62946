// Package telemetry exposes benchmark progress as Prometheus metrics. A
// Recorder is an experiment.Observer; attach it to the driver and optionally
// serve /metrics while the run is in progress.
package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sortbench/internal/experiment"
)

// Recorder owns its registry so several runs (and tests) never collide on
// the default one. Label values are bounded: three algorithms, two modes.
type Recorder struct {
	reg *prometheus.Registry

	sortsTotal     *prometheus.CounterVec
	sortDuration   *prometheus.HistogramVec
	comparisons    *prometheus.HistogramVec
	verifyFailures *prometheus.CounterVec
	cellsTotal     *prometheus.CounterVec
	missingTotal   prometheus.Counter

	// Totals read by Progress.
	sorts    atomic.Int64
	cells    atomic.Int64
	failures atomic.Int64
}

var _ experiment.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		sortsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sortbench_sorts_total",
			Help: "Sort invocations by algorithm and mode (timed or counted)",
		}, []string{"algorithm", "mode"}),
		sortDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sortbench_sort_duration_seconds",
			Help:    "Wall-clock duration of timed sorts",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"algorithm"}),
		comparisons: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sortbench_comparisons",
			Help:    "Element comparisons per counted sort",
			Buckets: prometheus.ExponentialBuckets(1, 10, 9),
		}, []string{"algorithm"}),
		verifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sortbench_verify_failures_total",
			Help: "Sorted outputs that failed the sortedness check",
		}, []string{"algorithm", "mode"}),
		cellsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sortbench_cells_completed_total",
			Help: "Result cells stored after all trials completed",
		}, []string{"algorithm"}),
		missingTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sortbench_missing_cells_total",
			Help: "Expected result cells absent after the run",
		}),
	}
	r.reg.MustRegister(r.sortsTotal, r.sortDuration, r.comparisons, r.verifyFailures, r.cellsTotal, r.missingTotal)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) ObserveSort(algorithm string, mode experiment.Mode, elapsed time.Duration, comparisons int64) {
	r.sortsTotal.WithLabelValues(algorithm, string(mode)).Inc()
	r.sorts.Add(1)
	switch mode {
	case experiment.ModeTimed:
		r.sortDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	case experiment.ModeCounted:
		r.comparisons.WithLabelValues(algorithm).Observe(float64(comparisons))
	}
}

func (r *Recorder) ObserveVerifyFailure(algorithm string, mode experiment.Mode) {
	r.verifyFailures.WithLabelValues(algorithm, string(mode)).Inc()
	r.failures.Add(1)
}

func (r *Recorder) ObserveCell(algorithm string, _ experiment.CellKey) {
	r.cellsTotal.WithLabelValues(algorithm).Inc()
	r.cells.Add(1)
}

func (r *Recorder) ObserveMissing(string, experiment.CellKey) { r.missingTotal.Inc() }

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Server is a standalone /metrics endpoint.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve starts a dedicated HTTP server for /metrics on addr. The listener is
// bound before returning so bind errors surface immediately.
func (r *Recorder) Serve(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		_ = s.srv.Serve(ln)
	}()
	return s, nil
}

// Addr is the bound listen address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown stops the server, waiting for in-flight scrapes up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
