package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Flexura/internal/engine"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the Prometheus view of the beam service. A nil *Metrics
// records nothing.
type Metrics struct {
	beams    prometheus.Counter
	failed   prometheus.Counter
	errors   *prometheus.CounterVec
	deflect  prometheus.Histogram
	requests *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		beams: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flexura_beams_analyzed_total",
			Help: "Beams solved and checked.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flexura_deflection_checks_failed_total",
			Help: "Beams whose peak deflection exceeded L/ratio.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flexura_engine_errors_total",
			Help: "Engine errors by kind.",
		}, []string{"kind"}),
		deflect: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flexura_deflection_utilisation_ratio",
			Help:    "Peak deflection divided by the allowable limit.",
			Buckets: []float64{0.25, 0.5, 0.75, 0.9, 1, 1.1, 1.5, 2, 5},
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flexura_http_request_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.beams, m.failed, m.errors, m.deflect, m.requests)
	return m
}

// ObserveResults records a batch of check results.
func (m *Metrics) ObserveResults(results []engine.CheckResult) {
	if m == nil {
		return
	}
	for _, r := range results {
		m.beams.Inc()
		if !r.OK {
			m.failed.Inc()
		}
		if r.LimitMM > 0 {
			m.deflect.Observe(r.DeltaMaxMM / r.LimitMM)
		}
	}
}

// ObserveError counts err under its engine error kind.
func (m *Metrics) ObserveError(err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(Kind(err)).Inc()
}

// Kind names the engine error kind of err, "other" when it has none.
func Kind(err error) string {
	kinds := []struct {
		err  error
		name string
	}{
		{engine.ErrInvalidGeometry, "invalid_geometry"},
		{engine.ErrInvalidMaterial, "invalid_material"},
		{engine.ErrInvalidLoad, "invalid_load"},
		{engine.ErrInvalidRatio, "invalid_ratio"},
		{engine.ErrSingularSystem, "singular_system"},
		{engine.ErrOutOfRangeSample, "out_of_range"},
		{engine.ErrEmptyBatch, "empty_batch"},
		{engine.ErrInconsistent, "inconsistent"},
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "deadline"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}

// Middleware times every request under its mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.requests.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
