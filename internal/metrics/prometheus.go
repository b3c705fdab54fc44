package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

// RunMetrics records per-sieve observations in a private Prometheus
// registry. Each application run owns one, so repeated runs in the same
// process (tests) never collide on registration.
type RunMetrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	primes   *prometheus.GaugeVec
	sieves   *prometheus.CounterVec
}

// NewRunMetrics creates the metric set and registers it together with the Go
// runtime collector.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sievebench_sieve_duration_seconds",
			Help:    "Wall-clock run time of a single sieve.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 9),
		}, []string{"strategy"}),
		primes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sievebench_primes_found",
			Help: "Primes found below the upper bound of a sieve.",
		}, []string{"strategy", "upper_bound"}),
		sieves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sievebench_sieves_total",
			Help: "Completed sieves.",
		}, []string{"strategy"}),
	}
	m.registry.MustRegister(m.duration, m.primes, m.sieves, collectors.NewGoCollector())
	return m
}

// ObserveSieve records one finished sieve.
func (m *RunMetrics) ObserveSieve(strategy string, upperBound int, elapsed time.Duration, primes int) {
	m.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.primes.WithLabelValues(strategy, strconv.Itoa(upperBound)).Set(float64(primes))
	m.sieves.WithLabelValues(strategy).Inc()
}

// WritePrometheus writes every registered metric to w in the Prometheus text
// exposition format.
func (m *RunMetrics) WritePrometheus(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
