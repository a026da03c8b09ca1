// Package metrics holds the Prometheus collectors exported by the dashboard.
package metrics

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded on the provider counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProviderFetches *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	Snapshots       *prometheus.CounterVec
	Score           prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "marketpulse_provider_fetches_total", Help: "Provider fetch attempts by chain, provider and outcome"},
			[]string{"chain", "provider", "outcome"},
		),
		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "marketpulse_provider_fetch_seconds", Help: "Provider fetch latency", Buckets: prometheus.DefBuckets},
			[]string{"chain", "provider"},
		),
		Snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "marketpulse_snapshots_total", Help: "Snapshot computations by result"},
			[]string{"result"},
		),
		Score: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "marketpulse_score", Help: "Latest composite score"},
		),
	}

	reg.MustRegister(m.ProviderFetches, m.ProviderLatency, m.Snapshots, m.Score)

	return m
}

// ObserveFetch records one provider attempt.
func (m *Metrics) ObserveFetch(chain, provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	m.ProviderFetches.WithLabelValues(chain, provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(chain, provider).Observe(elapsed.Seconds())
}

// ObserveSnapshot records one snapshot computation and, on success, its score.
func (m *Metrics) ObserveSnapshot(score int, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.Snapshots.WithLabelValues(OutcomeFailure).Inc()

		return
	}

	m.Snapshots.WithLabelValues(OutcomeSuccess).Inc()
	m.Score.Set(float64(score))
}

// Serve binds addr and exposes gatherer under /metrics in the background.
// The returned server's Addr is the bound address, so port 0 resolves to the chosen port.
func Serve(addr string, gatherer prometheus.Gatherer) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	return srv, nil
}
