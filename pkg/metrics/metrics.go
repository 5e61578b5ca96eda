// Package metrics defines the Prometheus collectors used by the filter
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"errors"
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	FilterRequestsTotal  *prometheus.CounterVec
	FilterLatency        *prometheus.HistogramVec
	TokensTotal          *prometheus.CounterVec
	StopwordLoadsTotal   *prometheus.CounterVec
	StopwordSetSize      *prometheus.GaugeVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	RateLimitedTotal     prometheus.Counter
}

// New creates all collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		FilterRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopword_filter_requests_total",
				Help: "Filter and count operations by operation, language, and status (ok, not_found, invalid, error).",
			},
			[]string{"operation", "language", "status"},
		),
		FilterLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stopword_filter_latency_seconds",
				Help:    "Filter and count latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"operation", "cache_status"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopword_filter_tokens_total",
				Help: "Tokens seen by the filter, by stage (input, retained).",
			},
			[]string{"stage"},
		),
		StopwordLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stopword_set_loads_total",
				Help: "Stopword data file loads by language and result.",
			},
			[]string{"language", "result"},
		),
		StopwordSetSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stopword_set_size",
				Help: "Number of words in each loaded stopword set.",
			},
			[]string{"language"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by the per-client rate limiter.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.FilterRequestsTotal,
		m.FilterLatency,
		m.TokensTotal,
		m.StopwordLoadsTotal,
		m.StopwordSetSize,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RateLimitedTotal,
	)

	return m
}

// ObserveLoad records a stopword data file load. It satisfies
// stopwords.Observer. Failed loads are labelled "unknown" with the error
// kind as result, since the language is caller input.
func (m *Metrics) ObserveLoad(language string, size int, err error) {
	if err != nil {
		m.StopwordLoadsTotal.WithLabelValues("unknown", loadFailure(err)).Inc()
		return
	}
	m.StopwordLoadsTotal.WithLabelValues(language, "ok").Inc()
	m.StopwordSetSize.WithLabelValues(language).Set(float64(size))
}

func loadFailure(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrStopwordsFileNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
