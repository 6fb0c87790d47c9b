// Package metrics exposes Prometheus instrumentation for feed fetching and rate requests
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch results recorded on feed_fetch_total
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// FeedMetrics holds the collectors of the rate provider
type FeedMetrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	RequestsTotal prometheus.Counter
	RatesReturned prometheus.Counter
}

// NewFeedMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which keeps tests independent.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	m := &FeedMetrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_fetch_total",
				Help: "Number of feed fetches by result",
			},
			[]string{"result"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_fetch_duration_seconds",
				Help:    "Duration of feed fetches including retries",
				Buckets: prometheus.DefBuckets,
			},
		),
		RequestsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "exchange_rate_requests_total",
				Help: "Number of exchange rate requests answered",
			},
		),
		RatesReturned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "exchange_rates_returned_total",
				Help: "Number of exchange rates returned to callers",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.FetchTotal, m.FetchDuration, m.RequestsTotal, m.RatesReturned)
	}

	return m
}

// ObserveFetch records one fetch outcome
func (m *FeedMetrics) ObserveFetch(ok bool, took time.Duration) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	m.FetchTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(took.Seconds())
}

// ObserveRequest records one answered request and the number of rates it returned
func (m *FeedMetrics) ObserveRequest(returned int) {
	if m == nil {
		return
	}

	m.RequestsTotal.Inc()
	m.RatesReturned.Add(float64(returned))
}
