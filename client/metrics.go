package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the client's Prometheus collectors. A nil *metrics records nothing.
type metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	throttleWait prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bittrex_client_requests_total",
				Help: "Requests issued to the exchange, by path and outcome.",
			},
			[]string{"path", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bittrex_client_request_duration_seconds",
				Help:    "Request latency including time spent throttled.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 60},
			},
			[]string{"path"},
		),
		throttleWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bittrex_client_throttle_wait_seconds",
				Help:    "Time requests spent waiting for a rate limit slot.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.throttleWait} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

func (m *metrics) observeRequest(path string, err error, took time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(path, outcome(err)).Inc()
	m.duration.WithLabelValues(path).Observe(took.Seconds())
}

func (m *metrics) observeWait(waited time.Duration) {
	if m == nil {
		return
	}

	m.throttleWait.Observe(waited.Seconds())
}

// outcome labels err by its kind.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidAuthentication):
		return "invalid_auth"
	case errors.Is(err, ErrAPI):
		return "api_error"
	case errors.Is(err, ErrUnexpectedResponse):
		return "bad_response"
	case errors.Is(err, ErrRest):
		return "rest_error"
	default:
		return "transport_error"
	}
}
