package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bidmarket"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// AuctionMetrics counts lifecycle transitions by action and resulting status.
type AuctionMetrics struct {
	Transitions *prometheus.CounterVec
}

func NewAuctionMetrics(reg prometheus.Registerer) *AuctionMetrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auction",
		Name:      "transitions_total",
		Help:      "Auction lifecycle transitions committed, by action and resulting status.",
	}, []string{"action", "status"})

	reg.MustRegister(transitions)
	return &AuctionMetrics{Transitions: transitions}
}

// ObserveTransition is safe on a nil receiver.
func (m *AuctionMetrics) ObserveTransition(action, status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(action, status).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
