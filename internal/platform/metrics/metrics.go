package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Operations      *prometheus.CounterVec
	UnionsFormed    prometheus.Counter
	TokensMinted    prometheus.Counter
	NameLookups     *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	TreasuryBalance prometheus.Gauge
	RateLimited     *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg; tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "together_operations_total",
			Help: "Union state machine operations by operation and outcome code",
		}, []string{"operation", "outcome"}),
		UnionsFormed: factory.NewCounter(prometheus.CounterOpts{
			Name: "together_unions_formed_total",
			Help: "Total number of accepted proposals",
		}),
		TokensMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "together_tokens_minted_total",
			Help: "Total number of commemorative tokens minted",
		}),
		NameLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "together_name_lookups_total",
			Help: "Name-ownership oracle lookups by source and result",
		}, []string{"source", "result"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "together_events_published_total",
			Help: "Outbox events handed to the publisher by kind and result",
		}, []string{"kind", "result"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "together_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		TreasuryBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "together_treasury_balance_gwei",
			Help: "Treasury balance observed after the last fee or withdrawal",
		}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "together_rate_limited_total",
			Help: "Requests rejected by the rate limiter by endpoint class",
		}, []string{"class"}),
	}
}

func (m *Metrics) ObserveRateLimited(class string) {
	m.RateLimited.WithLabelValues(class).Inc()
}

// ObserveOperation counts one state machine call.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveUnion counts an accepted proposal and the two tokens it minted.
func (m *Metrics) ObserveUnion() {
	m.UnionsFormed.Inc()
	m.TokensMinted.Add(2)
}

func (m *Metrics) ObserveNameLookup(source, result string) {
	m.NameLookups.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObserveEventPublished(kind, result string) {
	m.EventsPublished.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SetTreasuryBalance(gwei uint64) {
	m.TreasuryBalance.Set(float64(gwei))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LatencyMiddleware records request duration labelled by the chi route pattern.
func (m *Metrics) LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.HTTPLatency.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
	})
}
