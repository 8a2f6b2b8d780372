// Package httptransport assembles the public HTTP surface: shared middleware,
// health and metrics endpoints, and the module handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"together/internal/platform/metrics"
	"together/pkg/platform/httputil"
	"together/pkg/platform/middleware/metadata"
	"together/pkg/platform/middleware/request"
	"together/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Option func(*config)

type config struct {
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]HealthCheck
	limiter  func(http.Handler) http.Handler
}

// WithMetrics records request latency and serves /metrics from gatherer.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(c *config) {
		c.metrics = m
		c.gatherer = gatherer
	}
}

// WithRateLimit throttles every route except /healthz and /metrics.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(c *config) {
		c.limiter = mw
	}
}

// WithHealthCheck adds a named dependency probe to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(c *config) {
		c.checks[name] = check
	}
}

// NewRouter wires the middleware chain and mounts every registrar.
func NewRouter(logger *slog.Logger, registrars []Registrar, opts ...Option) http.Handler {
	cfg := &config{checks: map[string]HealthCheck{}}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	if cfg.metrics != nil {
		r.Use(cfg.metrics.LatencyMiddleware)
	}

	r.Get("/healthz", healthHandler(cfg.checks))
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	r.Group(func(r chi.Router) {
		if cfg.limiter != nil {
			r.Use(cfg.limiter)
		}
		for _, reg := range registrars {
			reg.Register(r)
		}
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "not_found", ErrorDescription: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "method_not_allowed"})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
