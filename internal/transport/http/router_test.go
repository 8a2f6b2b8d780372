package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"together/internal/platform/metrics"
	"together/pkg/platform/middleware/request"
	"together/pkg/testutil"
)

type echoRoutes struct{}

func (echoRoutes) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, request.GetRequestID(r))
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(opts ...Option) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, []Registrar{echoRoutes{}}, opts...)
}

func TestRouterMiddlewareChain(t *testing.T) {
	router := newTestRouter()

	t.Run("request id is assigned and echoed", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/echo", ""))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.NotEmpty(t, rr.Body.String())
		assert.Equal(t, rr.Body.String(), rr.Header().Get(request.HeaderRequestID))
	})

	t.Run("panics become internal errors", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/panic", ""))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	})

	t.Run("unknown routes use the error envelope", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/nope", ""))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestHealthz(t *testing.T) {
	t.Run("healthy without checks", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(), testutil.NewRequestWithBody(t, http.MethodGet, "/healthz", ""))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "ok", testutil.UnmarshalResponse[healthResponse](t, rr).Status)
	})

	t.Run("failing dependency degrades", func(t *testing.T) {
		router := newTestRouter(
			WithHealthCheck("postgres", func(context.Context) error { return nil }),
			WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
		)
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/healthz", ""))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		got := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", got.Status)
		assert.Equal(t, "ok", got.Checks["postgres"])
		assert.Equal(t, "connection refused", got.Checks["redis"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(WithMetrics(metrics.NewWithRegistry(reg), reg))

	testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/echo", ""))
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `route="/echo"`), rr.Body.String())
}

func TestRateLimitSkipsOperationalRoutes(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := newTestRouter(WithRateLimit(deny))

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/echo", ""))
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)

	rr = testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/healthz", ""))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
