// Package app assembles the service from configuration: storage, oracle,
// state machine, admin services, HTTP router and the outbox relay.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	adminHandler "together/internal/admin/handler"
	"together/internal/audit"
	"together/internal/events"
	jwttoken "together/internal/jwt_token"
	"together/internal/platform/config"
	"together/internal/platform/httpserver"
	"together/internal/platform/metrics"
	"together/internal/policy"
	"together/internal/token"
	httptransport "together/internal/transport/http"
	"together/internal/treasury"
	unionHandler "together/internal/union/handler"
	"together/internal/union/models"
	unionService "together/internal/union/service"
	authmw "together/pkg/platform/middleware/auth"
)

// App is a fully wired service instance.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	infra   *infra
	handler http.Handler
	relay   *events.Relay
}

// New connects the configured backends and wires every component. The
// returned App owns its connections; call Close when done.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(reg)

	in, err := buildInfra(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, logger: logger, infra: in}
	if err := a.wire(ctx, m, reg); err != nil {
		in.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, m *metrics.Metrics, reg *prometheus.Registry) error {
	cfg, log, in := a.cfg, a.logger, a.infra
	auditLog := audit.NewPublisher(in.audit)

	policySvc, err := policy.New(in.ledger, cfg.Policy.Owner,
		policy.WithLogger(log),
		policy.WithAuditPublisher(auditLog),
	)
	if err != nil {
		return err
	}
	if err := policySvc.Seed(ctx, models.Params{
		ProposalCost:     cfg.Policy.ProposalCost,
		UpdateStatusCost: cfg.Policy.UpdateStatusCost,
		ResponseWindow:   cfg.Policy.ResponseWindow,
	}); err != nil {
		return fmt.Errorf("seed parameters: %w", err)
	}

	treasurySvc, err := treasury.New(in.ledger, cfg.Policy.Owner, treasury.NewAccounts(),
		treasury.WithLogger(log),
		treasury.WithAuditPublisher(auditLog),
		treasury.WithBalanceObserver(m),
	)
	if err != nil {
		return err
	}

	registry, err := token.NewRegistry(in.tokens, cfg.Token.Minter, cfg.Token.BaseURI, token.WithLogger(log))
	if err != nil {
		return err
	}

	unions, err := unionService.New(in.ledger, buildOracle(cfg, in, log, m), registry, cfg.Token.Minter,
		unionService.WithLogger(log),
		unionService.WithObserver(m),
	)
	if err != nil {
		return err
	}

	validator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience))
	requireAuth := authmw.RequireAuth(validator, log)

	routerOpts := append(in.healthChecks(),
		httptransport.WithMetrics(m, reg),
		httptransport.WithRateLimit(buildLimiter(cfg, in, log, m).Handler),
	)
	a.handler = httptransport.NewRouter(log,
		[]httptransport.Registrar{
			unionHandler.New(unions, policySvc, log, requireAuth),
			adminHandler.New(policySvc, treasurySvc, auditLog, log, requireAuth),
		},
		routerOpts...,
	)

	a.relay = events.NewRelay(in.ledger, buildPublisher(cfg, in, log),
		events.WithInterval(cfg.Relay.Interval),
		events.WithBatchSize(cfg.Relay.BatchSize),
		events.WithLogger(log),
		events.WithObserver(m),
	)
	return nil
}

// Handler is the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Relay returns the outbox relay so callers can drain it on demand.
func (a *App) Relay() *events.Relay {
	return a.relay
}

// Run serves HTTP and relays events until ctx is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting together", "addr", a.cfg.Server.Addr, "storage", a.infra.storage)
		return httpserver.Run(ctx, httpserver.New(a.cfg.Server.Addr, a.handler), a.cfg.Server.ShutdownTimeout, a.logger)
	})
	g.Go(func() error {
		return a.relay.Run(ctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	a.infra.Close()
}
