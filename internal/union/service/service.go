// Package service implements the union state machine: proposals, responses,
// cancellation and post-union status updates against the ledger.
//
// Every transition runs in one ledger transaction. Preconditions are checked
// in a fixed order and the first failure wins; a failed call leaves no trace,
// including fees, counters, minted tokens and outbox events.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"together/internal/ledger"
	"together/internal/policy"
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/sentinel"
)

const tracerName = "together/internal/union/service"

// Service is the union state machine.
type Service struct {
	ledger   Ledger
	names    NameOracle
	minter   Minter
	identity domain.Identity

	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
	clock    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithClock replaces the clock read inside committing transactions.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New wires the state machine. identity is the capability the minter was
// installed with; it is held privately and never exposed.
func New(l Ledger, names NameOracle, minter Minter, identity domain.Identity, opts ...Option) (*Service, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if names == nil {
		return nil, errors.New("name oracle is required")
	}
	if minter == nil {
		return nil, errors.New("minter is required")
	}
	if identity.IsZero() {
		return nil, errors.New("minting identity is required")
	}
	s := &Service{
		ledger:   l,
		names:    names,
		minter:   minter,
		identity: identity,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// span starts a span for op and returns a finisher recording the outcome.
func (s *Service) span(ctx context.Context, op string, caller domain.Identity) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "union."+op, trace.WithAttributes(
		attribute.String("union.caller", caller.String()),
	))
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		if s.observer != nil {
			s.observer.ObserveOperation(op, outcome)
		}
	}
}

func requireCaller(caller domain.Identity) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "caller identity is required")
	}
	return nil
}

// recordFor returns the caller's record, the zero record when none is keyed.
func recordFor(ctx context.Context, st ledger.Store, identity domain.Identity) (models.Union, error) {
	u, err := st.RecordFor(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Union{}, nil
	}
	if err != nil {
		return models.Union{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read union record")
	}
	return u, nil
}

func (s *Service) emit(ctx context.Context, st ledger.Store, e models.Event) error {
	if _, err := st.AppendEvent(ctx, e); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record notification")
	}
	return nil
}

func (s *Service) credit(ctx context.Context, st ledger.Store, amount domain.Amount) error {
	if err := st.Credit(ctx, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit treasury")
	}
	return nil
}

// observeBalance reports the treasury after a fee-collecting commit.
func (s *Service) observeBalance(ctx context.Context) {
	if s.observer == nil {
		return
	}
	_ = s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		balance, err := st.Balance(ctx)
		if err == nil {
			s.observer.SetTreasuryBalance(uint64(balance))
		}
		return err
	})
}

func loadParams(ctx context.Context, st ledger.Store) (models.Params, error) {
	return policy.Load(ctx, st)
}
