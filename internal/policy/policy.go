// Package policy holds the fee and access policy: the administrative identity
// and the owner-only setters of the economic parameters.
package policy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"together/internal/audit"
	"together/internal/ledger"
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/sentinel"
	"together/pkg/requestcontext"
)

// Ledger is the transactional store the policy persists parameters in.
type Ledger interface {
	RunInTx(ctx context.Context, fn ledger.TxFunc) error
	View(ctx context.Context, fn ledger.TxFunc) error
}

// AuditPublisher records administrative actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service guards the economic parameters. The owner is fixed at construction.
type Service struct {
	ledger  Ledger
	owner   domain.Identity
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(l Ledger, owner domain.Identity, opts ...Option) (*Service, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if owner.IsZero() {
		return nil, errors.New("owner identity is required")
	}
	s := &Service{ledger: l, owner: owner, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Owner returns the administrative identity.
func (s *Service) Owner() domain.Identity {
	return s.owner
}

// IsOwner reports whether caller is the administrative identity.
func (s *Service) IsOwner(caller domain.Identity) bool {
	return caller == s.owner
}

// Seed stores defaults unless parameters were saved before. The configured
// owner always replaces a stored one.
func (s *Service) Seed(ctx context.Context, defaults models.Params) error {
	return s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		current, err := st.Params(ctx)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			current = defaults
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read parameters")
		}
		current.Owner = s.owner
		if err := st.SaveParams(ctx, current); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed parameters")
		}
		return nil
	})
}

// Params returns the current economic parameters.
func (s *Service) Params(ctx context.Context) (models.Params, error) {
	var p models.Params
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		p, err = Load(ctx, st)
		return err
	})
	return p, err
}

// Load reads the parameters inside an existing transaction.
func Load(ctx context.Context, st ledger.Store) (models.Params, error) {
	p, err := st.Params(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Params{}, dErrors.New(dErrors.CodeInternal, "economic parameters are not initialised")
	}
	if err != nil {
		return models.Params{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read parameters")
	}
	return p, nil
}

// SetProposalCost overwrites proposalCost.
func (s *Service) SetProposalCost(ctx context.Context, caller domain.Identity, cost domain.Amount) (models.Params, error) {
	return s.update(ctx, caller, audit.ActionProposalCostChanged, cost.String(), func(p *models.Params) {
		p.ProposalCost = cost
	})
}

// SetStatusUpdateCost overwrites updateStatusCost.
func (s *Service) SetStatusUpdateCost(ctx context.Context, caller domain.Identity, cost domain.Amount) (models.Params, error) {
	return s.update(ctx, caller, audit.ActionStatusUpdateCostChanged, cost.String(), func(p *models.Params) {
		p.UpdateStatusCost = cost
	})
}

// SetResponseWindow overwrites the response window. The window must be positive.
func (s *Service) SetResponseWindow(ctx context.Context, caller domain.Identity, window time.Duration) (models.Params, error) {
	if !s.IsOwner(caller) {
		return models.Params{}, s.deny(ctx, caller, audit.ActionResponseWindowChanged)
	}
	if window <= 0 {
		return models.Params{}, dErrors.New(dErrors.CodeInvalidInput, "response window must be positive")
	}
	return s.update(ctx, caller, audit.ActionResponseWindowChanged, window.String(), func(p *models.Params) {
		p.ResponseWindow = window
	})
}

func (s *Service) update(ctx context.Context, caller domain.Identity, action audit.Action, detail string, apply func(*models.Params)) (models.Params, error) {
	if !s.IsOwner(caller) {
		return models.Params{}, s.deny(ctx, caller, action)
	}

	var updated models.Params
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		p, err := Load(ctx, st)
		if err != nil {
			return err
		}
		apply(&p)
		if err := st.SaveParams(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save parameters")
		}
		updated = p
		return nil
	})
	if err != nil {
		return models.Params{}, err
	}

	s.logger.InfoContext(ctx, "economic parameter changed",
		"action", action,
		"value", detail,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{Actor: caller, Action: action, Decision: audit.DecisionGranted, Detail: detail})
	return updated, nil
}

func (s *Service) deny(ctx context.Context, caller domain.Identity, action audit.Action) error {
	s.logger.WarnContext(ctx, "administrative action denied",
		"action", action,
		"caller", caller,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{Actor: caller, Action: action, Decision: audit.DecisionDenied, Reason: "caller is not the owner"})
	return dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
