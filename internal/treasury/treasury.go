// Package treasury holds collected fees and pays them out to the owner.
package treasury

import (
	"context"
	"errors"
	"log/slog"

	"together/internal/audit"
	"together/internal/ledger"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/requestcontext"
)

// Ledger is the transactional store holding the balance.
type Ledger interface {
	RunInTx(ctx context.Context, fn ledger.TxFunc) error
	View(ctx context.Context, fn ledger.TxFunc) error
}

// AuditPublisher records withdrawals.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// BalanceObserver is told the balance after each withdrawal.
type BalanceObserver interface {
	SetTreasuryBalance(gwei uint64)
}

type Service struct {
	ledger     Ledger
	owner      domain.Identity
	transferer Transferer
	auditor    AuditPublisher
	observer   BalanceObserver
	logger     *slog.Logger
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

func WithBalanceObserver(o BalanceObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

func New(l Ledger, owner domain.Identity, transferer Transferer, opts ...Option) (*Service, error) {
	if l == nil || transferer == nil {
		return nil, errors.New("ledger and transferer are required")
	}
	if owner.IsZero() {
		return nil, errors.New("owner identity is required")
	}
	s := &Service{ledger: l, owner: owner, transferer: transferer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Balance returns the accumulated fees.
func (s *Service) Balance(ctx context.Context) (domain.Amount, error) {
	var balance domain.Amount
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		balance, err = st.Balance(ctx)
		return err
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read treasury")
	}
	return balance, nil
}

// Withdraw transfers the whole balance to the owner. The balance is zeroed
// and committed before any money moves; a failed transfer credits it back.
func (s *Service) Withdraw(ctx context.Context, caller domain.Identity) (domain.Amount, error) {
	if caller != s.owner {
		s.logger.WarnContext(ctx, "withdrawal denied",
			"caller", caller,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emit(ctx, audit.Event{Actor: caller, Action: audit.ActionTreasuryWithdrawn, Decision: audit.DecisionDenied, Reason: "caller is not the owner"})
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
	}

	var withdrawn domain.Amount
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		balance, err := st.Balance(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read treasury")
		}
		if err := st.SetBalance(ctx, 0); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update treasury")
		}
		withdrawn = balance
		return nil
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInternal) {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit withdrawal")
		}
		return 0, err
	}

	if withdrawn > 0 {
		if err := s.transferer.Transfer(ctx, s.owner, withdrawn); err != nil {
			return 0, s.restore(ctx, caller, withdrawn, err)
		}
	}

	s.logger.InfoContext(ctx, "treasury withdrawn",
		"amount", withdrawn,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{Actor: caller, Action: audit.ActionTreasuryWithdrawn, Decision: audit.DecisionGranted, Detail: withdrawn.String()})
	if s.observer != nil {
		s.observer.SetTreasuryBalance(0)
	}
	return withdrawn, nil
}

// restore credits a withdrawn amount back after its transfer failed.
func (s *Service) restore(ctx context.Context, caller domain.Identity, amount domain.Amount, cause error) error {
	err := dErrors.Wrap(cause, dErrors.CodeTransferFailed, "transfer to owner failed")
	s.logger.ErrorContext(ctx, "withdrawal transfer failed",
		"error", cause,
		"amount", amount,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{Actor: caller, Action: audit.ActionTreasuryWithdrawn, Decision: audit.DecisionFailed, Reason: err.Error()})

	if cerr := s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		return st.Credit(ctx, amount)
	}); cerr != nil {
		// needs manual reconciliation: the owner was not paid and the balance reads zero
		s.logger.ErrorContext(ctx, "failed to restore treasury after transfer failure",
			"error", cerr,
			"amount", amount,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return err
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
