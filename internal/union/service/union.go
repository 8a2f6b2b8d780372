package service

import (
	"context"
	"errors"

	"together/internal/ledger"
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/sentinel"
	"together/pkg/requestcontext"
)

// UpdateUnion moves the caller's record to Paused or Separated. Only the
// proposer may update, and Separated is terminal. A proposal nobody has
// answered yet can be updated too; separating it frees both identities.
func (s *Service) UpdateUnion(ctx context.Context, caller domain.Identity, newStatus models.RelationshipStatus, payment domain.Amount) (u models.Union, err error) {
	ctx, finish := s.span(ctx, "update_union", caller)
	defer func() { finish(err) }()

	if err := requireCaller(caller); err != nil {
		return models.Union{}, err
	}

	err = s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		current, err := recordFor(ctx, st, caller)
		if err != nil {
			return err
		}
		if current.IsZero() || current.From != caller {
			return dErrors.New(dErrors.CodeNotProposer, "only the proposer can update the union")
		}
		params, err := loadParams(ctx, st)
		if err != nil {
			return err
		}
		if payment < params.UpdateStatusCost {
			return dErrors.New(dErrors.CodeInsufficientAmount, "payment "+payment.String()+" is below the status update cost "+params.UpdateStatusCost.String())
		}
		if current.RelationshipStatus == models.Separated {
			return dErrors.New(dErrors.CodeAlreadySeparated, "union is already separated")
		}
		if !models.ValidUpdate(newStatus) {
			return dErrors.New(dErrors.CodeInvalidStatus, "status must be 2 (paused) or 3 (separated)")
		}

		now := s.clock()
		current.RelationshipStatus = newStatus
		current.ProposalStatus = models.ProposalStatus(newStatus)
		if newStatus == models.Separated {
			current.Expired = true
		}
		current.UpdatedAt = now
		if err := st.UpdateRecord(ctx, current); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update union")
		}
		if err := s.credit(ctx, st, payment); err != nil {
			return err
		}
		u = current
		return s.emit(ctx, st, models.NewUnionStatusUpdatedEvent(current.From, current.To, newStatus, now))
	})
	if err != nil {
		return models.Union{}, err
	}

	s.logger.InfoContext(ctx, "union status updated",
		"from", u.From,
		"to", u.To,
		"status", u.RelationshipStatus.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.observeBalance(ctx)
	return u, nil
}

// UnionWith returns the record keyed by identity, or the zero record.
func (s *Service) UnionWith(ctx context.Context, identity domain.Identity) (models.Union, error) {
	var u models.Union
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		u, err = recordFor(ctx, st, identity)
		return err
	})
	return u, err
}

// RegistryEntry returns the accepted union holding registry number n.
func (s *Service) RegistryEntry(ctx context.Context, n domain.RegistryNumber) (models.Union, error) {
	var u models.Union
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		u, err = st.RecordByRegistry(ctx, n)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registry entry not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registry")
		}
		return nil
	})
	if err != nil {
		return models.Union{}, err
	}
	return u, nil
}

// TokenIDs lists the tokens minted to identity in mint order.
func (s *Service) TokenIDs(ctx context.Context, identity domain.Identity) ([]domain.TokenID, error) {
	var ids []domain.TokenID
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		ids, err = st.TokenIDs(ctx, identity)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read token ids")
		}
		return nil
	})
	if ids == nil {
		ids = []domain.TokenID{}
	}
	return ids, err
}

func (s *Service) TokenURI(ctx context.Context, id domain.TokenID) (string, error) {
	return s.minter.URI(ctx, id)
}

func (s *Service) Counters(ctx context.Context) (models.Counters, error) {
	var c models.Counters
	err := s.ledger.View(ctx, func(ctx context.Context, st ledger.Store) error {
		var err error
		c, err = st.Counters(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read counters")
		}
		return nil
	})
	return c, err
}
