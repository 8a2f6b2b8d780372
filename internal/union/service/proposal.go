package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"together/internal/ledger"
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/requestcontext"
)

// Propose creates a pending proposal from caller to to, keeping payment in
// the treasury whatever the proposal's eventual outcome.
func (s *Service) Propose(ctx context.Context, caller, to domain.Identity, payment domain.Amount) (u models.Union, err error) {
	ctx, finish := s.span(ctx, "propose", caller)
	defer func() { finish(err) }()

	if err := requireCaller(caller); err != nil {
		return models.Union{}, err
	}
	if to.IsZero() {
		return models.Union{}, dErrors.New(dErrors.CodeInvalidInput, "counterparty identity is required")
	}
	if err := s.checkNames(ctx, caller, to); err != nil {
		return models.Union{}, err
	}
	if caller == to {
		return models.Union{}, dErrors.New(dErrors.CodeSelfProposal, "cannot propose to yourself")
	}

	err = s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		params, err := loadParams(ctx, st)
		if err != nil {
			return err
		}
		if payment < params.ProposalCost {
			return dErrors.New(dErrors.CodeInsufficientAmount, "payment "+payment.String()+" is below the proposal cost "+params.ProposalCost.String())
		}

		mine, err := recordFor(ctx, st, caller)
		if err != nil {
			return err
		}
		if mine.IsPending() {
			return dErrors.New(dErrors.CodeSenderPendingProposal, "caller already has a pending proposal")
		}
		theirs, err := recordFor(ctx, st, to)
		if err != nil {
			return err
		}
		if theirs.IsPending() {
			return dErrors.New(dErrors.CodeReceiverPendingProposal, "counterparty already has a pending proposal")
		}

		number, err := st.NextProposalNumber(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate proposal number")
		}
		now := s.clock()
		u, err = st.InsertRecord(ctx, models.Union{
			From:           caller,
			To:             to,
			ProposalNumber: number,
			ProposalStatus: models.ProposalPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store proposal")
		}
		if err := s.credit(ctx, st, payment); err != nil {
			return err
		}
		return s.emit(ctx, st, models.NewProposalSubmittedEvent(to, caller, now))
	})
	if err != nil {
		return models.Union{}, err
	}

	s.logger.InfoContext(ctx, "proposal submitted",
		"from", caller,
		"to", to,
		"proposal_number", u.ProposalNumber,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.observeBalance(ctx)
	return u, nil
}

// checkNames consults the oracle for both parties concurrently. Results are
// judged in order, so the caller's verdict wins over any counterparty error.
func (s *Service) checkNames(ctx context.Context, caller, to domain.Identity) error {
	var (
		callerNamed, toNamed bool
		callerErr, toErr     error
		g                    errgroup.Group
	)
	// lookups return nil to the group so neither cancels the other
	g.Go(func() error {
		callerNamed, callerErr = s.names.HasName(ctx, caller)
		return nil
	})
	g.Go(func() error {
		toNamed, toErr = s.names.HasName(ctx, to)
		return nil
	})
	_ = g.Wait()

	if callerErr != nil {
		return dErrors.Wrap(callerErr, dErrors.CodeUnavailable, "name ownership could not be verified")
	}
	if !callerNamed {
		return dErrors.New(dErrors.CodeSenderHasNoName, "caller does not own a registered name")
	}
	if toErr != nil {
		return dErrors.Wrap(toErr, dErrors.CodeUnavailable, "name ownership could not be verified")
	}
	if !toNamed {
		return dErrors.New(dErrors.CodeReceiverHasNoName, "counterparty does not own a registered name")
	}
	return nil
}

// CancelOrResetProposal withdraws the caller's pending proposal and frees
// both parties' slots. The proposal fee is not refunded.
func (s *Service) CancelOrResetProposal(ctx context.Context, caller domain.Identity) (err error) {
	ctx, finish := s.span(ctx, "cancel_or_reset_proposal", caller)
	defer func() { finish(err) }()

	if err := requireCaller(caller); err != nil {
		return err
	}

	var cancelled models.Union
	err = s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		u, err := recordFor(ctx, st, caller)
		if err != nil {
			return err
		}
		if !u.IsPending() {
			return dErrors.New(dErrors.CodeNoPendingProposal, "caller has no pending proposal")
		}
		if u.From != caller {
			return dErrors.New(dErrors.CodeNotProposer, "only the proposer can cancel a proposal")
		}
		if err := st.DeleteRecord(ctx, u.ID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset proposal")
		}
		cancelled = u
		return s.emit(ctx, st, models.NewProposalCancelledEvent(u.To, u.From, s.clock()))
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "proposal cancelled",
		"from", cancelled.From,
		"to", cancelled.To,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// RespondToProposal accepts or declines the proposal addressed to caller.
// Accepting registers the union and mints one token to each party, the
// responder first; a failed mint rolls the whole acceptance back.
func (s *Service) RespondToProposal(ctx context.Context, caller domain.Identity, response models.Response, nameFrom, nameTo string) (u models.Union, err error) {
	ctx, finish := s.span(ctx, "respond_to_proposal", caller)
	defer func() { finish(err) }()

	if err := requireCaller(caller); err != nil {
		return models.Union{}, err
	}
	if !response.Valid() {
		return models.Union{}, dErrors.New(dErrors.CodeInvalidResponse, "response must be 2 (accept) or 3 (decline)")
	}

	err = s.ledger.RunInTx(ctx, func(ctx context.Context, st ledger.Store) error {
		current, err := recordFor(ctx, st, caller)
		if err != nil {
			return err
		}
		if current.IsZero() {
			return dErrors.New(dErrors.CodeNoPendingProposal, "no proposal is addressed to caller")
		}
		if current.From == caller {
			return dErrors.New(dErrors.CodeCannotRespondOwnProposal, "cannot respond to your own proposal")
		}
		if !current.IsPending() {
			return dErrors.New(dErrors.CodeAlreadyResponded, "proposal was already responded to")
		}

		now := s.clock()
		if response == models.ResponseDecline {
			u, err = s.decline(ctx, st, current, now)
			return err
		}
		u, err = s.accept(ctx, st, current, nameFrom, nameTo, now)
		return err
	})
	if err != nil {
		return models.Union{}, err
	}

	if response == models.ResponseAccept {
		s.logger.InfoContext(ctx, "union formed",
			"from", u.From,
			"to", u.To,
			"registry_number", u.RegistryNumber,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.observer != nil {
			s.observer.ObserveUnion()
		}
	} else {
		s.logger.InfoContext(ctx, "proposal declined",
			"from", u.From,
			"to", u.To,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return u, nil
}

// decline marks the record cancelled. The record stays keyed so a repeated
// response reports AlreadyResponded, while neither slot counts as pending.
func (s *Service) decline(ctx context.Context, st ledger.Store, u models.Union, now time.Time) (models.Union, error) {
	u.ProposalStatus = models.ProposalCancelled
	u.UpdatedAt = now
	if err := st.UpdateRecord(ctx, u); err != nil {
		return models.Union{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decline proposal")
	}
	return u, s.emit(ctx, st, models.NewProposalCancelledEvent(u.To, u.From, now))
}

func (s *Service) accept(ctx context.Context, st ledger.Store, u models.Union, nameFrom, nameTo string, now time.Time) (models.Union, error) {
	number, err := st.NextRegistryNumber(ctx)
	if err != nil {
		return models.Union{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate registry number")
	}
	u.ProposalStatus = models.ProposalResponded
	u.RelationshipStatus = models.United
	u.RegistryNumber = number
	u.NameFrom = nameFrom
	u.NameTo = nameTo
	u.UnitedAt = now
	u.UpdatedAt = now
	if err := st.UpdateRecord(ctx, u); err != nil {
		return models.Union{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register union")
	}

	for _, party := range []domain.Identity{u.To, u.From} {
		id, err := s.minter.MintTo(ctx, s.identity, party)
		if err != nil {
			return models.Union{}, err
		}
		if err := st.AppendTokenID(ctx, party, id); err != nil {
			return models.Union{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record token id")
		}
	}

	if err := s.emit(ctx, st, models.NewProposalRespondedEvent(u.To, u.From, models.ResponseAccept, now)); err != nil {
		return models.Union{}, err
	}
	return u, s.emit(ctx, st, models.NewGotUnitedEvent(u.From, u.To, now, number))
}
