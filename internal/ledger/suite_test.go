package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"together/internal/union/models"
	"together/pkg/domain"
	"together/pkg/platform/sentinel"
)

type transactor interface {
	RunInTx(ctx context.Context, fn TxFunc) error
	View(ctx context.Context, fn TxFunc) error
}

var (
	alice = domain.MustIdentity("0x00000000000000000000000000000000000a11ce")
	bob   = domain.MustIdentity("0x0000000000000000000000000000000000000b0b")
	carol = domain.MustIdentity("0x0000000000000000000000000000000000000ca1")
	epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

var errBoom = errors.New("boom")

// StoreSuite runs the same behavioural checks against every ledger backend.
type StoreSuite struct {
	suite.Suite
	newLedger func() transactor
	ledger    transactor
	ctx       context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledger = s.newLedger()
}

func (s *StoreSuite) insertPending(from, to domain.Identity) models.Union {
	var out models.Union
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		n, err := st.NextProposalNumber(ctx)
		if err != nil {
			return err
		}
		out, err = st.InsertRecord(ctx, models.Union{
			From: from, To: to, ProposalNumber: n,
			ProposalStatus: models.ProposalPending,
			CreatedAt:      epoch, UpdatedAt: epoch,
		})
		return err
	}))
	return out
}

func (s *StoreSuite) recordFor(id domain.Identity) (models.Union, error) {
	var out models.Union
	err := s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		var err error
		out, err = st.RecordFor(ctx, id)
		return err
	})
	return out, err
}

// =============================================================================
// Records and keys
// =============================================================================

func (s *StoreSuite) TestBothKeysResolveToOneRecord() {
	inserted := s.insertPending(alice, bob)

	fromSide, err := s.recordFor(alice)
	s.Require().NoError(err)
	toSide, err := s.recordFor(bob)
	s.Require().NoError(err)

	s.Equal(inserted.ID, fromSide.ID)
	s.Equal(fromSide, toSide)

	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		fromSide.ProposalStatus = models.ProposalCancelled
		return st.UpdateRecord(ctx, fromSide)
	}))
	toSide, err = s.recordFor(bob)
	s.Require().NoError(err)
	s.Equal(models.ProposalCancelled, toSide.ProposalStatus, "update through one key is visible through the other")
}

func (s *StoreSuite) TestUnknownIdentityIsNotFound() {
	_, err := s.recordFor(carol)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestDeleteRecordDropsBothKeys() {
	u := s.insertPending(alice, bob)
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		return st.DeleteRecord(ctx, u.ID)
	}))

	_, err := s.recordFor(alice)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.recordFor(bob)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestNewRecordRekeysParticipants() {
	first := s.insertPending(alice, bob)
	second := s.insertPending(alice, carol)

	got, err := s.recordFor(alice)
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)

	got, err = s.recordFor(bob)
	s.Require().NoError(err)
	s.Equal(first.ID, got.ID, "untouched participant keeps the old record")
}

func (s *StoreSuite) TestRegistryLookup() {
	u := s.insertPending(alice, bob)
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		n, err := st.NextRegistryNumber(ctx)
		if err != nil {
			return err
		}
		u.RegistryNumber = n
		u.ProposalStatus = models.ProposalResponded
		u.RelationshipStatus = models.United
		u.UnitedAt = epoch
		return st.UpdateRecord(ctx, u)
	}))

	var got models.Union
	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		var err error
		got, err = st.RecordByRegistry(ctx, 0)
		return err
	}))
	s.Equal(u.ID, got.ID)
	s.Equal(models.United, got.RelationshipStatus)
	s.True(got.UnitedAt.Equal(epoch))

	err := s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		_, err := st.RecordByRegistry(ctx, 1)
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// =============================================================================
// Atomicity
// =============================================================================

func (s *StoreSuite) TestFailedTransactionLeavesNoTrace() {
	s.insertPending(alice, bob)

	err := s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		if _, err := st.NextProposalNumber(ctx); err != nil {
			return err
		}
		if _, err := st.NextRegistryNumber(ctx); err != nil {
			return err
		}
		if _, err := st.InsertRecord(ctx, models.Union{From: carol, To: bob, ProposalStatus: models.ProposalPending, CreatedAt: epoch, UpdatedAt: epoch}); err != nil {
			return err
		}
		if err := st.AppendTokenID(ctx, carol, 9); err != nil {
			return err
		}
		if err := st.Credit(ctx, domain.MustEther("1")); err != nil {
			return err
		}
		if _, err := st.AppendEvent(ctx, models.NewProposalSubmittedEvent(bob, carol, epoch)); err != nil {
			return err
		}
		return errBoom
	})
	s.Require().ErrorIs(err, errBoom)

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		counters, err := st.Counters(ctx)
		s.Require().NoError(err)
		s.Equal(models.Counters{Proposals: 1, Registry: 0}, counters)

		_, err = st.RecordFor(ctx, carol)
		s.ErrorIs(err, sentinel.ErrNotFound)

		bobs, err := st.RecordFor(ctx, bob)
		s.Require().NoError(err)
		s.Equal(alice, bobs.From, "bob's key is restored to the original record")

		ids, err := st.TokenIDs(ctx, carol)
		s.Require().NoError(err)
		s.Empty(ids)

		balance, err := st.Balance(ctx)
		s.Require().NoError(err)
		s.Zero(balance)

		pending, err := st.PendingEvents(ctx, 10)
		s.Require().NoError(err)
		s.Empty(pending)
		return nil
	}))
}

// =============================================================================
// Counters, tokens, params, treasury
// =============================================================================

func (s *StoreSuite) TestCountersIncrementByOne() {
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		for want := domain.ProposalNumber(0); want < 3; want++ {
			got, err := st.NextProposalNumber(ctx)
			s.Require().NoError(err)
			s.Equal(want, got)
		}
		got, err := st.NextRegistryNumber(ctx)
		s.Require().NoError(err)
		s.Equal(domain.RegistryNumber(0), got)
		return nil
	}))

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		counters, err := st.Counters(ctx)
		s.Require().NoError(err)
		s.Equal(models.Counters{Proposals: 3, Registry: 1}, counters)
		return nil
	}))
}

func (s *StoreSuite) TestTokenIDsKeepMintOrder() {
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		for _, id := range []domain.TokenID{0, 3, 4} {
			s.Require().NoError(st.AppendTokenID(ctx, alice, id))
		}
		return nil
	}))

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		ids, err := st.TokenIDs(ctx, alice)
		s.Require().NoError(err)
		s.Equal([]domain.TokenID{0, 3, 4}, ids)

		none, err := st.TokenIDs(ctx, bob)
		s.Require().NoError(err)
		s.NotNil(none)
		s.Empty(none)
		return nil
	}))
}

func (s *StoreSuite) TestParamsRoundTrip() {
	err := s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		_, err := st.Params(ctx)
		return err
	})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	want := models.Params{
		Owner:            alice,
		ProposalCost:     domain.MustEther("0.01"),
		UpdateStatusCost: domain.MustEther("0.005"),
		ResponseWindow:   5 * time.Minute,
	}
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		return st.SaveParams(ctx, want)
	}))

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		got, err := st.Params(ctx)
		s.Require().NoError(err)
		s.Equal(want, got)
		return nil
	}))
}

func (s *StoreSuite) TestTreasuryCreditAndReset() {
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		s.Require().NoError(st.Credit(ctx, domain.MustEther("0.01")))
		s.Require().NoError(st.Credit(ctx, domain.MustEther("0.005")))
		balance, err := st.Balance(ctx)
		s.Require().NoError(err)
		s.Equal(domain.MustEther("0.015"), balance)
		return st.SetBalance(ctx, 0)
	}))

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		balance, err := st.Balance(ctx)
		s.Require().NoError(err)
		s.Zero(balance)
		return nil
	}))
}

// =============================================================================
// Outbox
// =============================================================================

func (s *StoreSuite) TestOutboxOrderAndPublish() {
	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		first, err := st.AppendEvent(ctx, models.NewProposalSubmittedEvent(bob, alice, epoch))
		s.Require().NoError(err)
		second, err := st.AppendEvent(ctx, models.NewGotUnitedEvent(alice, bob, epoch, 0))
		s.Require().NoError(err)
		s.Less(first.Seq, second.Seq)
		return nil
	}))

	var pending []models.Event
	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		var err error
		pending, err = st.PendingEvents(ctx, 10)
		return err
	}))
	s.Require().Len(pending, 2)
	s.Equal(models.EventProposalSubmitted, pending[0].Kind)
	s.Equal(models.EventGotUnited, pending[1].Kind)
	s.Require().NotNil(pending[1].RegistryNumber)
	s.Equal(domain.RegistryNumber(0), *pending[1].RegistryNumber)

	s.Require().NoError(s.ledger.RunInTx(s.ctx, func(ctx context.Context, st Store) error {
		return st.MarkPublished(ctx, []uint64{pending[0].Seq})
	}))

	s.Require().NoError(s.ledger.View(s.ctx, func(ctx context.Context, st Store) error {
		rest, err := st.PendingEvents(ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(rest, 1)
		s.Equal(pending[1].ID, rest[0].ID)
		return nil
	}))
}
