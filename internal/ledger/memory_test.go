package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"together/internal/union/models"
	"together/pkg/platform/tx"
)

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newLedger: func() transactor { return NewInMemory() }})
}

func TestInMemory_ViewRejectsWrites(t *testing.T) {
	m := NewInMemory()
	err := m.View(context.Background(), func(ctx context.Context, st Store) error {
		_, err := st.NextProposalNumber(ctx)
		return err
	})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestInMemory_RunInTxExposesJournal(t *testing.T) {
	m := NewInMemory()
	undone := false
	err := m.RunInTx(context.Background(), func(ctx context.Context, _ Store) error {
		journal, ok := tx.JournalFrom(ctx)
		require.True(t, ok)
		journal.OnRollback(func() { undone = true })
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.True(t, undone, "collaborating stores are rolled back with the ledger")
}

func TestInMemory_PanicRollsBack(t *testing.T) {
	m := NewInMemory()
	assert.Panics(t, func() {
		_ = m.RunInTx(context.Background(), func(ctx context.Context, st Store) error {
			_, _ = st.InsertRecord(ctx, models.Union{From: alice, To: bob, ProposalStatus: models.ProposalPending})
			panic("boom")
		})
	})

	err := m.View(context.Background(), func(ctx context.Context, st Store) error {
		_, err := st.RecordFor(ctx, alice)
		return err
	})
	assert.Error(t, err)
}
