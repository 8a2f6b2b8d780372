// Package ledger is the authoritative store of union records, counters,
// per-identity token lists, economic parameters, the treasury balance and the
// event outbox.
//
// All access goes through a transaction: RunInTx serializes every
// state-changing call and rolls back every write when the callback fails;
// View runs read-only callbacks against a consistent snapshot.
package ledger

import (
	"context"

	"together/internal/union/models"
	"together/pkg/domain"
)

// Store is the transaction-scoped view of the ledger handed to RunInTx and
// View callbacks. Lookups return sentinel.ErrNotFound for missing rows.
type Store interface {
	// RecordFor resolves identity through its key to the shared record.
	RecordFor(ctx context.Context, identity domain.Identity) (models.Union, error)
	// RecordByRegistry returns the accepted union with the given registry number.
	RecordByRegistry(ctx context.Context, n domain.RegistryNumber) (models.Union, error)
	// InsertRecord stores u, assigns its ID and points both participants' keys at it.
	InsertRecord(ctx context.Context, u models.Union) (models.Union, error)
	// UpdateRecord overwrites the record with u.ID.
	UpdateRecord(ctx context.Context, u models.Union) error
	// DeleteRecord removes the record and every key still pointing at it.
	DeleteRecord(ctx context.Context, id uint64) error

	Counters(ctx context.Context) (models.Counters, error)
	// NextProposalNumber returns the current proposals counter and increments it.
	NextProposalNumber(ctx context.Context) (domain.ProposalNumber, error)
	// NextRegistryNumber returns the current registry counter and increments it.
	NextRegistryNumber(ctx context.Context) (domain.RegistryNumber, error)

	AppendTokenID(ctx context.Context, identity domain.Identity, id domain.TokenID) error
	TokenIDs(ctx context.Context, identity domain.Identity) ([]domain.TokenID, error)

	// Params returns sentinel.ErrNotFound until parameters are saved once.
	Params(ctx context.Context) (models.Params, error)
	SaveParams(ctx context.Context, p models.Params) error

	Balance(ctx context.Context) (domain.Amount, error)
	Credit(ctx context.Context, amount domain.Amount) error
	SetBalance(ctx context.Context, amount domain.Amount) error

	// AppendEvent adds e to the outbox and returns it with its sequence number.
	AppendEvent(ctx context.Context, e models.Event) (models.Event, error)
	// PendingEvents returns up to limit unpublished events in sequence order.
	PendingEvents(ctx context.Context, limit int) ([]models.Event, error)
	MarkPublished(ctx context.Context, seqs []uint64) error
}

// TxFunc is the unit of work run by RunInTx and View.
type TxFunc func(ctx context.Context, s Store) error
