package service

import (
	"context"

	"together/internal/ledger"
	"together/pkg/domain"
)

// Ledger is the transactional store holding every union record.
type Ledger interface {
	RunInTx(ctx context.Context, fn ledger.TxFunc) error
	View(ctx context.Context, fn ledger.TxFunc) error
}

// NameOracle answers whether an identity owns a registered name.
type NameOracle interface {
	HasName(ctx context.Context, identity domain.Identity) (bool, error)
}

// Minter is the token bridge. MintTo must be called with the identity the
// bridge was installed with.
type Minter interface {
	MintTo(ctx context.Context, caller, to domain.Identity) (domain.TokenID, error)
	URI(ctx context.Context, id domain.TokenID) (string, error)
}

// Observer receives operation outcomes; *metrics.Metrics satisfies it.
type Observer interface {
	ObserveOperation(operation, outcome string)
	ObserveUnion()
	SetTreasuryBalance(gwei uint64)
}
