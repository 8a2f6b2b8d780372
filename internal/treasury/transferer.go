package treasury

import (
	"context"

	"together/pkg/domain"
)

// Transferer moves funds out of the treasury.
type Transferer interface {
	Transfer(ctx context.Context, to domain.Identity, amount domain.Amount) error
}
