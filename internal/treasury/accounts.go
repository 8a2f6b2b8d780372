package treasury

import (
	"context"
	"sync"

	"together/pkg/domain"
)

// Accounts is an in-process payout book. Transfers credit the recipient's
// account and fail only on overflow.
type Accounts struct {
	mu       sync.RWMutex
	balances map[domain.Identity]domain.Amount
}

func NewAccounts() *Accounts {
	return &Accounts{balances: make(map[domain.Identity]domain.Amount)}
}

func (a *Accounts) Transfer(_ context.Context, to domain.Identity, amount domain.Amount) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, err := a.balances[to].Add(amount)
	if err != nil {
		return err
	}
	a.balances[to] = next
	return nil
}

// BalanceOf returns the amount paid out to identity so far.
func (a *Accounts) BalanceOf(identity domain.Identity) domain.Amount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balances[identity]
}
