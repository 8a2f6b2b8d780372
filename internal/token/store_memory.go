package token

import (
	"context"
	"sync"
	"time"

	"together/pkg/domain"
	"together/pkg/platform/sentinel"
	"together/pkg/platform/tx"
)

type minted struct {
	owner domain.Identity
	at    time.Time
}

// InMemoryStore keeps tokens in process. Mints made inside an in-memory ledger
// transaction are undone when that transaction rolls back.
type InMemoryStore struct {
	mu     sync.RWMutex
	tokens []minted
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Mint(ctx context.Context, owner domain.Identity, at time.Time) (domain.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.TokenID(len(s.tokens))
	s.tokens = append(s.tokens, minted{owner: owner, at: at})
	if journal, ok := tx.JournalFrom(ctx); ok {
		journal.OnRollback(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.tokens = s.tokens[:id]
		})
	}
	return id, nil
}

func (s *InMemoryStore) OwnerOf(_ context.Context, id domain.TokenID) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uint64(id) >= uint64(len(s.tokens)) {
		return "", sentinel.ErrNotFound
	}
	return s.tokens[id].owner, nil
}
