// Package names answers whether an identity currently owns a registered
// human-readable name. The union service only ever asks yes/no.
package names

import (
	"context"
	"sync"

	"together/pkg/domain"
)

// Oracle is the name-ownership oracle.
type Oracle interface {
	HasName(ctx context.Context, identity domain.Identity) (bool, error)
}

// LookupObserver receives one call per lookup; *metrics.Metrics satisfies it.
type LookupObserver interface {
	ObserveNameLookup(source, result string)
}

// Static is a fixed set of named identities, for development and tests.
type Static struct {
	mu    sync.RWMutex
	named map[domain.Identity]struct{}
}

func NewStatic(identities ...domain.Identity) *Static {
	s := &Static{named: make(map[domain.Identity]struct{}, len(identities))}
	for _, id := range identities {
		s.named[id] = struct{}{}
	}
	return s
}

func (s *Static) HasName(_ context.Context, identity domain.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.named[identity]
	return ok, nil
}

// Grant marks identity as owning a name.
func (s *Static) Grant(identity domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.named[identity] = struct{}{}
}

// Revoke removes identity's name.
func (s *Static) Revoke(identity domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.named, identity)
}
