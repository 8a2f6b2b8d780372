package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"together/internal/union/models"
	"together/pkg/domain"
	"together/pkg/platform/sentinel"
	"together/pkg/platform/tx"
)

// ErrReadOnly is returned by writes attempted inside View.
var ErrReadOnly = errors.New("ledger: write in read-only transaction")

type outboxEntry struct {
	event     models.Event
	published bool
}

// InMemory is a process-local ledger. One lock serializes transactions and an
// undo journal restores every write of a failed one.
type InMemory struct {
	mu sync.RWMutex

	records  map[uint64]models.Union
	keys     map[domain.Identity]uint64
	registry map[domain.RegistryNumber]uint64
	nextID   uint64
	counters models.Counters
	tokens   map[domain.Identity][]domain.TokenID
	params   *models.Params
	balance  domain.Amount
	outbox   []outboxEntry
	nextSeq  uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		records:  make(map[uint64]models.Union),
		keys:     make(map[domain.Identity]uint64),
		registry: make(map[domain.RegistryNumber]uint64),
		nextID:   1,
		tokens:   make(map[domain.Identity][]domain.TokenID),
		nextSeq:  1,
	}
}

// RunInTx runs fn under the ledger lock. Any error or panic from fn replays
// the journal, which also undoes writes other stores registered through the
// context.
func (m *InMemory) RunInTx(ctx context.Context, fn TxFunc) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	journal := &tx.Journal{}
	ctx = tx.WithJournal(ctx, journal)
	defer func() {
		if r := recover(); r != nil {
			journal.Rollback()
			panic(r)
		}
		if err != nil {
			journal.Rollback()
			return
		}
		journal.Discard()
	}()
	return fn(ctx, &memTx{m: m, journal: journal})
}

// View runs fn with shared access; writes fail with ErrReadOnly.
func (m *InMemory) View(ctx context.Context, fn TxFunc) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(ctx, &memTx{m: m})
}

type memTx struct {
	m       *InMemory
	journal *tx.Journal
}

func (t *memTx) writable() error {
	if t.journal == nil {
		return ErrReadOnly
	}
	return nil
}

func (t *memTx) RecordFor(_ context.Context, identity domain.Identity) (models.Union, error) {
	id, ok := t.m.keys[identity]
	if !ok {
		return models.Union{}, sentinel.ErrNotFound
	}
	return t.m.records[id], nil
}

func (t *memTx) RecordByRegistry(_ context.Context, n domain.RegistryNumber) (models.Union, error) {
	id, ok := t.m.registry[n]
	if !ok {
		return models.Union{}, sentinel.ErrNotFound
	}
	return t.m.records[id], nil
}

func (t *memTx) InsertRecord(_ context.Context, u models.Union) (models.Union, error) {
	if err := t.writable(); err != nil {
		return models.Union{}, err
	}
	u.ID = t.m.nextID
	t.m.nextID++
	t.m.records[u.ID] = u
	t.journal.OnRollback(func() {
		delete(t.m.records, u.ID)
		t.m.nextID--
	})
	t.setKey(u.From, u.ID)
	t.setKey(u.To, u.ID)
	if u.IsUnion() {
		t.setRegistry(u)
	}
	return u, nil
}

func (t *memTx) UpdateRecord(_ context.Context, u models.Union) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev, ok := t.m.records[u.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	t.m.records[u.ID] = u
	t.journal.OnRollback(func() { t.m.records[u.ID] = prev })
	if u.IsUnion() && !prev.IsUnion() {
		t.setRegistry(u)
	}
	return nil
}

func (t *memTx) DeleteRecord(_ context.Context, id uint64) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev, ok := t.m.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(t.m.records, id)
	t.journal.OnRollback(func() { t.m.records[id] = prev })
	for _, identity := range []domain.Identity{prev.From, prev.To} {
		if t.m.keys[identity] == id {
			delete(t.m.keys, identity)
			t.journal.OnRollback(func() { t.m.keys[identity] = id })
		}
	}
	if prev.IsUnion() {
		delete(t.m.registry, prev.RegistryNumber)
		t.journal.OnRollback(func() { t.m.registry[prev.RegistryNumber] = id })
	}
	return nil
}

func (t *memTx) setKey(identity domain.Identity, id uint64) {
	prev, had := t.m.keys[identity]
	t.m.keys[identity] = id
	t.journal.OnRollback(func() {
		if had {
			t.m.keys[identity] = prev
			return
		}
		delete(t.m.keys, identity)
	})
}

func (t *memTx) setRegistry(u models.Union) {
	t.m.registry[u.RegistryNumber] = u.ID
	t.journal.OnRollback(func() { delete(t.m.registry, u.RegistryNumber) })
}

func (t *memTx) Counters(context.Context) (models.Counters, error) {
	return t.m.counters, nil
}

func (t *memTx) NextProposalNumber(context.Context) (domain.ProposalNumber, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	n := t.m.counters.Proposals
	t.m.counters.Proposals++
	t.journal.OnRollback(func() { t.m.counters.Proposals = n })
	return domain.ProposalNumber(n), nil
}

func (t *memTx) NextRegistryNumber(context.Context) (domain.RegistryNumber, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	n := t.m.counters.Registry
	t.m.counters.Registry++
	t.journal.OnRollback(func() { t.m.counters.Registry = n })
	return domain.RegistryNumber(n), nil
}

func (t *memTx) AppendTokenID(_ context.Context, identity domain.Identity, id domain.TokenID) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev := t.m.tokens[identity]
	t.m.tokens[identity] = append(slices.Clip(prev), id)
	t.journal.OnRollback(func() {
		if prev == nil {
			delete(t.m.tokens, identity)
			return
		}
		t.m.tokens[identity] = prev
	})
	return nil
}

func (t *memTx) TokenIDs(_ context.Context, identity domain.Identity) ([]domain.TokenID, error) {
	return append([]domain.TokenID{}, t.m.tokens[identity]...), nil
}

func (t *memTx) Params(context.Context) (models.Params, error) {
	if t.m.params == nil {
		return models.Params{}, sentinel.ErrNotFound
	}
	return *t.m.params, nil
}

func (t *memTx) SaveParams(_ context.Context, p models.Params) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev := t.m.params
	t.m.params = &p
	t.journal.OnRollback(func() { t.m.params = prev })
	return nil
}

func (t *memTx) Balance(context.Context) (domain.Amount, error) {
	return t.m.balance, nil
}

func (t *memTx) Credit(ctx context.Context, amount domain.Amount) error {
	next, err := t.m.balance.Add(amount)
	if err != nil {
		return fmt.Errorf("credit treasury: %w", err)
	}
	return t.SetBalance(ctx, next)
}

func (t *memTx) SetBalance(_ context.Context, amount domain.Amount) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev := t.m.balance
	t.m.balance = amount
	t.journal.OnRollback(func() { t.m.balance = prev })
	return nil
}

func (t *memTx) AppendEvent(_ context.Context, e models.Event) (models.Event, error) {
	if err := t.writable(); err != nil {
		return models.Event{}, err
	}
	e.Seq = t.m.nextSeq
	t.m.nextSeq++
	t.m.outbox = append(t.m.outbox, outboxEntry{event: e})
	t.journal.OnRollback(func() {
		t.m.outbox = t.m.outbox[:len(t.m.outbox)-1]
		t.m.nextSeq--
	})
	return e, nil
}

func (t *memTx) PendingEvents(_ context.Context, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, entry := range t.m.outbox {
		if len(out) >= limit {
			break
		}
		if !entry.published {
			out = append(out, entry.event)
		}
	}
	return out, nil
}

// MarkPublished flags the events and drops the published prefix of the outbox.
func (t *memTx) MarkPublished(_ context.Context, seqs []uint64) error {
	if err := t.writable(); err != nil {
		return err
	}
	before := t.m.outbox
	next := make([]outboxEntry, len(before))
	copy(next, before)
	for i := range next {
		if slices.Contains(seqs, next[i].event.Seq) {
			next[i].published = true
		}
	}
	trim := 0
	for trim < len(next) && next[trim].published {
		trim++
	}
	t.m.outbox = next[trim:]
	t.journal.OnRollback(func() { t.m.outbox = before })
	return nil
}
