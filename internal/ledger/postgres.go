package ledger

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"together/internal/union/models"
	"together/pkg/domain"
	"together/pkg/platform/sentinel"
	txcontext "together/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// advisoryLockKey serializes state transitions across every process sharing
// the database.
const advisoryLockKey int64 = 0x746f67657468

// Postgres is the durable ledger. Each RunInTx is one pgx transaction holding
// a transaction-scoped advisory lock.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies the embedded schema. It is idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}

// RunInTx runs fn inside a serialized transaction. The pgx.Tx is placed in
// the context so collaborating stores write in the same transaction.
func (p *Postgres) RunInTx(ctx context.Context, fn TxFunc) error {
	return p.run(ctx, pgx.TxOptions{}, true, fn)
}

// View runs fn in a read-only repeatable-read transaction without the lock.
func (p *Postgres) View(ctx context.Context, fn TxFunc) error {
	return p.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, false, fn)
}

func (p *Postgres) run(ctx context.Context, opts pgx.TxOptions, lock bool, fn TxFunc) (err error) {
	pgTx, err := p.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = pgTx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = pgTx.Rollback(ctx)
		}
	}()

	if lock {
		if _, err = pgTx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("acquire ledger lock: %w", err)
		}
	}
	if err = fn(txcontext.WithTx(ctx, pgTx), &pgStore{tx: pgTx}); err != nil {
		return err
	}
	if err = pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

type pgStore struct {
	tx pgx.Tx
}

const unionColumns = `u.id, u.from_identity, u.to_identity, u.proposal_number, u.registry_number,
	u.proposal_status, u.relationship_status, u.expired, u.name_from, u.name_to,
	u.created_at, u.united_at, u.updated_at`

func scanUnion(row pgx.Row) (models.Union, error) {
	var (
		u        models.Union
		id       int64
		from, to string
		proposal int64
		registry *int64
		pStatus  int16
		rStatus  int16
		unitedAt *time.Time
	)
	err := row.Scan(&id, &from, &to, &proposal, &registry, &pStatus, &rStatus, &u.Expired,
		&u.NameFrom, &u.NameTo, &u.CreatedAt, &unitedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Union{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Union{}, err
	}
	u.ID = uint64(id)
	u.From = domain.Identity(from)
	u.To = domain.Identity(to)
	u.ProposalNumber = domain.ProposalNumber(proposal)
	if registry != nil {
		u.RegistryNumber = domain.RegistryNumber(*registry)
	}
	u.ProposalStatus = models.ProposalStatus(pStatus)
	u.RelationshipStatus = models.RelationshipStatus(rStatus)
	if unitedAt != nil {
		u.UnitedAt = *unitedAt
	}
	return u, nil
}

// registryColumn is NULL until the proposal has been accepted.
func registryColumn(u models.Union) *int64 {
	if !u.IsUnion() {
		return nil
	}
	n := int64(u.RegistryNumber)
	return &n
}

func unitedColumn(u models.Union) *time.Time {
	if u.UnitedAt.IsZero() {
		return nil
	}
	return &u.UnitedAt
}

func (s *pgStore) RecordFor(ctx context.Context, identity domain.Identity) (models.Union, error) {
	return scanUnion(s.tx.QueryRow(ctx, `SELECT `+unionColumns+`
		FROM union_keys k JOIN unions u ON u.id = k.union_id
		WHERE k.identity = $1`, identity.String()))
}

func (s *pgStore) RecordByRegistry(ctx context.Context, n domain.RegistryNumber) (models.Union, error) {
	return scanUnion(s.tx.QueryRow(ctx, `SELECT `+unionColumns+`
		FROM unions u WHERE u.registry_number = $1`, int64(n)))
}

func (s *pgStore) InsertRecord(ctx context.Context, u models.Union) (models.Union, error) {
	var id int64
	err := s.tx.QueryRow(ctx, `INSERT INTO unions (from_identity, to_identity, proposal_number, registry_number,
			proposal_status, relationship_status, expired, name_from, name_to, created_at, united_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		u.From.String(), u.To.String(), int64(u.ProposalNumber), registryColumn(u),
		int16(u.ProposalStatus), int16(u.RelationshipStatus), u.Expired, u.NameFrom, u.NameTo,
		u.CreatedAt, unitedColumn(u), u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return models.Union{}, fmt.Errorf("insert union: %w", err)
	}
	u.ID = uint64(id)
	for _, identity := range []domain.Identity{u.From, u.To} {
		_, err := s.tx.Exec(ctx, `INSERT INTO union_keys (identity, union_id) VALUES ($1, $2)
			ON CONFLICT (identity) DO UPDATE SET union_id = EXCLUDED.union_id`, identity.String(), id)
		if err != nil {
			return models.Union{}, fmt.Errorf("key union: %w", err)
		}
	}
	return u, nil
}

func (s *pgStore) UpdateRecord(ctx context.Context, u models.Union) error {
	tag, err := s.tx.Exec(ctx, `UPDATE unions SET registry_number = $2, proposal_status = $3,
			relationship_status = $4, expired = $5, name_from = $6, name_to = $7, united_at = $8, updated_at = $9
		WHERE id = $1`,
		int64(u.ID), registryColumn(u), int16(u.ProposalStatus), int16(u.RelationshipStatus), u.Expired,
		u.NameFrom, u.NameTo, unitedColumn(u), u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update union: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// DeleteRecord relies on ON DELETE CASCADE to drop the keys.
func (s *pgStore) DeleteRecord(ctx context.Context, id uint64) error {
	tag, err := s.tx.Exec(ctx, `DELETE FROM unions WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete union: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *pgStore) Counters(ctx context.Context) (models.Counters, error) {
	var proposals, registry int64
	err := s.tx.QueryRow(ctx, `SELECT
		(SELECT value FROM counters WHERE name = 'proposals'),
		(SELECT value FROM counters WHERE name = 'registry')`).Scan(&proposals, &registry)
	if err != nil {
		return models.Counters{}, fmt.Errorf("read counters: %w", err)
	}
	return models.Counters{Proposals: uint64(proposals), Registry: uint64(registry)}, nil
}

func (s *pgStore) next(ctx context.Context, name string) (uint64, error) {
	var value int64
	err := s.tx.QueryRow(ctx, `UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value - 1`, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("advance %s counter: %w", name, err)
	}
	return uint64(value), nil
}

func (s *pgStore) NextProposalNumber(ctx context.Context) (domain.ProposalNumber, error) {
	n, err := s.next(ctx, "proposals")
	return domain.ProposalNumber(n), err
}

func (s *pgStore) NextRegistryNumber(ctx context.Context) (domain.RegistryNumber, error) {
	n, err := s.next(ctx, "registry")
	return domain.RegistryNumber(n), err
}

func (s *pgStore) AppendTokenID(ctx context.Context, identity domain.Identity, id domain.TokenID) error {
	_, err := s.tx.Exec(ctx, `INSERT INTO identity_tokens (identity, position, token_id)
		SELECT $1, COALESCE(MAX(position) + 1, 0), $2 FROM identity_tokens WHERE identity = $1`,
		identity.String(), int64(id))
	if err != nil {
		return fmt.Errorf("append token id: %w", err)
	}
	return nil
}

func (s *pgStore) TokenIDs(ctx context.Context, identity domain.Identity) ([]domain.TokenID, error) {
	rows, err := s.tx.Query(ctx, `SELECT token_id FROM identity_tokens WHERE identity = $1 ORDER BY position`, identity.String())
	if err != nil {
		return nil, fmt.Errorf("list token ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TokenID, error) {
		var id int64
		err := row.Scan(&id)
		return domain.TokenID(id), err
	})
	if err != nil {
		return nil, fmt.Errorf("list token ids: %w", err)
	}
	if ids == nil {
		ids = []domain.TokenID{}
	}
	return ids, nil
}

func (s *pgStore) Params(ctx context.Context) (models.Params, error) {
	var (
		owner        string
		cost, update int64
		windowMillis int64
	)
	err := s.tx.QueryRow(ctx, `SELECT owner, proposal_cost, update_status_cost, response_window_ms FROM params WHERE id = 1`).
		Scan(&owner, &cost, &update, &windowMillis)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Params{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Params{}, fmt.Errorf("read params: %w", err)
	}
	return models.Params{
		Owner:            domain.Identity(owner),
		ProposalCost:     domain.Amount(cost),
		UpdateStatusCost: domain.Amount(update),
		ResponseWindow:   time.Duration(windowMillis) * time.Millisecond,
	}, nil
}

func (s *pgStore) SaveParams(ctx context.Context, p models.Params) error {
	cost, err := amountColumn(p.ProposalCost)
	if err != nil {
		return err
	}
	update, err := amountColumn(p.UpdateStatusCost)
	if err != nil {
		return err
	}
	_, err = s.tx.Exec(ctx, `INSERT INTO params (id, owner, proposal_cost, update_status_cost, response_window_ms)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner, proposal_cost = EXCLUDED.proposal_cost,
			update_status_cost = EXCLUDED.update_status_cost, response_window_ms = EXCLUDED.response_window_ms`,
		p.Owner.String(), cost, update, p.ResponseWindow.Milliseconds())
	if err != nil {
		return fmt.Errorf("save params: %w", err)
	}
	return nil
}

func (s *pgStore) Balance(ctx context.Context) (domain.Amount, error) {
	var balance int64
	if err := s.tx.QueryRow(ctx, `SELECT balance FROM treasury WHERE id = 1`).Scan(&balance); err != nil {
		return 0, fmt.Errorf("read treasury: %w", err)
	}
	return domain.Amount(balance), nil
}

func (s *pgStore) Credit(ctx context.Context, amount domain.Amount) error {
	balance, err := s.Balance(ctx)
	if err != nil {
		return err
	}
	next, err := balance.Add(amount)
	if err != nil {
		return fmt.Errorf("credit treasury: %w", err)
	}
	return s.SetBalance(ctx, next)
}

func (s *pgStore) SetBalance(ctx context.Context, amount domain.Amount) error {
	value, err := amountColumn(amount)
	if err != nil {
		return err
	}
	if _, err := s.tx.Exec(ctx, `UPDATE treasury SET balance = $1 WHERE id = 1`, value); err != nil {
		return fmt.Errorf("write treasury: %w", err)
	}
	return nil
}

func (s *pgStore) AppendEvent(ctx context.Context, e models.Event) (models.Event, error) {
	var seq int64
	if err := s.tx.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('outbox', 'seq'))`).Scan(&seq); err != nil {
		return models.Event{}, fmt.Errorf("allocate outbox seq: %w", err)
	}
	e.Seq = uint64(seq)
	payload, err := json.Marshal(e)
	if err != nil {
		return models.Event{}, fmt.Errorf("encode event: %w", err)
	}
	if _, err := s.tx.Exec(ctx, `INSERT INTO outbox (seq, payload) VALUES ($1, $2)`, seq, payload); err != nil {
		return models.Event{}, fmt.Errorf("append event: %w", err)
	}
	return e, nil
}

func (s *pgStore) PendingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.tx.Query(ctx, `SELECT payload FROM outbox WHERE published_at IS NULL ORDER BY seq LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Event, error) {
		var (
			payload []byte
			e       models.Event
		)
		if err := row.Scan(&payload); err != nil {
			return e, err
		}
		err := json.Unmarshal(payload, &e)
		return e, err
	})
}

func (s *pgStore) MarkPublished(ctx context.Context, seqs []uint64) error {
	ids := make([]int64, len(seqs))
	for i, seq := range seqs {
		ids[i] = int64(seq)
	}
	if _, err := s.tx.Exec(ctx, `UPDATE outbox SET published_at = now() WHERE seq = ANY($1)`, ids); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}

// amountColumn maps an amount onto BIGINT.
func amountColumn(a domain.Amount) (int64, error) {
	if uint64(a) > math.MaxInt64 {
		return 0, fmt.Errorf("amount %s exceeds storable range", a)
	}
	return int64(a), nil
}
