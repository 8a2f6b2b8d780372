package token

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"together/pkg/domain"
	"together/pkg/platform/sentinel"
	txcontext "together/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// PostgresStore persists tokens. Inside a ledger transaction it joins the
// transaction carried by the context; ids come from MAX+1 under the ledger lock.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded schema. It is idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply token schema: %w", err)
	}
	return nil
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

func (s *PostgresStore) Mint(ctx context.Context, owner domain.Identity, at time.Time) (domain.TokenID, error) {
	var id int64
	err := s.q(ctx).QueryRow(ctx, `INSERT INTO tokens (token_id, owner, minted_at)
		SELECT COALESCE(MAX(token_id) + 1, 0), $1, $2 FROM tokens
		RETURNING token_id`, owner.String(), at).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("mint token: %w", err)
	}
	return domain.TokenID(id), nil
}

func (s *PostgresStore) OwnerOf(ctx context.Context, id domain.TokenID) (domain.Identity, error) {
	var owner string
	err := s.q(ctx).QueryRow(ctx, `SELECT owner FROM tokens WHERE token_id = $1`, int64(id)).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token owner: %w", err)
	}
	return domain.Identity(owner), nil
}
