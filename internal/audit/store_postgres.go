package audit

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"together/pkg/domain"
	txcontext "together/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// PostgresStore keeps the audit trail in the audit_events table. Appends made
// inside a ledger transaction commit or roll back with it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded schema. It is idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.execer(ctx).Exec(ctx, `
		INSERT INTO audit_events (timestamp, actor, action, decision, detail, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.Timestamp,
		event.Actor.String(),
		string(event.Action),
		string(event.Decision),
		event.Detail,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actor domain.Identity) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT timestamp, actor, action, decision, detail, reason, request_id
		FROM audit_events WHERE actor = $1 ORDER BY id`, actor.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events by actor: %w", err)
	}
	return collectEvents(rows)
}

// ListRecent returns the most recent limit events, newest first. A
// non-positive limit returns everything.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	query := `SELECT timestamp, actor, action, decision, detail, reason, request_id
		FROM audit_events ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent audit events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var (
			e                       Event
			actor, action, decision string
		)
		if err := row.Scan(&e.Timestamp, &actor, &action, &decision, &e.Detail, &e.Reason, &e.RequestID); err != nil {
			return Event{}, err
		}
		e.Actor = domain.Identity(actor)
		e.Action = Action(action)
		e.Decision = Decision(decision)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan audit events: %w", err)
	}
	return events, nil
}
