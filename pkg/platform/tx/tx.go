package tx

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type ctxKey struct{}
type journalKey struct{}

var (
	txKey  = ctxKey{}
	jrnKey = journalKey{}
)

// WithTx stores a database transaction in context so collaborating stores
// join the same unit of work.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a database transaction from context if present.
func From(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// Journal is the undo log of an in-memory transaction. Writers register an
// undo step for every mutation; Rollback replays them newest first.
type Journal struct {
	undo []func()
}

// OnRollback registers an undo step.
func (j *Journal) OnRollback(fn func()) {
	j.undo = append(j.undo, fn)
}

// Rollback runs the registered undo steps in reverse order and clears them.
func (j *Journal) Rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// Discard drops the undo steps after a successful commit.
func (j *Journal) Discard() {
	j.undo = nil
}

// WithJournal stores an in-memory undo journal in context.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	if j == nil {
		return ctx
	}
	return context.WithValue(ctx, jrnKey, j)
}

// JournalFrom extracts the in-memory undo journal from context if present.
func JournalFrom(ctx context.Context) (*Journal, bool) {
	j, ok := ctx.Value(jrnKey).(*Journal)
	return j, ok
}
