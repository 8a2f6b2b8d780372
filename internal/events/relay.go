package events

import (
	"context"
	"log/slog"
	"time"

	"together/internal/ledger"
	"together/internal/union/models"
)

// Outbox is the ledger seen by the relay.
type Outbox interface {
	RunInTx(ctx context.Context, fn ledger.TxFunc) error
	View(ctx context.Context, fn ledger.TxFunc) error
}

// PublishObserver receives one call per delivered or failed event.
type PublishObserver interface {
	ObserveEventPublished(kind, result string)
}

// Relay drains the outbox into a Publisher. Delivery is at least once: a batch
// is marked published only after the publisher accepted all of it.
type Relay struct {
	outbox    Outbox
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	observer  PublishObserver
}

type RelayOption func(*Relay)

func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		r.interval = d
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		r.batchSize = n
	}
}

func WithLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithObserver(o PublishObserver) RelayOption {
	return func(r *Relay) {
		r.observer = o
	}
}

func NewRelay(outbox Outbox, publisher Publisher, opts ...RelayOption) *Relay {
	r := &Relay{
		outbox:    outbox,
		publisher: publisher,
		interval:  time.Second,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drains the outbox every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "outbox relay failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Drain publishes pending events batch by batch until the outbox is empty and
// returns how many were delivered.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	delivered := 0
	for {
		var batch []models.Event
		err := r.outbox.View(ctx, func(ctx context.Context, s ledger.Store) error {
			var err error
			batch, err = s.PendingEvents(ctx, r.batchSize)
			return err
		})
		if err != nil {
			return delivered, err
		}
		if len(batch) == 0 {
			return delivered, nil
		}

		if err := r.publisher.Publish(ctx, batch); err != nil {
			r.observe(batch, "error")
			return delivered, err
		}

		seqs := make([]uint64, len(batch))
		for i, e := range batch {
			seqs[i] = e.Seq
		}
		if err := r.outbox.RunInTx(ctx, func(ctx context.Context, s ledger.Store) error {
			return s.MarkPublished(ctx, seqs)
		}); err != nil {
			return delivered, err
		}
		r.observe(batch, "ok")
		delivered += len(batch)
	}
}

func (r *Relay) observe(batch []models.Event, result string) {
	if r.observer == nil {
		return
	}
	for _, e := range batch {
		r.observer.ObserveEventPublished(string(e.Kind), result)
	}
}
