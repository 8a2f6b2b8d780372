// Package events delivers union notifications recorded in the ledger outbox.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"together/internal/union/models"
)

// Publisher delivers a batch of events in order.
type Publisher interface {
	Publish(ctx context.Context, batch []models.Event) error
}

// LogPublisher writes each event as a structured log line.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, batch []models.Event) error {
	for _, e := range batch {
		attrs := []any{
			"event_id", e.ID,
			"seq", e.Seq,
			"from", e.From,
			"to", e.To,
			"timestamp", e.Timestamp,
		}
		switch e.Kind {
		case models.EventProposalResponded:
			attrs = append(attrs, "response", e.Response)
		case models.EventUnionStatusUpdated:
			attrs = append(attrs, "status", e.Status)
		case models.EventGotUnited:
			if e.RegistryNumber != nil {
				attrs = append(attrs, "registry_number", *e.RegistryNumber)
			}
		}
		p.logger.InfoContext(ctx, string(e.Kind), attrs...)
	}
	return nil
}

// Producer is the subset of *kgo.Client used by KafkaPublisher.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher produces events as JSON records keyed by the proposer so a
// pair's events stay on one partition in order.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, batch []models.Event) error {
	if len(batch) == 0 {
		return nil
	}
	records := make([]*kgo.Record, 0, len(batch))
	for _, e := range batch {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		records = append(records, &kgo.Record{
			Topic: p.topic,
			Key:   []byte(e.From.String()),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "kind", Value: []byte(e.Kind)},
				{Key: "event_id", Value: []byte(e.ID.String())},
			},
		})
	}
	if err := p.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce events: %w", err)
	}
	return nil
}
