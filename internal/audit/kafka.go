package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DecisionsTopic is where decision events are published for downstream
// compliance consumers.
const DecisionsTopic = "contentguard.decisions"

// KafkaSink publishes audit events to Kafka. Production is asynchronous and
// best-effort: the decision path never blocks on broker acknowledgement, and
// delivery failures are logged, not surfaced.
type KafkaSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaSink connects to the given brokers. Topic auto-creation is enabled
// so a fresh cluster does not need out-of-band admin steps.
func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &KafkaSink{client: client, topic: topic, logger: logger}, nil
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.ErrorContext(ctx, "audit event encode failed",
			"event_id", event.ID,
			"error", err,
		)
		return
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.BusinessID),
		Value: payload,
	}
	s.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("audit event publish failed",
				"event_id", event.ID,
				"topic", r.Topic,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (s *KafkaSink) Close() {
	_ = s.client.Flush(context.Background())
	s.client.Close()
}
