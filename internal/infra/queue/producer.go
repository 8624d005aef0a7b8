package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/TransferDaily/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // same article id, same partition
		AllowAutoTopicCreation: true,
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic)
	return &KafkaProducer{writer: w}
}

// Publish writes payload as JSON keyed by key.
func (p *KafkaProducer) Publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "topic", p.writer.Topic, "key", key, "error", err)
		metrics.EventPublishErrors.WithLabelValues(p.writer.Topic).Inc()
		return err
	}

	slog.Debug("Published event to Kafka", "topic", p.writer.Topic, "key", key)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NoopProducer drops events. Used when no brokers are configured.
type NoopProducer struct{}

func (NoopProducer) Publish(ctx context.Context, key string, payload any) error {
	slog.Debug("Event dropped, no broker configured", "key", key)
	return nil
}

func (NoopProducer) Close() error { return nil }
