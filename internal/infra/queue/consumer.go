package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

// DeadLetter wraps a message that could not be handled.
type DeadLetter struct {
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
	Offset    int64  `json:"offset"`
	Key       string `json:"key"`
	Payload   string `json:"payload"`
	Error     string `json:"error"`
}

// KafkaConsumer reads translation events from the translation service.
type KafkaConsumer struct {
	reader      *kafka.Reader
	topic       string
	dlqProducer domain.EventProducer
}

func NewKafkaConsumer(brokers []string, topic string, groupID string, dlqProducer domain.EventProducer) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	slog.Info("Kafka Consumer initialized", "brokers", brokers, "topic", topic, "group", groupID)
	return &KafkaConsumer{
		reader:      r,
		topic:       topic,
		dlqProducer: dlqProducer,
	}
}

type MessageHandler func(ctx context.Context, event *domain.TranslationEvent) error

// Start blocks, dispatching events to handler until ctx is cancelled or the reader fails.
func (c *KafkaConsumer) Start(ctx context.Context, handler MessageHandler) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("Error reading kafka message", "error", err)
			}
			return
		}
		c.handle(ctx, m, handler)
	}
}

func (c *KafkaConsumer) handle(ctx context.Context, m kafka.Message, handler MessageHandler) {
	var event domain.TranslationEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		slog.Error("Error unmarshaling translation event", "offset", m.Offset, "error", err)
		c.deadLetter(ctx, m, err)
		return
	}
	if event.ArticleID == "" {
		c.deadLetter(ctx, m, errors.New("translation event without article_id"))
		return
	}

	slog.Debug("Received translation event", "article_id", event.ArticleID, "partition", m.Partition)

	if err := handler(ctx, &event); err != nil {
		slog.Error("Error handling translation event", "article_id", event.ArticleID, "error", err)
		c.deadLetter(ctx, m, err)
	}
}

func (c *KafkaConsumer) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if c.dlqProducer == nil {
		return
	}
	letter := DeadLetter{
		Topic:     c.topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       string(m.Key),
		Payload:   string(m.Value),
		Error:     cause.Error(),
	}
	slog.Info("Publishing failed event to DLQ", "key", letter.Key, "offset", m.Offset)
	if err := c.dlqProducer.Publish(ctx, letter.Key, letter); err != nil {
		slog.Error("Failed to publish to DLQ", "key", letter.Key, "error", fmt.Errorf("dlq: %w", err))
		return
	}
	metrics.DLQMessagesPublished.WithLabelValues(c.topic).Inc()
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
