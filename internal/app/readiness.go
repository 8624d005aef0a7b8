package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ReadinessWaiter blocks startup until the stores the site depends on answer.
type ReadinessWaiter struct {
	mongoClient *mongo.Client
	brokers     []string
	topic       string
	interval    time.Duration
}

func NewReadinessWaiter(mongoClient *mongo.Client, brokers []string, topic string) *ReadinessWaiter {
	return &ReadinessWaiter{
		mongoClient: mongoClient,
		brokers:     brokers,
		topic:       topic,
		interval:    2 * time.Second,
	}
}

// WaitForDependencies waits for MongoDB and, when brokers are configured, Kafka.
func (w *ReadinessWaiter) WaitForDependencies(ctx context.Context) error {
	if err := w.waitFor(ctx, "MongoDB", w.checkMongo); err != nil {
		return err
	}
	if len(w.brokers) == 0 {
		slog.Info("No Kafka brokers configured, skipping Kafka readiness")
		return nil
	}
	return w.waitFor(ctx, "Kafka", w.checkKafka)
}

// Check runs each dependency check once. Used by the readiness endpoint.
func (w *ReadinessWaiter) Check(ctx context.Context) map[string]error {
	out := map[string]error{"mongodb": w.checkMongo(ctx)}
	if len(w.brokers) > 0 {
		out["kafka"] = w.checkKafka(ctx)
	}
	return out
}

// waitFor polls check until it passes. There is no deadline besides ctx:
// dependencies can be slow to start in development.
func (w *ReadinessWaiter) waitFor(ctx context.Context, name string, check func(context.Context) error) error {
	slog.Info("Waiting for " + name + "...")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := check(ctx); err != nil {
				slog.Warn(name+" not ready yet", "error", err)
				continue
			}
			slog.Info(name + " is ready")
			return nil
		}
	}
}

func (w *ReadinessWaiter) checkMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return w.mongoClient.Ping(ctx, readpref.Primary())
}

func (w *ReadinessWaiter) checkKafka(ctx context.Context) error {
	for _, broker := range w.brokers {
		conn, err := net.DialTimeout("tcp", broker, 2*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
		}
		_ = conn.Close()
	}

	dialer := &kafka.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", w.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(w.topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions for topic %s: %w", w.topic, err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("topic %s has no partitions", w.topic)
	}
	return nil
}
