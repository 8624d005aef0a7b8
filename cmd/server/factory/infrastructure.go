// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/auth"
	"github.com/TransferDaily/internal/infra/cache"
	"github.com/TransferDaily/internal/infra/media"
	"github.com/TransferDaily/internal/infra/queue"
	"github.com/TransferDaily/pkg/config"
)

// NewMongoClient creates a MongoDB client with lifecycle management.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo URI not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

// NewPublishedProducer creates the producer for article-published events.
// Without brokers events are dropped.
func NewPublishedProducer(cfg *config.Config, lc fx.Lifecycle) (domain.EventProducer, error) {
	return newProducer(cfg, lc, cfg.KafkaPublishedTopic)
}

// NewDLQProducer creates a Kafka producer for the Dead Letter Queue.
func NewDLQProducer(cfg *config.Config, lc fx.Lifecycle) (domain.EventProducer, error) {
	return newProducer(cfg, lc, cfg.KafkaDLQTopic)
}

func newProducer(cfg *config.Config, lc fx.Lifecycle, topic string) (domain.EventProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Warn("Kafka brokers not configured, events will be dropped", "topic", topic)
		return queue.NoopProducer{}, nil
	}
	if topic == "" {
		return nil, errors.New("kafka topic not configured")
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, topic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

// NewTranslationConsumer creates the consumer for translation-completed
// events. It is nil when no brokers are configured; the cron poller then
// settles jobs on its own.
func NewTranslationConsumer(cfg *config.Config, dlqProducer domain.EventProducer) (*queue.KafkaConsumer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, nil
	}
	if cfg.KafkaTranslationTopic == "" {
		return nil, errors.New("kafka translation topic not configured")
	}
	return queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTranslationTopic, "transfer-daily-translations", dlqProducer), nil
}

// NewPageCache returns a Redis-backed cache, or a no-op cache when Redis is not configured.
func NewPageCache(cfg *config.Config, lc fx.Lifecycle) domain.Cache {
	if cfg.RedisAddr == "" {
		slog.Info("Redis not configured, page cache disabled")
		return cache.Noop{}
	}

	c := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return c.Close()
		},
	})
	return c
}

// NewMediaStore returns the S3 image store, or nil when no bucket is configured.
func NewMediaStore(cfg *config.Config) (domain.MediaStore, error) {
	if cfg.S3Bucket == "" {
		slog.Warn("S3 bucket not configured, image uploads are disabled")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := media.NewS3Store(ctx, media.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewCognito creates the admin identity provider client.
func NewCognito(cfg *config.Config) (*auth.Cognito, error) {
	if cfg.CognitoClientID == "" {
		return nil, errors.New("cognito client id not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return auth.NewCognito(ctx, cfg.CognitoRegion, cfg.CognitoClientID, cfg.CognitoClientSecret)
}
