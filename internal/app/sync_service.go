package app

import (
	"context"
	"log/slog"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/queue"
)

// TranslationSyncService applies translation events pushed over Kafka.
type TranslationSyncService struct {
	consumer   *queue.KafkaConsumer
	publishing *PublishingService
}

func NewTranslationSyncService(consumer *queue.KafkaConsumer, publishing *PublishingService) *TranslationSyncService {
	return &TranslationSyncService{
		consumer:   consumer,
		publishing: publishing,
	}
}

func (s *TranslationSyncService) Start(ctx context.Context) {
	slog.Info("Starting translation sync service (Kafka consumer)")
	go s.consumer.Start(ctx, s.handleEvent)
}

func (s *TranslationSyncService) handleEvent(ctx context.Context, e *domain.TranslationEvent) error {
	slog.Info("Consuming translation event", "article_id", e.ArticleID, "job_id", e.JobID)
	return s.publishing.CompleteTranslation(ctx, e)
}

func (s *TranslationSyncService) Stop() error {
	return s.consumer.Close()
}
