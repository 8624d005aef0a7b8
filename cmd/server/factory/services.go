package factory

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/auth"
	"github.com/TransferDaily/internal/infra/markdown"
	"github.com/TransferDaily/internal/infra/queue"
	"github.com/TransferDaily/internal/infra/repository"
	transport "github.com/TransferDaily/internal/transport/http"
	"github.com/TransferDaily/pkg/config"
)

// NewMongoRepository creates the workflow and session store.
func NewMongoRepository(client *mongo.Client, cfg *config.Config) (*repository.MongoRepository, error) {
	if cfg.MongoDBName == "" {
		return nil, errors.New("mongo database name not configured")
	}
	return repository.NewMongoRepository(client, cfg.MongoDBName, cfg.SessionTTL)
}

func NewSiteService(ports APIPorts, pageCache domain.Cache, cfg *config.Config) *app.SiteService {
	return app.NewSiteService(ports.Reader, ports.Writer, pageCache, markdown.NewRenderer(), cfg.CacheTTL)
}

func NewAdminService(ports APIPorts, store domain.MediaStore, repo *repository.MongoRepository, pageCache domain.Cache) *app.AdminService {
	return app.NewAdminService(ports.Articles, ports.Catalog, ports.Audience, store, repo, pageCache)
}

// NewPublishingService creates the publishing workflow service with validation.
func NewPublishingService(
	ports APIPorts,
	repo *repository.MongoRepository,
	producer domain.EventProducer,
	pageCache domain.Cache,
	cfg *config.Config,
) (*app.PublishingService, error) {
	if repo == nil {
		return nil, errors.New("repository is nil")
	}
	if producer == nil {
		return nil, errors.New("event producer is nil")
	}
	if cfg.SiteURL == "" {
		return nil, errors.New("site URL not configured")
	}
	return app.NewPublishingService(ports.Articles, repo, producer, pageCache, cfg.SiteURL), nil
}

func NewAdminAuthService(idp *auth.Cognito, repo *repository.MongoRepository) *app.AdminAuthService {
	return app.NewAdminAuthService(idp, repo)
}

func NewTranslationPoller(repo *repository.MongoRepository, publishing *app.PublishingService, authSvc *app.AdminAuthService) *app.TranslationPoller {
	return app.NewTranslationPoller(repo, publishing, authSvc)
}

// NewTranslationSyncService is nil when there is no Kafka consumer.
func NewTranslationSyncService(consumer *queue.KafkaConsumer, publishing *app.PublishingService) *app.TranslationSyncService {
	if consumer == nil {
		return nil
	}
	return app.NewTranslationSyncService(consumer, publishing)
}

func NewReadinessWaiter(cfg *config.Config, client *mongo.Client) *app.ReadinessWaiter {
	return app.NewReadinessWaiter(client, cfg.KafkaBrokers, cfg.KafkaTranslationTopic)
}

func NewRouter(
	cfg *config.Config,
	site *app.SiteService,
	admin *app.AdminService,
	publishing *app.PublishingService,
	authSvc *app.AdminAuthService,
	readiness *app.ReadinessWaiter,
) (http.Handler, error) {
	return transport.NewRouter(transport.Deps{
		Config:     cfg,
		Site:       site,
		Admin:      admin,
		Publishing: publishing,
		Auth:       authSvc,
		Readiness:  readiness,
	})
}
