package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"

	"github.com/TransferDaily/cmd/server/factory"
	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/infra/tracing"
	transport "github.com/TransferDaily/internal/transport/http"
	"github.com/TransferDaily/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fx.New(
		fx.Provide(
			// Config
			config.Load,

			// Infrastructure
			factory.NewMongoClient,
			factory.NewMongoRepository,
			factory.NewPageCache,
			factory.NewMediaStore,
			factory.NewCognito,
			factory.NewAPIClient,
			factory.NewAPIPorts,
			fx.Annotate(
				factory.NewPublishedProducer,
				fx.ResultTags(`name:"published_producer"`),
			),
			fx.Annotate(
				factory.NewDLQProducer,
				fx.ResultTags(`name:"dlq_producer"`),
			),
			fx.Annotate(
				factory.NewTranslationConsumer,
				fx.ParamTags(``, `name:"dlq_producer"`),
			),

			// Services
			factory.NewSiteService,
			factory.NewAdminService,
			fx.Annotate(
				factory.NewPublishingService,
				fx.ParamTags(``, ``, `name:"published_producer"`),
			),
			factory.NewAdminAuthService,
			factory.NewTranslationPoller,
			factory.NewTranslationSyncService,
			factory.NewReadinessWaiter,

			// HTTP Server
			factory.NewRouter,
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady, // Block until dependencies are ready
			RegisterHooks,
			StartServer,
		),
	).Run()
}

// --- Invokers ---

func RegisterHooks(lc fx.Lifecycle, cfg *config.Config, poller *app.TranslationPoller, syncService *app.TranslationSyncService) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if syncService != nil {
				syncService.Start(ctx)
			}
			return poller.Start(cfg.TranslationPollSchedule)
		},
		OnStop: func(_ context.Context) error {
			cancel()
			poller.Stop()
			if syncService != nil {
				return syncService.Stop()
			}
			return nil
		},
	})
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.OTelEnabled {
		slog.Info("Tracing disabled")
		return nil
	}

	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, "transfer-daily")
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForReady blocks until all dependencies are ready.
func WaitForReady(waiter *app.ReadinessWaiter) error {
	return waiter.WaitForDependencies(context.Background())
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting HTTP server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
