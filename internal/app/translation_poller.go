package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/TransferDaily/internal/domain"
)

// TokenSource hands out a valid access token for an admin session.
type TokenSource interface {
	AccessToken(ctx context.Context, sessionID string) (string, error)
}

// TranslationPoller periodically polls every pending translation job on
// behalf of the admin who requested it.
type TranslationPoller struct {
	repo       domain.WorkflowRepository
	publishing *PublishingService
	tokens     TokenSource
	cron       *cron.Cron
	timeout    time.Duration
}

func NewTranslationPoller(repo domain.WorkflowRepository, publishing *PublishingService, tokens TokenSource) *TranslationPoller {
	return &TranslationPoller{
		repo:       repo,
		publishing: publishing,
		tokens:     tokens,
		cron:       cron.New(),
		timeout:    30 * time.Second,
	}
}

// Start schedules the poll and starts the cron runner.
func (p *TranslationPoller) Start(schedule string) error {
	_, err := p.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	p.cron.Start()
	slog.Info("Translation poller started", "schedule", schedule)
	return nil
}

// Stop waits for a running poll to finish.
func (p *TranslationPoller) Stop() {
	<-p.cron.Stop().Done()
	slog.Info("Translation poller stopped")
}

// RunOnce polls every pending job and returns how many settled.
func (p *TranslationPoller) RunOnce(ctx context.Context) int {
	pending, err := p.repo.PendingTranslations(ctx)
	if err != nil {
		slog.Error("Failed to list pending translations", "error", err)
		return 0
	}

	settled := 0
	for _, w := range pending {
		if ctx.Err() != nil {
			break
		}
		token, err := p.tokens.AccessToken(ctx, w.Translation.RequestedBy)
		if err != nil {
			slog.Warn("No valid session to poll translation", "article_id", w.ArticleID, "error", err)
			continue
		}
		view, err := p.publishing.PollTranslations(ctx, token, w.ArticleID)
		if err != nil {
			slog.Warn("Translation poll failed", "article_id", w.ArticleID, "error", err)
			continue
		}
		if !view.Session.Translation.Pending {
			settled++
		}
	}
	if len(pending) > 0 {
		slog.Debug("Translation poll finished", "pending", len(pending), "settled", settled)
	}
	return settled
}
