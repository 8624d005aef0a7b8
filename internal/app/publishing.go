package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/cache"
	"github.com/TransferDaily/internal/infra/metrics"
)

// StepView is one entry of the wizard header.
type StepView struct {
	Step    domain.WorkflowStep
	Index   int
	Label   string
	Current bool
	Done    bool
}

// WorkflowView is everything the wizard page needs to render.
type WorkflowView struct {
	Session          *domain.WorkflowSession
	Article          *domain.Article
	Steps            []StepView
	TranslationCount int
	TranslationTotal int
	CanNext          bool
	CanBack          bool
	CanPublish       bool
	Preview          *Preview
}

// PublishingService drives an article through edit, translate, preview and confirm.
type PublishingService struct {
	articles domain.ArticleAdmin
	repo     domain.WorkflowRepository
	producer domain.EventProducer
	cache    domain.Cache
	siteURL  string
	now      func() time.Time
}

func NewPublishingService(
	articles domain.ArticleAdmin,
	repo domain.WorkflowRepository,
	producer domain.EventProducer,
	pageCache domain.Cache,
	siteURL string,
) *PublishingService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &PublishingService{
		articles: articles,
		repo:     repo,
		producer: producer,
		cache:    pageCache,
		siteURL:  siteURL,
		now:      time.Now,
	}
}

func (s *PublishingService) span(ctx context.Context, name, articleID string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("transfer-daily").Start(ctx, "workflow."+name)
	span.SetAttributes(attribute.String("article_id", articleID))
	return ctx, span
}

// Start returns the article's workflow, creating it at the editing step when missing.
// A workflow left at published for an article that has since been unpublished is
// reopened at editing.
func (s *PublishingService) Start(ctx context.Context, token, actor, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "start", articleID)
	defer span.End()

	a, err := s.articles.Article(ctx, token, articleID)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.GetWorkflow(ctx, articleID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		now := s.now()
		w = &domain.WorkflowSession{
			ID:        articleID,
			ArticleID: articleID,
			Step:      domain.StepEditing,
			StartedBy: actor,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if a.IsPublished() {
			w.Step = domain.StepPublished
			w.PublishedAt = a.PublishedAt
		}
		if err := s.repo.SaveWorkflow(ctx, w); err != nil {
			return nil, err
		}
		slog.Info("Workflow started", "article_id", articleID, "step", w.Step)
	case err != nil:
		return nil, err
	case w.Step == domain.StepPublished && !a.IsPublished():
		reopen(w)
		if err := s.save(ctx, w); err != nil {
			return nil, err
		}
		slog.Info("Workflow reopened", "article_id", articleID, "status", a.Status)
	}

	return s.view(w, a), nil
}

// SaveContent validates the form and overwrites the article. The workflow stays at editing.
func (s *PublishingService) SaveContent(ctx context.Context, token, articleID string, form ArticleForm) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "save_content", articleID)
	defer span.End()

	if err := form.Validate(); err != nil {
		return nil, err
	}
	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if w.Step != domain.StepEditing {
		return nil, s.stepError(w)
	}

	form.Apply(a)
	a.UpdatedAt = s.now()
	updated, err := s.articles.UpdateArticle(ctx, token, a)
	if err != nil {
		return nil, s.fail(ctx, w, "save content", err)
	}
	w.LastError = ""
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, updated), nil
}

// Next advances one step when the current step's gate holds.
func (s *PublishingService) Next(ctx context.Context, token, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "next", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if err := canAdvance(w, a); err != nil {
		return nil, err
	}
	s.moveTo(w, domain.WorkflowSteps[w.Step.Index()])
	if w.Step == domain.StepConfirming {
		w.Checklist = domain.Checklist{}
	}
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// Back returns to the previous step. Editing and published do not move.
func (s *PublishingService) Back(ctx context.Context, token, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "back", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if !canGoBack(w) {
		return nil, s.stepError(w)
	}
	s.moveTo(w, domain.WorkflowSteps[w.Step.Index()-2])
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// GenerateTranslations requests machine translations for locales. When none are
// given it asks for the locales the article is missing, or for every non-default
// locale once all of them exist.
func (s *PublishingService) GenerateTranslations(ctx context.Context, token, sessionID, articleID string, locales []domain.Locale) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "generate_translations", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if w.Step != domain.StepEditing && w.Step != domain.StepTranslating {
		return nil, s.stepError(w)
	}
	if w.Translation.Pending {
		return nil, domain.ErrTranslationPending
	}
	if len(locales) == 0 {
		locales = a.MissingLocales()
	}
	if len(locales) == 0 {
		locales = targetLocales()
	}

	status, err := s.articles.RequestTranslations(ctx, token, articleID, locales)
	if err != nil {
		metrics.TranslationJobs.WithLabelValues("request_failed").Inc()
		w.Translation.Pending = false
		w.Translation.Error = err.Error()
		return nil, s.fail(ctx, w, "request translations", err)
	}

	now := s.now()
	w.Translation = domain.TranslationJob{
		JobID:       status.JobID,
		Locales:     locales,
		Pending:     true,
		RequestedAt: &now,
		RequestedBy: sessionID,
	}
	w.LastError = ""
	if w.Step == domain.StepEditing {
		s.moveTo(w, domain.StepTranslating)
	}
	metrics.TranslationJobs.WithLabelValues("requested").Inc()
	slog.Info("Translation job requested", "article_id", articleID, "job_id", status.JobID, "locales", locales)

	if status.IsComplete {
		applyTranslationStatus(w, status, now)
		a, err = s.articles.Article(ctx, token, articleID)
		if err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// PollTranslations checks the running job. Once it is complete the article is
// refetched so the view carries the new translations.
func (s *PublishingService) PollTranslations(ctx context.Context, token, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "poll_translations", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if !w.Translation.Pending {
		return s.view(w, a), nil
	}

	status, err := s.articles.TranslationStatus(ctx, token, articleID)
	if err != nil {
		return nil, s.fail(ctx, w, "poll translations", err)
	}
	if !status.IsComplete {
		return s.view(w, a), nil
	}

	if err := s.settle(ctx, w, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.reload(ctx, token, articleID)
		}
		return nil, err
	}
	a, err = s.articles.Article(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// CompleteTranslation applies a translation event pushed by the translation
// service. Events for another job or for a workflow that is not waiting are ignored.
func (s *PublishingService) CompleteTranslation(ctx context.Context, e *domain.TranslationEvent) error {
	ctx, span := s.span(ctx, "complete_translation", e.ArticleID)
	defer span.End()

	w, err := s.repo.GetWorkflow(ctx, e.ArticleID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Debug("Translation event for unknown workflow", "article_id", e.ArticleID)
		return nil
	}
	if err != nil {
		return err
	}
	if !w.Translation.Pending {
		return nil
	}
	if e.JobID != "" && w.Translation.JobID != "" && e.JobID != w.Translation.JobID {
		slog.Debug("Ignoring translation event for stale job", "article_id", e.ArticleID, "job_id", e.JobID)
		return nil
	}

	err = s.settle(ctx, w, &domain.TranslationStatus{
		JobID:      e.JobID,
		IsComplete: true,
		Completed:  e.Completed,
		Failed:     e.Failed,
		Error:      e.Error,
	})
	if errors.Is(err, domain.ErrNotFound) {
		slog.Debug("Translation job already settled", "article_id", e.ArticleID, "job_id", e.JobID)
		return nil
	}
	return err
}

// Preview builds device, SEO and social previews for the article.
func (s *PublishingService) Preview(ctx context.Context, token, articleID string, loc domain.Locale) (*Preview, error) {
	ctx, span := s.span(ctx, "preview", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	return s.preview(w, a, loc), nil
}

// GenerateSocialPosts regenerates and stores the per-platform posts.
func (s *PublishingService) GenerateSocialPosts(ctx context.Context, token, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "generate_social_posts", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if w.Step == domain.StepPublished {
		return nil, domain.ErrAlreadyPublished
	}
	w.SocialPosts = GenerateSocialPosts(a, s.articleURL(a, domain.DefaultLocale))
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// SetConfirmation stores the checklist. Only valid at the confirming step.
func (s *PublishingService) SetConfirmation(ctx context.Context, token, articleID string, c domain.Checklist) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "set_confirmation", articleID)
	defer span.End()

	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if w.Step != domain.StepConfirming {
		return nil, s.stepError(w)
	}
	w.Checklist = c
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

// Publish flips the article to published once every checklist item is ticked.
// A failure to emit the published event does not undo the publish.
func (s *PublishingService) Publish(ctx context.Context, token, actor, articleID string) (*WorkflowView, error) {
	ctx, span := s.span(ctx, "publish", articleID)
	defer span.End()

	w, _, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	if w.Step != domain.StepConfirming {
		return nil, s.stepError(w)
	}
	if !w.Checklist.AllConfirmed() {
		return nil, domain.ErrNotConfirmed
	}

	published, err := s.articles.SetArticleStatus(ctx, token, articleID, domain.StatusPublished)
	if err != nil {
		return nil, s.fail(ctx, w, "publish", err)
	}

	now := s.now()
	if published.PublishedAt == nil {
		published.PublishedAt = &now
	}
	w.PublishedAt = published.PublishedAt
	w.LastError = ""
	s.moveTo(w, domain.StepPublished)
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	metrics.ArticlesPublished.Inc()
	slog.Info("Article published", "article_id", articleID, "slug", published.Slug, "by", actor)

	s.invalidate(ctx, published)
	s.emitPublished(ctx, published, actor)
	return s.view(w, published), nil
}

func (s *PublishingService) emitPublished(ctx context.Context, a *domain.Article, actor string) {
	locales := []domain.Locale{}
	for _, loc := range domain.Locales {
		if loc == domain.DefaultLocale || a.Translations[loc].Complete() {
			locales = append(locales, loc)
		}
	}
	event := domain.PublishedEvent{
		EventID:     uuid.NewString(),
		ArticleID:   a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		League:      a.League,
		Locales:     locales,
		PublishedBy: actor,
		PublishedAt: *a.PublishedAt,
	}
	if err := s.producer.Publish(ctx, a.ID, event); err != nil {
		slog.Error("Failed to emit published event", "article_id", a.ID, "error", err)
	}
}

func (s *PublishingService) invalidate(ctx context.Context, a *domain.Article) {
	invalidatePages(ctx, s.cache, articleCacheKeys(a)...)
}

func (s *PublishingService) reload(ctx context.Context, token, articleID string) (*WorkflowView, error) {
	w, a, err := s.load(ctx, token, articleID)
	if err != nil {
		return nil, err
	}
	return s.view(w, a), nil
}

func (s *PublishingService) load(ctx context.Context, token, articleID string) (*domain.WorkflowSession, *domain.Article, error) {
	w, err := s.repo.GetWorkflow(ctx, articleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load workflow %s: %w", articleID, err)
	}
	a, err := s.articles.Article(ctx, token, articleID)
	if err != nil {
		return nil, nil, err
	}
	return w, a, nil
}

func (s *PublishingService) save(ctx context.Context, w *domain.WorkflowSession) error {
	w.UpdatedAt = s.now()
	return s.repo.SaveWorkflow(ctx, w)
}

// settle writes only the translation job, so a step change saved while the job
// was running is kept. It returns domain.ErrNotFound when the job is no longer pending.
func (s *PublishingService) settle(ctx context.Context, w *domain.WorkflowSession, st *domain.TranslationStatus) error {
	now := s.now()
	jobID := w.Translation.JobID
	applyTranslationStatus(w, st, now)
	w.UpdatedAt = now
	return s.repo.SettleTranslation(ctx, w.ArticleID, jobID, w.Translation, now)
}

// fail records err on the workflow so the page can show it, then returns it.
func (s *PublishingService) fail(ctx context.Context, w *domain.WorkflowSession, op string, err error) error {
	w.LastError = err.Error()
	if saveErr := s.save(ctx, w); saveErr != nil {
		slog.Error("Failed to record workflow error", "article_id", w.ArticleID, "error", saveErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PublishingService) moveTo(w *domain.WorkflowSession, step domain.WorkflowStep) {
	slog.Debug("Workflow transition", "article_id", w.ArticleID, "from", w.Step, "to", step)
	w.Step = step
	metrics.WorkflowTransitions.WithLabelValues(string(step)).Inc()
}

func (s *PublishingService) stepError(w *domain.WorkflowSession) error {
	if w.Step == domain.StepPublished {
		return domain.ErrAlreadyPublished
	}
	return fmt.Errorf("%w: at %s", domain.ErrStepLocked, w.Step)
}

func (s *PublishingService) view(w *domain.WorkflowSession, a *domain.Article) *WorkflowView {
	v := &WorkflowView{
		Session:          w,
		Article:          a,
		TranslationCount: a.TranslationCount(),
		TranslationTotal: len(domain.Locales),
		CanNext:          canAdvance(w, a) == nil,
		CanBack:          canGoBack(w),
		CanPublish:       w.Step == domain.StepConfirming && w.Checklist.AllConfirmed(),
	}
	current := w.Step.Index()
	for _, step := range domain.WorkflowSteps[:4] {
		v.Steps = append(v.Steps, StepView{
			Step:    step,
			Index:   step.Index(),
			Label:   step.Label(),
			Current: step == w.Step,
			Done:    step.Index() < current,
		})
	}
	if w.Step == domain.StepPreviewing || w.Step == domain.StepConfirming {
		v.Preview = s.preview(w, a, domain.DefaultLocale)
	}
	return v
}

func (s *PublishingService) articleURL(a *domain.Article, loc domain.Locale) string {
	return fmt.Sprintf("%s/%s/articles/%s", s.siteURL, loc, a.Localized(loc).Slug)
}

// canAdvance is the gate out of the current step.
func canAdvance(w *domain.WorkflowSession, a *domain.Article) error {
	switch w.Step {
	case domain.StepEditing:
		tr := a.Localized(domain.DefaultLocale)
		if !tr.Complete() || !domain.IsValidSlug(a.Slug) {
			return fmt.Errorf("%w: title, content and a valid slug are required", domain.ErrStepLocked)
		}
		return nil
	case domain.StepTranslating:
		if w.Translation.Pending {
			return domain.ErrTranslationPending
		}
		return nil
	case domain.StepPreviewing:
		return nil
	case domain.StepConfirming:
		return fmt.Errorf("%w: publish to finish", domain.ErrStepLocked)
	case domain.StepPublished:
		return domain.ErrAlreadyPublished
	}
	return fmt.Errorf("%w: unknown step %q", domain.ErrStepLocked, w.Step)
}

func canGoBack(w *domain.WorkflowSession) bool {
	return w.Step != domain.StepEditing && w.Step != domain.StepPublished && w.Step.Index() > 1
}

func applyTranslationStatus(w *domain.WorkflowSession, st *domain.TranslationStatus, now time.Time) {
	w.Translation.Pending = false
	w.Translation.CompletedAt = &now
	w.Translation.Failed = st.Failed
	w.Translation.Error = st.Error
	outcome := "completed"
	if len(st.Failed) > 0 || st.Error != "" {
		outcome = "partial"
	}
	metrics.TranslationJobs.WithLabelValues(outcome).Inc()
	slog.Info("Translation job settled", "article_id", w.ArticleID, "job_id", st.JobID, "failed", st.Failed)
}

// reopen moves a published workflow back to editing with a fresh checklist.
func reopen(w *domain.WorkflowSession) {
	w.Step = domain.StepEditing
	w.Checklist = domain.Checklist{}
	w.Translation = domain.TranslationJob{}
	w.SocialPosts = nil
	w.PublishedAt = nil
	w.LastError = ""
	metrics.WorkflowTransitions.WithLabelValues(string(domain.StepEditing)).Inc()
}

func targetLocales() []domain.Locale {
	var out []domain.Locale
	for _, loc := range domain.Locales {
		if loc != domain.DefaultLocale {
			out = append(out, loc)
		}
	}
	return out
}
