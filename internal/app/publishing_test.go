package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 8, 30, 9, 0, 0, 0, time.UTC)

func draftArticle() *domain.Article {
	return &domain.Article{
		ID:             "a1",
		Title:          "Rice joins Arsenal",
		Content:        "Declan Rice has completed his move to Arsenal for a club-record fee.",
		Slug:           "rice-joins-arsenal",
		League:         "premier-league",
		PlayerName:     "Declan Rice",
		ToClub:         "Arsenal",
		TransferStatus: "completed",
		Status:         domain.StatusDraft,
	}
}

func newPublishing(t *testing.T) (*PublishingService, *mocks.MockArticleAdmin, *mocks.WorkflowStore, *mocks.MockEventProducer) {
	t.Helper()
	api := new(mocks.MockArticleAdmin)
	store := mocks.NewWorkflowStore()
	producer := new(mocks.MockEventProducer)
	svc := NewPublishingService(api, store, producer, nil, "https://transferdaily.test")
	svc.now = func() time.Time { return testNow }
	return svc, api, store, producer
}

func TestPublishing_StartCreatesEditingWorkflow(t *testing.T) {
	svc, api, store, _ := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)

	view, err := svc.Start(context.Background(), "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, view.Session.Step)
	assert.True(t, view.CanNext)
	assert.False(t, view.CanBack)
	assert.False(t, view.CanPublish)
	assert.Equal(t, 1, view.TranslationCount)
	assert.Equal(t, 5, view.TranslationTotal)
	require.Len(t, view.Steps, 4)
	assert.True(t, view.Steps[0].Current)

	again, err := svc.Start(context.Background(), "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, view.Session.ID, again.Session.ID)

	_, err = store.GetWorkflow(context.Background(), "a1")
	assert.NoError(t, err)
}

func TestPublishing_EditingGateNeedsTitleContentAndSlug(t *testing.T) {
	cases := map[string]func(a *domain.Article){
		"no title":     func(a *domain.Article) { a.Title = "" },
		"no content":   func(a *domain.Article) { a.Content = "  " },
		"invalid slug": func(a *domain.Article) { a.Slug = "Rice Joins" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, api, _, _ := newPublishing(t)
			a := draftArticle()
			mutate(a)
			api.On("Article", mock.Anything, "tok", "a1").Return(a, nil)

			view, err := svc.Start(context.Background(), "tok", "editor", "a1")
			require.NoError(t, err)
			assert.False(t, view.CanNext)

			_, err = svc.Next(context.Background(), "tok", "a1")
			assert.ErrorIs(t, err, domain.ErrStepLocked)
		})
	}
}

func TestPublishing_SaveContentValidatesAndRegeneratesSlug(t *testing.T) {
	svc, api, _, _ := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)

	_, err := svc.Start(context.Background(), "tok", "editor", "a1")
	require.NoError(t, err)

	_, err = svc.SaveContent(context.Background(), "tok", "a1", ArticleForm{Title: "x"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	api.AssertNotCalled(t, "UpdateArticle", mock.Anything, mock.Anything, mock.Anything)

	form := FormFromArticle(draftArticle())
	form.Title = "Mbappé à Madrid"
	form.Slug = ""
	api.On("UpdateArticle", mock.Anything, "tok", mock.MatchedBy(func(a *domain.Article) bool {
		return a.Slug == "mbappe-a-madrid" && a.Title == "Mbappé à Madrid"
	})).Return(draftArticle(), nil).Once()

	view, err := svc.SaveContent(context.Background(), "tok", "a1", form)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, view.Session.Step)
	api.AssertExpectations(t)
}

func TestPublishing_FullFlow(t *testing.T) {
	ctx := context.Background()
	svc, api, _, producer := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)

	_, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)

	view, err := svc.Next(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepTranslating, view.Session.Step)

	api.On("RequestTranslations", mock.Anything, "tok", "a1",
		[]domain.Locale{domain.LocaleES, domain.LocaleFR, domain.LocaleDE, domain.LocaleIT}).
		Return(&domain.TranslationStatus{JobID: "job-1"}, nil).Once()

	view, err = svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", nil)
	require.NoError(t, err)
	assert.True(t, view.Session.Translation.Pending)
	assert.Equal(t, "sess-1", view.Session.Translation.RequestedBy)
	assert.False(t, view.CanNext)

	_, err = svc.Next(ctx, "tok", "a1")
	assert.ErrorIs(t, err, domain.ErrTranslationPending)
	_, err = svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", nil)
	assert.ErrorIs(t, err, domain.ErrTranslationPending)

	api.On("TranslationStatus", mock.Anything, "tok", "a1").
		Return(&domain.TranslationStatus{JobID: "job-1", IsComplete: true}, nil).Once()
	view, err = svc.PollTranslations(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.False(t, view.Session.Translation.Pending)
	require.NotNil(t, view.Session.Translation.CompletedAt)

	view, err = svc.Next(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPreviewing, view.Session.Step)
	require.NotNil(t, view.Preview)

	view, err = svc.Next(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirming, view.Session.Step)
	assert.False(t, view.CanNext)

	_, err = svc.Next(ctx, "tok", "a1")
	assert.ErrorIs(t, err, domain.ErrStepLocked)

	_, err = svc.Publish(ctx, "tok", "editor", "a1")
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)

	view, err = svc.SetConfirmation(ctx, "tok", "a1", domain.Checklist{ContentReviewed: true, TranslationsReviewed: true})
	require.NoError(t, err)
	assert.False(t, view.CanPublish)

	view, err = svc.SetConfirmation(ctx, "tok", "a1", domain.Checklist{ContentReviewed: true, TranslationsReviewed: true, SEOReviewed: true})
	require.NoError(t, err)
	assert.True(t, view.CanPublish)

	published := draftArticle()
	published.Status = domain.StatusPublished
	api.On("SetArticleStatus", mock.Anything, "tok", "a1", domain.StatusPublished).Return(published, nil).Once()
	producer.On("Publish", mock.Anything, "a1", mock.MatchedBy(func(e domain.PublishedEvent) bool {
		return e.Slug == "rice-joins-arsenal" && e.PublishedBy == "editor" && e.PublishedAt.Equal(testNow)
	})).Return(nil).Once()

	view, err = svc.Publish(ctx, "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPublished, view.Session.Step)
	assert.False(t, view.CanBack)

	_, err = svc.Back(ctx, "tok", "a1")
	assert.ErrorIs(t, err, domain.ErrAlreadyPublished)

	api.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestPublishing_TranslationRequestFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	svc, api, store, _ := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	_, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)

	api.On("RequestTranslations", mock.Anything, "tok", "a1", []domain.Locale{domain.LocaleES}).
		Return(nil, errors.New("translation quota exceeded")).Once()
	_, err = svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", []domain.Locale{domain.LocaleES})
	require.Error(t, err)

	w, err := store.GetWorkflow(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, w.Translation.Pending)
	assert.Contains(t, w.Translation.Error, "quota")
	assert.Contains(t, w.LastError, "quota")
	assert.Equal(t, domain.StepEditing, w.Step)

	api.On("RequestTranslations", mock.Anything, "tok", "a1", []domain.Locale{domain.LocaleES}).
		Return(&domain.TranslationStatus{JobID: "job-2"}, nil).Once()
	view, err := svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", []domain.Locale{domain.LocaleES})
	require.NoError(t, err)
	assert.True(t, view.Session.Translation.Pending)
	assert.Empty(t, view.Session.LastError)
}

func TestPublishing_BackStopsAtEditing(t *testing.T) {
	ctx := context.Background()
	svc, api, _, _ := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	_, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)

	_, err = svc.Back(ctx, "tok", "a1")
	assert.ErrorIs(t, err, domain.ErrStepLocked)

	_, err = svc.Next(ctx, "tok", "a1")
	require.NoError(t, err)
	view, err := svc.Back(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, view.Session.Step)
}

func TestPublishing_CompleteTranslationFromEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newPublishing(t)
	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ArticleID:   "a1",
		Step:        domain.StepTranslating,
		Translation: domain.TranslationJob{JobID: "job-2", Pending: true},
	}))

	require.NoError(t, svc.CompleteTranslation(ctx, &domain.TranslationEvent{ArticleID: "a1", JobID: "job-1"}))
	w, _ := store.GetWorkflow(ctx, "a1")
	assert.True(t, w.Translation.Pending, "stale job must be ignored")

	require.NoError(t, svc.CompleteTranslation(ctx, &domain.TranslationEvent{
		ArticleID: "a1", JobID: "job-2", Failed: []domain.Locale{domain.LocaleDE},
	}))
	w, _ = store.GetWorkflow(ctx, "a1")
	assert.False(t, w.Translation.Pending)
	assert.Equal(t, []domain.Locale{domain.LocaleDE}, w.Translation.Failed)

	assert.NoError(t, svc.CompleteTranslation(ctx, &domain.TranslationEvent{ArticleID: "unknown"}))
}

func TestPublishing_PublishSurvivesEventFailure(t *testing.T) {
	ctx := context.Background()
	svc, api, store, producer := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ArticleID: "a1",
		Step:      domain.StepConfirming,
		Checklist: domain.Checklist{ContentReviewed: true, TranslationsReviewed: true, SEOReviewed: true},
	}))

	published := draftArticle()
	published.Status = domain.StatusPublished
	api.On("SetArticleStatus", mock.Anything, "tok", "a1", domain.StatusPublished).Return(published, nil)
	producer.On("Publish", mock.Anything, "a1", mock.Anything).Return(errors.New("broker down"))

	view, err := svc.Publish(ctx, "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPublished, view.Session.Step)
}

func TestPublishing_PublishFailureKeepsConfirming(t *testing.T) {
	ctx := context.Background()
	svc, api, store, producer := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ArticleID: "a1",
		Step:      domain.StepConfirming,
		Checklist: domain.Checklist{ContentReviewed: true, TranslationsReviewed: true, SEOReviewed: true},
	}))
	api.On("SetArticleStatus", mock.Anything, "tok", "a1", domain.StatusPublished).Return(nil, errors.New("502"))

	_, err := svc.Publish(ctx, "tok", "editor", "a1")
	require.Error(t, err)

	w, _ := store.GetWorkflow(ctx, "a1")
	assert.Equal(t, domain.StepConfirming, w.Step)
	assert.NotEmpty(t, w.LastError)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishing_PreviewSEOSnippet(t *testing.T) {
	svc, api, _, _ := newPublishing(t)
	a := draftArticle()
	a.Title = "Declan Rice completes a record-breaking move from West Ham United to Arsenal"
	api.On("Article", mock.Anything, "tok", "a1").Return(a, nil)
	_, err := svc.Start(context.Background(), "tok", "editor", "a1")
	require.NoError(t, err)

	p, err := svc.Preview(context.Background(), "tok", "a1", domain.LocaleEN)
	require.NoError(t, err)
	assert.True(t, p.SEO.TitleTruncated)
	assert.LessOrEqual(t, len([]rune(p.SEO.Title)), 60)
	assert.Equal(t, "https://transferdaily.test/en/articles/rice-joins-arsenal", p.SEO.URL)
	assert.Len(t, p.Devices, 3)
	assert.Len(t, p.SocialPosts, 4)
	require.Len(t, p.Locales, 5)
	assert.True(t, p.Locales[0].Complete)
	assert.False(t, p.Locales[1].Complete)
}

func TestPublishing_StartReopensUnpublishedArticle(t *testing.T) {
	ctx := context.Background()
	svc, api, store, _ := newPublishing(t)
	published := testNow.Add(-time.Hour)
	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ID:          "a1",
		ArticleID:   "a1",
		Step:        domain.StepPublished,
		Checklist:   domain.Checklist{ContentReviewed: true, TranslationsReviewed: true, SEOReviewed: true},
		PublishedAt: &published,
		LastError:   "old failure",
	}))
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)

	view, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, view.Session.Step)
	assert.True(t, view.CanNext)

	w, err := store.GetWorkflow(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, w.Step)
	assert.False(t, w.Checklist.AllConfirmed())
	assert.Nil(t, w.PublishedAt)
	assert.Empty(t, w.LastError)

	view, err = svc.Next(ctx, "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepTranslating, view.Session.Step)
	_, err = svc.Back(ctx, "tok", "a1")
	require.NoError(t, err)
}

func TestPublishing_StartKeepsPublishedWorkflowOfLiveArticle(t *testing.T) {
	ctx := context.Background()
	svc, api, store, _ := newPublishing(t)
	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{ArticleID: "a1", Step: domain.StepPublished}))
	live := draftArticle()
	live.Status = domain.StatusPublished
	live.PublishedAt = &testNow
	api.On("Article", mock.Anything, "tok", "a1").Return(live, nil)

	view, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPublished, view.Session.Step)
}

func TestPublishing_StartUsesArticleIDAsSessionID(t *testing.T) {
	svc, api, _, _ := newPublishing(t)
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)

	view, err := svc.Start(context.Background(), "tok", "editor", "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", view.Session.ID)
}

func TestPublishing_GenerateTranslationsTargetsMissingLocales(t *testing.T) {
	ctx := context.Background()
	svc, api, _, _ := newPublishing(t)
	a := draftArticle()
	a.Translations = map[domain.Locale]domain.Translation{
		domain.LocaleES: {Title: "Rice ficha por el Arsenal", Content: "Hecho."},
		domain.LocaleFR: {Title: "Rice rejoint Arsenal", Content: "Fait."},
	}
	api.On("Article", mock.Anything, "tok", "a1").Return(a, nil)
	_, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)

	api.On("RequestTranslations", mock.Anything, "tok", "a1", []domain.Locale{domain.LocaleDE, domain.LocaleIT}).
		Return(&domain.TranslationStatus{JobID: "job-1"}, nil).Once()

	view, err := svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Locale{domain.LocaleDE, domain.LocaleIT}, view.Session.Translation.Locales)
	api.AssertExpectations(t)
}

func TestPublishing_GenerateTranslationsRegeneratesWhenNothingMissing(t *testing.T) {
	ctx := context.Background()
	svc, api, _, _ := newPublishing(t)
	a := draftArticle()
	a.Translations = map[domain.Locale]domain.Translation{}
	for _, loc := range targetLocales() {
		a.Translations[loc] = domain.Translation{Title: "t", Content: "c"}
	}
	api.On("Article", mock.Anything, "tok", "a1").Return(a, nil)
	_, err := svc.Start(ctx, "tok", "editor", "a1")
	require.NoError(t, err)

	api.On("RequestTranslations", mock.Anything, "tok", "a1", targetLocales()).
		Return(&domain.TranslationStatus{JobID: "job-1"}, nil).Once()
	_, err = svc.GenerateTranslations(ctx, "tok", "sess-1", "a1", nil)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

// interleavingStore runs onGet once, right after the first read, to stand in
// for another request saving the workflow in between.
type interleavingStore struct {
	*mocks.WorkflowStore
	onGet func()
}

func (s *interleavingStore) GetWorkflow(ctx context.Context, articleID string) (*domain.WorkflowSession, error) {
	w, err := s.WorkflowStore.GetWorkflow(ctx, articleID)
	if s.onGet != nil {
		f := s.onGet
		s.onGet = nil
		f()
	}
	return w, err
}

func TestPublishing_CompleteTranslationKeepsConcurrentStepChange(t *testing.T) {
	ctx := context.Background()
	store := &interleavingStore{WorkflowStore: mocks.NewWorkflowStore()}
	svc := NewPublishingService(new(mocks.MockArticleAdmin), store, new(mocks.MockEventProducer), nil, "https://transferdaily.test")
	svc.now = func() time.Time { return testNow }

	running := domain.WorkflowSession{
		ArticleID:   "a1",
		Step:        domain.StepTranslating,
		Translation: domain.TranslationJob{JobID: "job-1", Pending: true},
	}
	require.NoError(t, store.SaveWorkflow(ctx, &running))
	store.onGet = func() {
		moved := running
		moved.Step = domain.StepEditing
		require.NoError(t, store.SaveWorkflow(ctx, &moved))
	}

	require.NoError(t, svc.CompleteTranslation(ctx, &domain.TranslationEvent{
		ArticleID: "a1", JobID: "job-1", Failed: []domain.Locale{domain.LocaleIT},
	}))

	w, err := store.WorkflowStore.GetWorkflow(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepEditing, w.Step, "the concurrent step change must survive")
	assert.False(t, w.Translation.Pending)
	assert.Equal(t, []domain.Locale{domain.LocaleIT}, w.Translation.Failed)
	assert.Equal(t, testNow, w.UpdatedAt)
}

func TestPublishing_CompleteTranslationAfterJobReplaced(t *testing.T) {
	ctx := context.Background()
	store := &interleavingStore{WorkflowStore: mocks.NewWorkflowStore()}
	svc := NewPublishingService(new(mocks.MockArticleAdmin), store, new(mocks.MockEventProducer), nil, "https://transferdaily.test")

	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ArticleID:   "a1",
		Step:        domain.StepTranslating,
		Translation: domain.TranslationJob{JobID: "job-1", Pending: true},
	}))
	store.onGet = func() {
		require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
			ArticleID:   "a1",
			Step:        domain.StepTranslating,
			Translation: domain.TranslationJob{JobID: "job-2", Pending: true},
		}))
	}

	require.NoError(t, svc.CompleteTranslation(ctx, &domain.TranslationEvent{ArticleID: "a1", JobID: "job-1"}))

	w, err := store.WorkflowStore.GetWorkflow(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "job-2", w.Translation.JobID)
	assert.True(t, w.Translation.Pending)
}

func TestPublishing_PublishInvalidatesPagesAndListings(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.MockArticleAdmin)
	store := mocks.NewWorkflowStore()
	producer := new(mocks.MockEventProducer)
	pageCache := new(mocks.MockCache)
	svc := NewPublishingService(api, store, producer, pageCache, "https://transferdaily.test")
	svc.now = func() time.Time { return testNow }

	require.NoError(t, store.SaveWorkflow(ctx, &domain.WorkflowSession{
		ArticleID: "a1",
		Step:      domain.StepConfirming,
		Checklist: domain.Checklist{ContentReviewed: true, TranslationsReviewed: true, SEOReviewed: true},
	}))
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	published := draftArticle()
	published.Status = domain.StatusPublished
	api.On("SetArticleStatus", mock.Anything, "tok", "a1", domain.StatusPublished).Return(published, nil)
	producer.On("Publish", mock.Anything, "a1", mock.Anything).Return(nil)

	pageCache.On("Delete", mock.Anything, mock.MatchedBy(func(keys []string) bool {
		return containsAll(keys, "article:en:rice-joins-arsenal", "article:de:rice-joins-arsenal", leaguesCacheKey)
	})).Return(nil).Once()
	pageCache.On("DeletePrefix", mock.Anything, "articles:").Return(nil).Once()

	_, err := svc.Publish(ctx, "tok", "editor", "a1")
	require.NoError(t, err)
	pageCache.AssertExpectations(t)
}
