package mocks

import (
	"context"

	"github.com/TransferDaily/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockArticleAdmin struct {
	mock.Mock
}

var _ domain.ArticleAdmin = (*MockArticleAdmin)(nil)

func (m *MockArticleAdmin) Articles(ctx context.Context, token string, q domain.ListQuery) (*domain.ArticleList, error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleList), args.Error(1)
}

func (m *MockArticleAdmin) Article(ctx context.Context, token, id string) (*domain.Article, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so callers mutating it don't change later returns.
	a := *args.Get(0).(*domain.Article)
	return &a, args.Error(1)
}

func (m *MockArticleAdmin) CreateArticle(ctx context.Context, token string, a *domain.Article) (*domain.Article, error) {
	args := m.Called(ctx, token, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleAdmin) UpdateArticle(ctx context.Context, token string, a *domain.Article) (*domain.Article, error) {
	args := m.Called(ctx, token, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleAdmin) SetArticleStatus(ctx context.Context, token, id string, status domain.ArticleStatus) (*domain.Article, error) {
	args := m.Called(ctx, token, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleAdmin) DeleteArticle(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockArticleAdmin) RequestTranslations(ctx context.Context, token, id string, locales []domain.Locale) (*domain.TranslationStatus, error) {
	args := m.Called(ctx, token, id, locales)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationStatus), args.Error(1)
}

func (m *MockArticleAdmin) TranslationStatus(ctx context.Context, token, id string) (*domain.TranslationStatus, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationStatus), args.Error(1)
}

type MockArticleReader struct {
	mock.Mock
}

var _ domain.ArticleReader = (*MockArticleReader)(nil)

func (m *MockArticleReader) PublicArticles(ctx context.Context, q domain.ListQuery) (*domain.ArticleList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleList), args.Error(1)
}

func (m *MockArticleReader) PublicArticle(ctx context.Context, slug string, loc domain.Locale) (*domain.Article, error) {
	args := m.Called(ctx, slug, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleReader) RelatedArticles(ctx context.Context, slug string, limit int) ([]domain.Article, error) {
	args := m.Called(ctx, slug, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Article), args.Error(1)
}

func (m *MockArticleReader) PublicLeagues(ctx context.Context) ([]domain.League, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.League), args.Error(1)
}

type MockSiteWriter struct {
	mock.Mock
}

var _ domain.SiteWriter = (*MockSiteWriter)(nil)

func (m *MockSiteWriter) Subscribe(ctx context.Context, email string, loc domain.Locale) error {
	return m.Called(ctx, email, loc).Error(0)
}

func (m *MockSiteWriter) SubmitContact(ctx context.Context, c *domain.ContactSubmission) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockSiteWriter) TrackSearch(ctx context.Context, e domain.SearchEvent) error {
	return m.Called(ctx, e).Error(0)
}

type MockAudienceAdmin struct {
	mock.Mock
}

var _ domain.AudienceAdmin = (*MockAudienceAdmin)(nil)

func (m *MockAudienceAdmin) Subscribers(ctx context.Context, token string, page, limit int) ([]domain.NewsletterSubscriber, error) {
	args := m.Called(ctx, token, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsletterSubscriber), args.Error(1)
}

func (m *MockAudienceAdmin) SetSubscriberStatus(ctx context.Context, token, id string, status domain.SubscriberStatus) error {
	return m.Called(ctx, token, id, status).Error(0)
}

func (m *MockAudienceAdmin) DeleteSubscriber(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockAudienceAdmin) Contacts(ctx context.Context, token string, page, limit int) ([]domain.ContactSubmission, error) {
	args := m.Called(ctx, token, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactSubmission), args.Error(1)
}

func (m *MockAudienceAdmin) SetContactStatus(ctx context.Context, token, id string, status domain.ContactStatus) error {
	return m.Called(ctx, token, id, status).Error(0)
}

func (m *MockAudienceAdmin) DeleteContact(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockAudienceAdmin) Stats(ctx context.Context, token string) (*domain.Stats, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

type MockCatalogAdmin struct {
	mock.Mock
}

var _ domain.CatalogAdmin = (*MockCatalogAdmin)(nil)

func (m *MockCatalogAdmin) Clubs(ctx context.Context, token string) ([]domain.Club, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Club), args.Error(1)
}

func (m *MockCatalogAdmin) SaveClub(ctx context.Context, token string, c *domain.Club) (*domain.Club, error) {
	args := m.Called(ctx, token, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}

func (m *MockCatalogAdmin) DeleteClub(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockCatalogAdmin) Leagues(ctx context.Context, token string) ([]domain.League, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.League), args.Error(1)
}

func (m *MockCatalogAdmin) SaveLeague(ctx context.Context, token string, l *domain.League) (*domain.League, error) {
	args := m.Called(ctx, token, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}

func (m *MockCatalogAdmin) DeleteLeague(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockCatalogAdmin) Players(ctx context.Context, token string) ([]domain.Player, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockCatalogAdmin) SavePlayer(ctx context.Context, token string, p *domain.Player) (*domain.Player, error) {
	args := m.Called(ctx, token, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockCatalogAdmin) DeletePlayer(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}
