package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/domain/mocks"
	"github.com/TransferDaily/internal/infra/auth"
	"github.com/TransferDaily/internal/infra/markdown"
	"github.com/TransferDaily/internal/infra/media"
	"github.com/TransferDaily/pkg/config"
)

type fakeIdP struct {
	mock.Mock
}

func (m *fakeIdP) SignIn(ctx context.Context, username, password string) (*oauth2.Token, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *fakeIdP) CompleteNewPassword(ctx context.Context, ch auth.Challenge, newPassword string) (*oauth2.Token, error) {
	args := m.Called(ctx, ch, newPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *fakeIdP) Refresh(ctx context.Context, username string, tok *oauth2.Token) (*oauth2.Token, error) {
	args := m.Called(ctx, username, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *fakeIdP) SignOut(ctx context.Context, accessToken string) {
	m.Called(ctx, accessToken)
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]domain.AdminSession
}

func (s *memSessions) GetSession(_ context.Context, id string) (*domain.AdminSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (s *memSessions) SaveSession(_ context.Context, sess *domain.AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = *sess
	return nil
}

func (s *memSessions) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

type staticReadiness map[string]error

func (s staticReadiness) Check(context.Context) map[string]error { return s }

type testEnv struct {
	handler  http.Handler
	reader   *mocks.MockArticleReader
	writer   *mocks.MockSiteWriter
	articles *mocks.MockArticleAdmin
	audience *mocks.MockAudienceAdmin
	media    *mocks.MockMediaStore
	idp      *fakeIdP
	sessions *memSessions
}

func newTestEnv(t *testing.T, configure func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{
		SiteURL:       "https://transferdaily.test",
		SiteName:      "Transfer Daily",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		AdSlots:       config.DefaultAdSlots(),
	}
	if configure != nil {
		configure(cfg)
	}

	env := &testEnv{
		reader:   new(mocks.MockArticleReader),
		writer:   new(mocks.MockSiteWriter),
		articles: new(mocks.MockArticleAdmin),
		audience: new(mocks.MockAudienceAdmin),
		media:    new(mocks.MockMediaStore),
		idp:      new(fakeIdP),
		sessions: &memSessions{data: map[string]domain.AdminSession{}},
	}
	workflows := mocks.NewWorkflowStore()
	h, err := NewRouter(Deps{
		Config:     cfg,
		Site:       app.NewSiteService(env.reader, env.writer, nil, markdown.NewRenderer(), 0),
		Admin:      app.NewAdminService(env.articles, new(mocks.MockCatalogAdmin), env.audience, env.media, workflows, nil),
		Publishing: app.NewPublishingService(env.articles, workflows, new(mocks.MockEventProducer), nil, cfg.SiteURL),
		Auth:       app.NewAdminAuthService(env.idp, env.sessions),
		Readiness:  staticReadiness{"mongodb": nil, "kafka": nil},
	})
	require.NoError(t, err)
	env.handler = h
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// signIn logs in through the login form and returns the admin cookie.
func (e *testEnv) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	e.idp.On("SignIn", mock.Anything, "editor", "correct horse").
		Return(&oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(time.Hour)}, nil).Once()

	rec := e.do(postForm("/admin/login", url.Values{"username": {"editor"}, "password": {"correct horse"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func testArticle() domain.Article {
	published := time.Date(2024, 8, 30, 9, 0, 0, 0, time.UTC)
	return domain.Article{
		ID:             "a1",
		Title:          "Rice joins Arsenal",
		Content:        "**Rice** has signed a five-year deal.",
		Slug:           "rice-joins-arsenal",
		League:         "premier-league",
		TransferStatus: "completed",
		Status:         domain.StatusPublished,
		PublishedAt:    &published,
		UpdatedAt:      published,
		Translations: map[domain.Locale]domain.Translation{
			domain.LocaleES: {Title: "Rice ficha por el Arsenal", Content: "**Rice** ha firmado.", Slug: "rice-ficha-por-el-arsenal"},
		},
	}
}

var navLeagues = []domain.League{{ID: "l1", Name: "Premier League", Slug: "premier-league"}}

func (e *testEnv) stubListing() {
	e.reader.On("PublicLeagues", mock.Anything).Return(navLeagues, nil)
	e.reader.On("PublicArticles", mock.Anything, mock.Anything).Return(&domain.ArticleList{
		Articles: []domain.Article{testArticle()},
		Page:     domain.NewPage(1, 12, 1),
	}, nil)
}

func TestRouter_RootRedirectsByAcceptLanguage(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		header string
		want   string
	}{
		{"de-DE,de;q=0.9,en;q=0.8", "/de/"},
		{"es", "/es/"},
		{"pt-BR", "/en/"},
		{"", "/en/"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", tt.header)
			rec := env.do(req)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestRouter_UnknownLocaleIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/pt/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
	assert.Contains(t, rec.Body.String(), `content="noindex, follow"`)
}

func TestRouter_HomeRendersLocalizedListing(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stubListing()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/es/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="es">`)
	assert.Contains(t, body, "Últimos fichajes")
	assert.Contains(t, body, `href="/es/articles/rice-ficha-por-el-arsenal"`)
	assert.Contains(t, body, `hreflang="x-default" href="https://transferdaily.test/en/"`)
	assert.Contains(t, body, "30 ago 2024")
}

func TestRouter_AdsRenderOnlyWhenConfigured(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) {
			c.AdsEnabled = true
			c.AdSenseClientID = "ca-pub-123"
		})
		env.stubListing()

		body := env.do(httptest.NewRequest(http.MethodGet, "/en/", nil)).Body.String()
		assert.Contains(t, body, `data-ad-client="ca-pub-123"`)
		assert.Contains(t, body, `data-ad-slot="1000000001"`)
		assert.NotContains(t, body, `data-ad-slot="1000000006"`, "disabled slot must not render")
	})

	t.Run("no client id", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.AdsEnabled = true })
		env.stubListing()

		body := env.do(httptest.NewRequest(http.MethodGet, "/en/", nil)).Body.String()
		assert.NotContains(t, body, "adsbygoogle")
	})
}

func TestRouter_ArticlePage(t *testing.T) {
	env := newTestEnv(t, nil)
	a := testArticle()
	env.reader.On("PublicLeagues", mock.Anything).Return(navLeagues, nil)
	env.reader.On("RelatedArticles", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	env.reader.On("PublicArticle", mock.Anything, "rice-joins-arsenal", domain.LocaleEN).Return(&a, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/en/articles/rice-joins-arsenal", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Rice</strong>")
	assert.Contains(t, body, `"@type":"NewsArticle"`)
	assert.Contains(t, body, `href="https://transferdaily.test/es/articles/rice-ficha-por-el-arsenal"`)
	assert.Contains(t, body, `<link rel="canonical" href="https://transferdaily.test/en/articles/rice-joins-arsenal">`)
}

func TestRouter_ArticleRedirectsToLocalizedSlug(t *testing.T) {
	env := newTestEnv(t, nil)
	a := testArticle()
	env.reader.On("PublicLeagues", mock.Anything).Return(navLeagues, nil)
	env.reader.On("RelatedArticles", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	env.reader.On("PublicArticle", mock.Anything, "rice-joins-arsenal", domain.LocaleES).Return(&a, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/es/articles/rice-joins-arsenal", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/es/articles/rice-ficha-por-el-arsenal", rec.Header().Get("Location"))
}

func TestRouter_ArticleNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	env.reader.On("PublicLeagues", mock.Anything).Return(navLeagues, nil)
	env.reader.On("RelatedArticles", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	env.reader.On("PublicArticle", mock.Anything, "nope", domain.LocaleFR).Return(nil, domain.ErrNotFound)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/fr/articles/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page introuvable")
}

func TestRouter_ContactValidationNeverCallsAPI(t *testing.T) {
	env := newTestEnv(t, nil)
	env.reader.On("PublicLeagues", mock.Anything).Return(navLeagues, nil)

	rec := env.do(postForm("/en/contact", url.Values{
		"name":    {"Sam"},
		"email":   {"not-an-email"},
		"subject": {"Tip"},
		"message": {"Short"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="field-error"`)
	assert.Contains(t, rec.Body.String(), `value="not-an-email"`)
	env.writer.AssertNotCalled(t, "SubmitContact", mock.Anything, mock.Anything)
}

func TestRouter_ContactSuccessRedirects(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writer.On("SubmitContact", mock.Anything, mock.MatchedBy(func(c *domain.ContactSubmission) bool {
		return c.Email == "sam@example.com" && c.Locale == domain.LocaleIT
	})).Return(nil)

	rec := env.do(postForm("/it/contact", url.Values{
		"name":    {"Sam"},
		"email":   {"sam@example.com"},
		"subject": {"Tip"},
		"message": {"Rice is about to sign for Arsenal, sources say."},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/it/contact?sent=1", rec.Header().Get("Location"))
	env.writer.AssertExpectations(t)
}

func TestRouter_NewsletterRedirectsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writer.On("Subscribe", mock.Anything, "fan@example.com", domain.LocaleES).Return(nil)

	rec := env.do(postForm("/es/newsletter", url.Values{"email": {"fan@example.com"}, "return": {"/es/leagues/la-liga?page=2"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/es/leagues/la-liga?newsletter=ok", rec.Header().Get("Location"))

	rec = env.do(postForm("/es/newsletter", url.Values{"email": {"fan@example.com"}, "return": {"//evil.example"}}))
	assert.Equal(t, "/es/?newsletter=ok", rec.Header().Get("Location"))

	rec = env.do(postForm("/es/newsletter", url.Values{"email": {"nope"}}))
	assert.Equal(t, "/es/?newsletter=error", rec.Header().Get("Location"))
}

func TestRouter_RobotsAndSitemap(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stubListing()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Contains(t, rec.Body.String(), "Disallow: /admin/")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://transferdaily.test/sitemap.xml")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://transferdaily.test/fr/contact</loc>")
	assert.Contains(t, body, "<loc>https://transferdaily.test/es/articles/rice-ficha-por-el-arsenal</loc>")
	assert.Contains(t, body, `hreflang="de" href="https://transferdaily.test/de/articles/rice-joins-arsenal"`)
	assert.Contains(t, body, "<lastmod>2024-08-30</lastmod>")
}

func TestRouter_Readiness(t *testing.T) {
	cfg := &config.Config{SiteURL: "http://localhost:8080", SessionTTL: time.Hour}
	h, err := NewRouter(Deps{Config: cfg, Readiness: staticReadiness{"mongodb": nil, "kafka": errors.New("no brokers")}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"mongodb":"ok","kafka":"no brokers"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_RequiresSession(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/admin/articles?status=draft", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Farticles%3Fstatus%3Ddraft", rec.Header().Get("Location"))

	rec = env.do(postForm("/admin/articles/a1/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	env.articles.AssertNotCalled(t, "DeleteArticle", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_LoginAndDashboard(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.signIn(t)
	env.audience.On("Stats", mock.Anything, "access-1").Return(&domain.Stats{TotalArticles: 12, PublishedArticles: 9}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>12</strong> articles")
	assert.Contains(t, rec.Body.String(), "editor")
	assert.Len(t, env.sessions.data, 1)
}

func TestAdmin_LoginRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	env.idp.On("SignIn", mock.Anything, "editor", "wrong").Return(nil, domain.ErrInvalidCredentials)

	rec := env.do(postForm("/admin/login", url.Values{"username": {"editor"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect username or password.")
	assert.Empty(t, env.sessions.data)
}

func TestAdmin_NewPasswordChallenge(t *testing.T) {
	env := newTestEnv(t, nil)
	ch := auth.Challenge{Name: "NEW_PASSWORD_REQUIRED", Session: "cognito-session", Username: "editor"}
	env.idp.On("SignIn", mock.Anything, "editor", "temporary").Return(nil, &auth.ChallengeError{Challenge: ch})
	env.idp.On("CompleteNewPassword", mock.Anything, ch, "a-much-better-one").
		Return(&oauth2.Token{AccessToken: "access-2", Expiry: time.Now().Add(time.Hour)}, nil)

	rec := env.do(postForm("/admin/login", url.Values{"username": {"editor"}, "password": {"temporary"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login/new-password", rec.Header().Get("Location"))
	cookie := rec.Result().Cookies()[0]

	req := postForm("/admin/login/new-password", url.Values{"password": {"a-much-better-one"}, "confirm": {"a-much-better-one"}})
	req.AddCookie(cookie)
	rec = env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))
	require.Len(t, env.sessions.data, 1)
	for _, s := range env.sessions.data {
		assert.Equal(t, "access-2", s.AccessToken)
	}
}

func TestAdmin_ArticleValidationRerendersForm(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.signIn(t)

	req := postForm("/admin/articles", url.Values{"title": {"Rice joins Arsenal"}, "content": {"Done deal."}, "transfer_status": {"maybe"}})
	req.AddCookie(cookie)
	rec := env.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Rice joins Arsenal"`)
	env.articles.AssertNotCalled(t, "CreateArticle", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_UploadRejectsNonImages(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.signIn(t)
	env.media.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", media.ErrUnsupportedType)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("just text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := env.do(req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only JPEG")
}

func TestAdmin_WorkflowPublishRequiresChecklist(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.signIn(t)
	a := testArticle()
	a.Status = domain.StatusDraft
	a.PublishedAt = nil
	env.articles.On("Article", mock.Anything, "access-1", "a1").Return(&a, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/articles/a1/publish", nil)
	req.AddCookie(cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="current">1. Content`)

	req = postForm("/admin/articles/a1/publish/publish", nil)
	req.AddCookie(cookie)
	rec = env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/articles/a1/publish", rec.Header().Get("Location"))
	env.articles.AssertNotCalled(t, "SetArticleStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
