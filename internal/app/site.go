package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/cache"
	"github.com/TransferDaily/pkg/logging"
)

const (
	pageTimeout    = 10 * time.Second
	articleTimeout = 15 * time.Second

	listingLimit    = 12
	relatedLimit    = 4
	sitemapLimit    = 100
	sitemapMaxPages = 50

	leaguesCacheKey  = "leagues"
	listingsCacheKey = "articles"

	// Shown in place of content when the API is unreachable.
	unavailableMessage = "Transfers are unavailable right now. Please try again shortly."
)

func articleCacheKey(loc domain.Locale, slug string) string {
	return cache.Key("article", string(loc), slug)
}

// listingCacheKey labels every filter so an empty one keeps its position.
func listingCacheKey(q domain.ListQuery) string {
	return cache.Key(listingsCacheKey, string(q.Locale), "l="+q.League, "q="+q.Search, "p="+strconv.Itoa(q.Page))
}

func articleCacheKeys(a *domain.Article) []string {
	keys := make([]string, 0, len(domain.Locales))
	for _, loc := range domain.Locales {
		if slug := a.Localized(loc).Slug; slug != "" {
			keys = append(keys, articleCacheKey(loc, slug))
		}
	}
	return keys
}

// invalidatePages drops the given article pages along with every cached
// listing and the league counts.
func invalidatePages(ctx context.Context, c domain.Cache, keys ...string) {
	keys = append(keys, leaguesCacheKey)
	if err := c.Delete(ctx, keys...); err != nil {
		slog.Warn("Failed to invalidate cached pages", "keys", len(keys), "error", err)
	}
	if err := c.DeletePrefix(ctx, listingsCacheKey+":"); err != nil {
		slog.Warn("Failed to invalidate cached listings", "error", err)
	}
}

// ListingPage backs the home, league and search pages.
type ListingPage struct {
	Locale    domain.Locale
	Transfers []domain.Transfer
	Page      domain.Page
	Leagues   []domain.League
	League    *domain.League
	Query     string
	Err       string
}

// ArticlePage backs the article detail page.
type ArticlePage struct {
	Locale      domain.Locale
	Article     *domain.Article
	Text        domain.Translation
	Transfer    domain.Transfer
	ContentHTML string
	Related     []domain.Transfer
	Leagues     []domain.League
	Err         string
}

// SiteService serves the public pages. Remote failures degrade to empty pages.
type SiteService struct {
	reader   domain.ArticleReader
	writer   domain.SiteWriter
	cache    domain.Cache
	markdown domain.MarkdownRenderer
	cacheTTL time.Duration
	sampler  *logging.ErrorSampler
}

func NewSiteService(reader domain.ArticleReader, writer domain.SiteWriter, pageCache domain.Cache, md domain.MarkdownRenderer, cacheTTL time.Duration) *SiteService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &SiteService{
		reader:   reader,
		writer:   writer,
		cache:    pageCache,
		markdown: md,
		cacheTTL: cacheTTL,
		sampler:  logging.NewErrorSampler(10),
	}
}

// Home lists the latest transfers, optionally for one league.
func (s *SiteService) Home(ctx context.Context, loc domain.Locale, league string, page int) *ListingPage {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	q := domain.ListQuery{Page: page, Limit: listingLimit, League: league, Locale: loc}
	return s.listing(ctx, "home", q)
}

// League lists transfers for the league with the given slug. It returns
// domain.ErrNotFound when the league does not exist.
func (s *SiteService) League(ctx context.Context, loc domain.Locale, slug string, page int) (*ListingPage, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	leagues := s.leagues(ctx)
	var league *domain.League
	for i := range leagues {
		if leagues[i].Slug == slug {
			league = &leagues[i]
			break
		}
	}
	if league == nil && len(leagues) > 0 {
		return nil, domain.ErrNotFound
	}

	q := domain.ListQuery{Page: page, Limit: listingLimit, League: slug, Locale: loc}
	p := s.listing(ctx, "league", q)
	p.League = league
	return p, nil
}

// Search lists transfers matching query and reports the search, best effort.
func (s *SiteService) Search(ctx context.Context, loc domain.Locale, query string, page int) *ListingPage {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	q := domain.ListQuery{Page: page, Limit: listingLimit, Search: query, Locale: loc}
	p := s.listing(ctx, "search", q)
	p.Query = query

	if query != "" {
		if err := s.writer.TrackSearch(ctx, domain.SearchEvent{Query: query, Locale: loc, Results: p.Page.Total}); err != nil {
			slog.Debug("Search tracking failed", "error", err)
		}
	}
	return p
}

func (s *SiteService) listing(ctx context.Context, name string, q domain.ListQuery) *ListingPage {
	p := &ListingPage{Locale: q.Locale, Page: domain.NewPage(q.Page, q.Limit, 0)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Leagues = s.leagues(gctx)
		return nil
	})
	g.Go(func() error {
		list, err := s.articles(gctx, q)
		if err != nil {
			return err
		}
		p.Transfers = domain.NewTransfers(list.Articles, q.Locale)
		p.Page = list.Page
		return nil
	})
	if err := g.Wait(); err != nil {
		s.sampler.Error("listing:"+name, "Failed to load listing", "page", name, "error", err)
		p.Err = unavailableMessage
		return p
	}
	s.sampler.Recovered("listing:" + name)
	return p
}

func (s *SiteService) articles(ctx context.Context, q domain.ListQuery) (*domain.ArticleList, error) {
	key := listingCacheKey(q)
	var list domain.ArticleList
	if hit, err := s.cache.Get(ctx, key, &list); err == nil && hit {
		return &list, nil
	}
	fetched, err := s.reader.PublicArticles(ctx, q)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, fetched)
	return fetched, nil
}

func (s *SiteService) leagues(ctx context.Context) []domain.League {
	var leagues []domain.League
	if hit, err := s.cache.Get(ctx, leaguesCacheKey, &leagues); err == nil && hit {
		return leagues
	}
	leagues, err := s.reader.PublicLeagues(ctx)
	if err != nil {
		s.sampler.Error("leagues", "Failed to load leagues", "error", err)
		return nil
	}
	s.sampler.Recovered("leagues")
	s.store(ctx, leaguesCacheKey, leagues)
	return leagues
}

// Article loads the article and its related stories in parallel. A missing
// article yields domain.ErrNotFound; other failures degrade to an empty page.
func (s *SiteService) Article(ctx context.Context, loc domain.Locale, slug string) (*ArticlePage, error) {
	ctx, cancel := context.WithTimeout(ctx, articleTimeout)
	defer cancel()

	p := &ArticlePage{Locale: loc}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.article(gctx, loc, slug)
		if err != nil {
			return err
		}
		p.Article = a
		return nil
	})
	g.Go(func() error {
		related, err := s.reader.RelatedArticles(gctx, slug, relatedLimit)
		if err != nil {
			slog.Debug("Related articles unavailable", "slug", slug, "error", err)
			return nil
		}
		p.Related = domain.NewTransfers(related, loc)
		return nil
	})
	g.Go(func() error {
		p.Leagues = s.leagues(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.sampler.Error("article", "Failed to load article", "slug", slug, "error", err)
		p.Err = unavailableMessage
		p.Related = nil
		return p, nil
	}
	s.sampler.Recovered("article")

	if p.Article.Status == domain.StatusDraft {
		return nil, domain.ErrNotFound
	}
	p.Text = p.Article.Localized(loc)
	p.Transfer = domain.NewTransfer(p.Article, loc)
	html, err := s.markdown.Render(p.Text.Content)
	if err != nil {
		slog.Warn("Failed to render article markdown", "slug", slug, "error", err)
		html = ""
	}
	p.ContentHTML = html
	return p, nil
}

func (s *SiteService) article(ctx context.Context, loc domain.Locale, slug string) (*domain.Article, error) {
	key := articleCacheKey(loc, slug)
	var a domain.Article
	if hit, err := s.cache.Get(ctx, key, &a); err == nil && hit {
		return &a, nil
	}
	fetched, err := s.reader.PublicArticle(ctx, slug, loc)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, fetched)
	return fetched, nil
}

// SitemapArticles returns every published article, page by page.
func (s *SiteService) SitemapArticles(ctx context.Context) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, articleTimeout)
	defer cancel()

	var all []domain.Article
	for page := 1; page <= sitemapMaxPages; page++ {
		list, err := s.reader.PublicArticles(ctx, domain.ListQuery{Page: page, Limit: sitemapLimit})
		if err != nil {
			return all, err
		}
		all = append(all, list.Articles...)
		if !list.Page.HasNext() || len(list.Articles) == 0 {
			break
		}
	}
	return all, nil
}

// Leagues returns the navigation leagues, empty when unavailable.
func (s *SiteService) Leagues(ctx context.Context) []domain.League {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()
	return s.leagues(ctx)
}

// SubmitContact validates the form and forwards it. Invalid forms never reach the API.
func (s *SiteService) SubmitContact(ctx context.Context, f ContactForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()
	return s.writer.SubmitContact(ctx, f.Submission())
}

// Subscribe validates the email and signs it up for the newsletter.
func (s *SiteService) Subscribe(ctx context.Context, f NewsletterForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()
	return s.writer.Subscribe(ctx, f.Email, f.Locale)
}

func (s *SiteService) store(ctx context.Context, key string, v any) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, v, s.cacheTTL); err != nil {
		slog.Debug("Cache write failed", "key", key, "error", err)
	}
}
