package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/cache"
)

const (
	// fetchLimit is how many rows an admin screen pulls before filtering locally.
	fetchLimit = 100
	// exportMaxPages bounds how many pages an export walks.
	exportMaxPages = 500
)

// Listing is one filtered, sorted page of rows.
type Listing[T any] struct {
	Items []T
	Page  domain.Page
}

// Paginate slices items to the requested page.
func Paginate[T any](items []T, page, limit int) Listing[T] {
	p := domain.NewPage(page, limit, len(items))
	if p.Page > p.TotalPages {
		p.Page = p.TotalPages
	}
	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Listing[T]{Items: items[start:end], Page: p}
}

// Filter keeps the items matching keep.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ArticleFilter narrows the admin article list.
type ArticleFilter struct {
	Search string
	Status string
	League string
	Sort   string // updated (default), title, status
	Page   int
	Limit  int
}

// AdminService backs the admin screens. Article changes drop the cached public
// pages they affect.
type AdminService struct {
	articles  domain.ArticleAdmin
	catalog   domain.CatalogAdmin
	audience  domain.AudienceAdmin
	media     domain.MediaStore
	workflows domain.WorkflowRepository
	cache     domain.Cache
	now       func() time.Time
}

func NewAdminService(
	articles domain.ArticleAdmin,
	catalog domain.CatalogAdmin,
	audience domain.AudienceAdmin,
	media domain.MediaStore,
	workflows domain.WorkflowRepository,
	pageCache domain.Cache,
) *AdminService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &AdminService{
		articles:  articles,
		catalog:   catalog,
		audience:  audience,
		media:     media,
		workflows: workflows,
		cache:     pageCache,
		now:       time.Now,
	}
}

func (s *AdminService) Dashboard(ctx context.Context, token string) (*domain.Stats, error) {
	return s.audience.Stats(ctx, token)
}

// Articles fetches a page from the API, then filters, sorts and paginates it locally.
func (s *AdminService) Articles(ctx context.Context, token string, f ArticleFilter) (Listing[domain.Article], error) {
	list, err := s.articles.Articles(ctx, token, domain.ListQuery{Page: 1, Limit: fetchLimit})
	if err != nil {
		return Listing[domain.Article]{}, err
	}
	return FilterArticles(list.Articles, f), nil
}

// FilterArticles applies f to rows already fetched.
func FilterArticles(rows []domain.Article, f ArticleFilter) Listing[domain.Article] {
	rows = Filter(rows, func(a domain.Article) bool {
		if f.Status != "" && string(a.Status) != f.Status {
			return false
		}
		if f.League != "" && a.League != f.League {
			return false
		}
		if f.Search != "" && !containsFold(a.Title, f.Search) && !containsFold(a.PlayerName, f.Search) && !containsFold(a.Slug, f.Search) {
			return false
		}
		return true
	})

	sort.SliceStable(rows, func(i, j int) bool {
		switch f.Sort {
		case "title":
			return strings.ToLower(rows[i].Title) < strings.ToLower(rows[j].Title)
		case "status":
			if rows[i].Status != rows[j].Status {
				return rows[i].Status < rows[j].Status
			}
			return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
		default:
			return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
		}
	})
	return Paginate(rows, f.Page, f.Limit)
}

func (s *AdminService) Article(ctx context.Context, token, id string) (*domain.Article, error) {
	return s.articles.Article(ctx, token, id)
}

// SaveArticle creates a draft when id is empty, otherwise overwrites the
// existing article with the form contents.
func (s *AdminService) SaveArticle(ctx context.Context, token, id string, form ArticleForm) (*domain.Article, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		a := &domain.Article{Status: domain.StatusDraft, CreatedAt: s.now()}
		form.Apply(a)
		a.UpdatedAt = a.CreatedAt
		created, err := s.articles.CreateArticle(ctx, token, a)
		if err != nil {
			return nil, err
		}
		invalidatePages(ctx, s.cache)
		return created, nil
	}

	a, err := s.articles.Article(ctx, token, id)
	if err != nil {
		return nil, err
	}
	stale := articleCacheKeys(a)
	form.Apply(a)
	a.UpdatedAt = s.now()
	updated, err := s.articles.UpdateArticle(ctx, token, a)
	if err != nil {
		return nil, err
	}
	invalidatePages(ctx, s.cache, append(stale, articleCacheKeys(updated)...)...)
	return updated, nil
}

func (s *AdminService) SetArticleStatus(ctx context.Context, token, id string, status domain.ArticleStatus) (*domain.Article, error) {
	a, err := s.articles.SetArticleStatus(ctx, token, id, status)
	if err != nil {
		return nil, err
	}
	invalidatePages(ctx, s.cache, articleCacheKeys(a)...)
	return a, nil
}

// DeleteArticle removes the article, its publishing workflow and its cached pages.
func (s *AdminService) DeleteArticle(ctx context.Context, token, id string) error {
	var stale []string
	if a, err := s.articles.Article(ctx, token, id); err == nil {
		stale = articleCacheKeys(a)
	} else {
		slog.Debug("Deleting article without cached slugs", "article_id", id, "error", err)
	}

	if err := s.articles.DeleteArticle(ctx, token, id); err != nil {
		return err
	}
	invalidatePages(ctx, s.cache, stale...)
	if s.workflows != nil {
		if err := s.workflows.DeleteWorkflow(ctx, id); err != nil {
			slog.Warn("Failed to delete workflow of deleted article", "article_id", id, "error", err)
		}
	}
	return nil
}

// UploadImage stores an article image and returns its URL.
func (s *AdminService) UploadImage(ctx context.Context, filename string, body io.Reader, contentType string) (string, error) {
	if s.media == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}
	base := domain.Slugify(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "image"
	}
	key := fmt.Sprintf("articles/%s/%s-%s", s.now().UTC().Format("2006/01"), base, uuid.NewString()[:8])
	return s.media.Upload(ctx, key, body, contentType)
}

// Clubs lists clubs whose name or country matches search.
func (s *AdminService) Clubs(ctx context.Context, token, search string, page int) (Listing[domain.Club], error) {
	clubs, err := s.catalog.Clubs(ctx, token)
	if err != nil {
		return Listing[domain.Club]{}, err
	}
	clubs = Filter(clubs, func(c domain.Club) bool {
		return search == "" || containsFold(c.Name, search) || containsFold(c.Country, search)
	})
	sort.SliceStable(clubs, func(i, j int) bool { return clubs[i].Name < clubs[j].Name })
	return Paginate(clubs, page, 0), nil
}

func (s *AdminService) SaveClub(ctx context.Context, token string, f NameForm) (*domain.Club, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.catalog.SaveClub(ctx, token, &domain.Club{
		ID:      f.ID,
		Name:    strings.TrimSpace(f.Name),
		Country: strings.TrimSpace(f.Country),
		League:  f.League,
	})
}

func (s *AdminService) DeleteClub(ctx context.Context, token, id string) error {
	return s.catalog.DeleteClub(ctx, token, id)
}

func (s *AdminService) Leagues(ctx context.Context, token, search string, page int) (Listing[domain.League], error) {
	leagues, err := s.catalog.Leagues(ctx, token)
	if err != nil {
		return Listing[domain.League]{}, err
	}
	leagues = Filter(leagues, func(l domain.League) bool {
		return search == "" || containsFold(l.Name, search) || containsFold(l.Country, search)
	})
	sort.SliceStable(leagues, func(i, j int) bool { return leagues[i].Name < leagues[j].Name })
	return Paginate(leagues, page, 0), nil
}

func (s *AdminService) SaveLeague(ctx context.Context, token string, f NameForm) (*domain.League, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.catalog.SaveLeague(ctx, token, &domain.League{
		ID:      f.ID,
		Name:    strings.TrimSpace(f.Name),
		Slug:    domain.Slugify(f.Name),
		Country: strings.TrimSpace(f.Country),
	})
}

func (s *AdminService) DeleteLeague(ctx context.Context, token, id string) error {
	return s.catalog.DeleteLeague(ctx, token, id)
}

func (s *AdminService) Players(ctx context.Context, token, search string, page int) (Listing[domain.Player], error) {
	players, err := s.catalog.Players(ctx, token)
	if err != nil {
		return Listing[domain.Player]{}, err
	}
	players = Filter(players, func(p domain.Player) bool {
		return search == "" || containsFold(p.Name, search) || containsFold(p.Club, search)
	})
	sort.SliceStable(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return Paginate(players, page, 0), nil
}

func (s *AdminService) SavePlayer(ctx context.Context, token string, f NameForm) (*domain.Player, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.catalog.SavePlayer(ctx, token, &domain.Player{
		ID:       f.ID,
		Name:     strings.TrimSpace(f.Name),
		Country:  strings.TrimSpace(f.Country),
		Position: f.Position,
		Club:     f.Club,
	})
}

func (s *AdminService) DeletePlayer(ctx context.Context, token, id string) error {
	return s.catalog.DeletePlayer(ctx, token, id)
}

// Subscribers lists newsletter subscribers, optionally with one status.
func (s *AdminService) Subscribers(ctx context.Context, token string, status domain.SubscriberStatus, page int) (Listing[domain.NewsletterSubscriber], error) {
	subs, err := s.audience.Subscribers(ctx, token, 1, fetchLimit)
	if err != nil {
		return Listing[domain.NewsletterSubscriber]{}, err
	}
	subs = Filter(subs, func(sub domain.NewsletterSubscriber) bool {
		return status == "" || sub.Status == status
	})
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubscribedAt.After(subs[j].SubscribedAt) })
	return Paginate(subs, page, 0), nil
}

func (s *AdminService) SetSubscriberStatus(ctx context.Context, token, id string, status domain.SubscriberStatus) error {
	if !domain.ValidSubscriberStatus(status) {
		return fmt.Errorf("unknown subscriber status %q", status)
	}
	return s.audience.SetSubscriberStatus(ctx, token, id, status)
}

func (s *AdminService) DeleteSubscriber(ctx context.Context, token, id string) error {
	return s.audience.DeleteSubscriber(ctx, token, id)
}

// ExportSubscribers writes every subscriber with the given status as CSV.
func (s *AdminService) ExportSubscribers(ctx context.Context, token string, status domain.SubscriberStatus, w io.Writer) error {
	subs, err := s.allSubscribers(ctx, token)
	if err != nil {
		return err
	}
	return WriteSubscribersCSV(w, Filter(subs, func(sub domain.NewsletterSubscriber) bool {
		return status == "" || sub.Status == status
	}))
}

// allSubscribers walks the API pages until one comes back short.
func (s *AdminService) allSubscribers(ctx context.Context, token string) ([]domain.NewsletterSubscriber, error) {
	var all []domain.NewsletterSubscriber
	for page := 1; page <= exportMaxPages; page++ {
		subs, err := s.audience.Subscribers(ctx, token, page, fetchLimit)
		if err != nil {
			return nil, fmt.Errorf("subscribers page %d: %w", page, err)
		}
		all = append(all, subs...)
		if len(subs) < fetchLimit {
			return all, nil
		}
	}
	slog.Warn("Subscriber export stopped at page limit", "pages", exportMaxPages, "rows", len(all))
	return all, nil
}

// WriteSubscribersCSV writes subs with a header row.
func WriteSubscribersCSV(w io.Writer, subs []domain.NewsletterSubscriber) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "status", "locale", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range subs {
		row := []string{sub.Email, string(sub.Status), string(sub.Locale), sub.SubscribedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Contacts lists contact submissions, newest first, optionally with one status.
func (s *AdminService) Contacts(ctx context.Context, token string, status domain.ContactStatus, page int) (Listing[domain.ContactSubmission], error) {
	contacts, err := s.audience.Contacts(ctx, token, 1, fetchLimit)
	if err != nil {
		return Listing[domain.ContactSubmission]{}, err
	}
	contacts = Filter(contacts, func(c domain.ContactSubmission) bool {
		return status == "" || c.Status == status
	})
	sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].CreatedAt.After(contacts[j].CreatedAt) })
	return Paginate(contacts, page, 0), nil
}

func (s *AdminService) MarkContactRead(ctx context.Context, token, id string) error {
	return s.audience.SetContactStatus(ctx, token, id, domain.ContactRead)
}

func (s *AdminService) ArchiveContact(ctx context.Context, token, id string) error {
	return s.audience.SetContactStatus(ctx, token, id, domain.ContactArchived)
}

func (s *AdminService) DeleteContact(ctx context.Context, token, id string) error {
	return s.audience.DeleteContact(ctx, token, id)
}
