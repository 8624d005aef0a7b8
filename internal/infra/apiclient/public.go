package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/TransferDaily/internal/domain"
)

type articleListResponse struct {
	Articles   []domain.Article `json:"articles"`
	Pagination domain.Page      `json:"pagination"`
}

func (r *articleListResponse) list(q domain.ListQuery) *domain.ArticleList {
	page := r.Pagination
	if page.Limit == 0 {
		page = domain.NewPage(q.Page, q.Limit, len(r.Articles))
	}
	return &domain.ArticleList{Articles: r.Articles, Page: page}
}

// PublicArticles lists published articles.
func (c *Client) PublicArticles(ctx context.Context, q domain.ListQuery) (*domain.ArticleList, error) {
	var resp articleListResponse
	err := c.do(ctx, request{
		endpoint: "public_articles",
		method:   http.MethodGet,
		path:     "/public/articles",
		query:    listQuery(q),
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.list(q), nil
}

// PublicArticle fetches one published article by its (possibly localized) slug.
func (c *Client) PublicArticle(ctx context.Context, slug string, loc domain.Locale) (*domain.Article, error) {
	var article domain.Article
	err := c.do(ctx, request{
		endpoint: "public_article",
		method:   http.MethodGet,
		path:     "/public/articles/" + url.PathEscape(slug),
		query:    url.Values{"locale": {string(loc)}},
		out:      &article,
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// RelatedArticles returns articles related to the one behind slug.
func (c *Client) RelatedArticles(ctx context.Context, slug string, limit int) ([]domain.Article, error) {
	var resp articleListResponse
	err := c.do(ctx, request{
		endpoint: "related_articles",
		method:   http.MethodGet,
		path:     "/public/articles/" + url.PathEscape(slug) + "/related",
		query:    url.Values{"limit": {fmt.Sprint(limit)}},
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// PublicLeagues lists leagues for navigation.
func (c *Client) PublicLeagues(ctx context.Context) ([]domain.League, error) {
	var resp struct {
		Leagues []domain.League `json:"leagues"`
	}
	err := c.do(ctx, request{
		endpoint: "public_leagues",
		method:   http.MethodGet,
		path:     "/public/leagues",
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Leagues, nil
}

// Subscribe adds an email address to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string, loc domain.Locale) error {
	return c.do(ctx, request{
		endpoint: "newsletter_subscribe",
		method:   http.MethodPost,
		path:     "/newsletter",
		body:     map[string]string{"email": email, "locale": string(loc)},
	})
}

// SubmitContact forwards a contact form submission.
func (c *Client) SubmitContact(ctx context.Context, sub *domain.ContactSubmission) error {
	return c.do(ctx, request{
		endpoint: "contact_submit",
		method:   http.MethodPost,
		path:     "/contact",
		body:     sub,
	})
}

// TrackSearch records a site search.
func (c *Client) TrackSearch(ctx context.Context, e domain.SearchEvent) error {
	return c.do(ctx, request{
		endpoint: "search_track",
		method:   http.MethodPost,
		path:     "/search/track",
		body:     e,
	})
}
