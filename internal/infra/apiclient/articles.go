package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TransferDaily/internal/domain"
)

// Articles lists articles of every status for the admin.
func (c *Client) Articles(ctx context.Context, token string, q domain.ListQuery) (*domain.ArticleList, error) {
	var resp articleListResponse
	err := c.do(ctx, request{
		endpoint: "admin_articles",
		method:   http.MethodGet,
		path:     "/admin/articles",
		query:    listQuery(q),
		token:    token,
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.list(q), nil
}

// Article fetches one article by id.
func (c *Client) Article(ctx context.Context, token, id string) (*domain.Article, error) {
	var article domain.Article
	err := c.do(ctx, request{
		endpoint: "admin_article",
		method:   http.MethodGet,
		path:     "/admin/articles/" + url.PathEscape(id),
		token:    token,
		out:      &article,
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates a draft article.
func (c *Client) CreateArticle(ctx context.Context, token string, a *domain.Article) (*domain.Article, error) {
	var created domain.Article
	err := c.do(ctx, request{
		endpoint: "admin_article_create",
		method:   http.MethodPost,
		path:     "/admin/articles",
		token:    token,
		body:     a,
		out:      &created,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateArticle overwrites the whole article document.
func (c *Client) UpdateArticle(ctx context.Context, token string, a *domain.Article) (*domain.Article, error) {
	var updated domain.Article
	err := c.do(ctx, request{
		endpoint: "admin_article_update",
		method:   http.MethodPut,
		path:     "/admin/articles/" + url.PathEscape(a.ID),
		token:    token,
		body:     a,
		out:      &updated,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetArticleStatus patches only the status field.
func (c *Client) SetArticleStatus(ctx context.Context, token, id string, status domain.ArticleStatus) (*domain.Article, error) {
	var updated domain.Article
	err := c.do(ctx, request{
		endpoint: "admin_article_status",
		method:   http.MethodPatch,
		path:     "/admin/articles/" + url.PathEscape(id),
		token:    token,
		body:     map[string]domain.ArticleStatus{"status": status},
		out:      &updated,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteArticle removes an article.
func (c *Client) DeleteArticle(ctx context.Context, token, id string) error {
	return c.do(ctx, request{
		endpoint: "admin_article_delete",
		method:   http.MethodDelete,
		path:     "/admin/articles/" + url.PathEscape(id),
		token:    token,
	})
}

// RequestTranslations starts a translation job for the target locales.
func (c *Client) RequestTranslations(ctx context.Context, token, id string, locales []domain.Locale) (*domain.TranslationStatus, error) {
	var status domain.TranslationStatus
	err := c.do(ctx, request{
		endpoint: "translations_generate",
		method:   http.MethodPost,
		path:     "/admin/articles/" + url.PathEscape(id) + "/translations",
		token:    token,
		body:     map[string][]domain.Locale{"target_locales": locales},
		out:      &status,
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// TranslationStatus polls the state of the article's translation job.
func (c *Client) TranslationStatus(ctx context.Context, token, id string) (*domain.TranslationStatus, error) {
	var status domain.TranslationStatus
	err := c.do(ctx, request{
		endpoint: "translations_status",
		method:   http.MethodGet,
		path:     "/admin/articles/" + url.PathEscape(id) + "/translations/status",
		token:    token,
		out:      &status,
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}
