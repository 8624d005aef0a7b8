package domain

import (
	"context"
	"io"
	"time"
)

// ArticleReader serves the public read side of the remote API.
type ArticleReader interface {
	PublicArticles(ctx context.Context, q ListQuery) (*ArticleList, error)
	PublicArticle(ctx context.Context, slug string, loc Locale) (*Article, error)
	RelatedArticles(ctx context.Context, slug string, limit int) ([]Article, error)
	PublicLeagues(ctx context.Context) ([]League, error)
}

// SiteWriter accepts anonymous visitor submissions.
type SiteWriter interface {
	Subscribe(ctx context.Context, email string, loc Locale) error
	SubmitContact(ctx context.Context, c *ContactSubmission) error
	TrackSearch(ctx context.Context, e SearchEvent) error
}

// ArticleAdmin manages articles on behalf of an authenticated editor.
type ArticleAdmin interface {
	Articles(ctx context.Context, token string, q ListQuery) (*ArticleList, error)
	Article(ctx context.Context, token, id string) (*Article, error)
	CreateArticle(ctx context.Context, token string, a *Article) (*Article, error)
	UpdateArticle(ctx context.Context, token string, a *Article) (*Article, error)
	SetArticleStatus(ctx context.Context, token, id string, status ArticleStatus) (*Article, error)
	DeleteArticle(ctx context.Context, token, id string) error
	RequestTranslations(ctx context.Context, token, id string, locales []Locale) (*TranslationStatus, error)
	TranslationStatus(ctx context.Context, token, id string) (*TranslationStatus, error)
}

// CatalogAdmin manages clubs, leagues and players.
type CatalogAdmin interface {
	Clubs(ctx context.Context, token string) ([]Club, error)
	SaveClub(ctx context.Context, token string, c *Club) (*Club, error)
	DeleteClub(ctx context.Context, token, id string) error
	Leagues(ctx context.Context, token string) ([]League, error)
	SaveLeague(ctx context.Context, token string, l *League) (*League, error)
	DeleteLeague(ctx context.Context, token, id string) error
	Players(ctx context.Context, token string) ([]Player, error)
	SavePlayer(ctx context.Context, token string, p *Player) (*Player, error)
	DeletePlayer(ctx context.Context, token, id string) error
}

// AudienceAdmin manages newsletter subscribers, contact submissions and stats.
type AudienceAdmin interface {
	Subscribers(ctx context.Context, token string, page, limit int) ([]NewsletterSubscriber, error)
	SetSubscriberStatus(ctx context.Context, token, id string, status SubscriberStatus) error
	DeleteSubscriber(ctx context.Context, token, id string) error
	Contacts(ctx context.Context, token string, page, limit int) ([]ContactSubmission, error)
	SetContactStatus(ctx context.Context, token, id string, status ContactStatus) error
	DeleteContact(ctx context.Context, token, id string) error
	Stats(ctx context.Context, token string) (*Stats, error)
}

// WorkflowRepository persists publishing workflow sessions, one per article.
type WorkflowRepository interface {
	GetWorkflow(ctx context.Context, articleID string) (*WorkflowSession, error)
	SaveWorkflow(ctx context.Context, w *WorkflowSession) error
	DeleteWorkflow(ctx context.Context, articleID string) error
	// SettleTranslation replaces the translation job of a workflow still waiting
	// on jobID, leaving every other field untouched. It returns ErrNotFound when
	// no such workflow is pending.
	SettleTranslation(ctx context.Context, articleID, jobID string, job TranslationJob, at time.Time) error
	PendingTranslations(ctx context.Context) ([]WorkflowSession, error)
}

// AdminSession is the server-side record behind an admin session cookie.
type AdminSession struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	AccessToken  string    `bson:"access_token"`
	RefreshToken string    `bson:"refresh_token"`
	IDToken      string    `bson:"id_token"`
	Expiry       time.Time `bson:"expiry"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// SessionRepository persists admin sessions.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*AdminSession, error)
	SaveSession(ctx context.Context, s *AdminSession) error
	DeleteSession(ctx context.Context, id string) error
}

// EventProducer publishes domain events to a queue.
type EventProducer interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

// Cache stores serialisable values for a bounded time.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// MediaStore keeps uploaded images and returns their public URL.
type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// MarkdownRenderer converts article markdown to HTML.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}
