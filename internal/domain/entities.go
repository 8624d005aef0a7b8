package domain

import "time"

// Club is a football club as exposed by the admin API.
type Club struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	League        string `json:"league,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
	ArticlesCount int    `json:"articles_count"`
	PlayersCount  int    `json:"players_count"`
}

// League is a competition transfers are filed under.
type League struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Country       string `json:"country"`
	ArticlesCount int    `json:"articles_count"`
	ClubsCount    int    `json:"clubs_count"`
}

// Player is a footballer referenced by transfer stories.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	Position      string `json:"position,omitempty"`
	Club          string `json:"club,omitempty"`
	ArticlesCount int    `json:"articles_count"`
}

// SubscriberStatus is the delivery status of a newsletter subscriber.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
	SubscriberBounced      SubscriberStatus = "bounced"
)

// ValidSubscriberStatus reports whether s is a known subscriber status.
func ValidSubscriberStatus(s SubscriberStatus) bool {
	switch s {
	case SubscriberActive, SubscriberUnsubscribed, SubscriberBounced:
		return true
	}
	return false
}

// NewsletterSubscriber is one newsletter sign-up.
type NewsletterSubscriber struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Status       SubscriberStatus `json:"status"`
	Locale       Locale           `json:"locale,omitempty"`
	SubscribedAt time.Time        `json:"subscribed_at"`
}

// ContactStatus tracks the triage state of a contact submission.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactArchived ContactStatus = "archived"
)

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Locale    Locale        `json:"locale,omitempty"`
	Status    ContactStatus `json:"status,omitempty"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
}

// Stats backs the admin dashboard.
type Stats struct {
	TotalArticles     int            `json:"total_articles"`
	PublishedArticles int            `json:"published_articles"`
	DraftArticles     int            `json:"draft_articles"`
	TotalClubs        int            `json:"total_clubs"`
	TotalLeagues      int            `json:"total_leagues"`
	TotalPlayers      int            `json:"total_players"`
	Subscribers       int            `json:"newsletter_subscribers"`
	UnreadContacts    int            `json:"unread_contacts"`
	ArticlesByLeague  map[string]int `json:"articles_by_league,omitempty"`
}

// SearchEvent is reported to the search-tracking endpoint.
type SearchEvent struct {
	Query   string `json:"query"`
	Locale  Locale `json:"locale"`
	Results int    `json:"results"`
}

// Page describes one slice of a paginated listing.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage computes page metadata for total rows.
func NewPage(page, limit, total int) Page {
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	return Page{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// ArticleList is one page of articles.
type ArticleList struct {
	Articles []Article `json:"articles"`
	Page     Page      `json:"pagination"`
}

// ListQuery narrows a remote list request.
type ListQuery struct {
	Page   int
	Limit  int
	League string
	Status string
	Search string
	Locale Locale
}
