package domain

import "time"

// ExcerptLength is the rune budget of listing excerpts.
const ExcerptLength = 160

// Transfer is the public listing view of an article.
type Transfer struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Excerpt     string         `json:"excerpt"`
	League      string         `json:"league"`
	Status      TransferStatus `json:"status"`
	PublishedAt time.Time      `json:"publishedAt"`
	ImageURL    string         `json:"imageUrl"`
	Slug        string         `json:"slug"`
}

// NewTransfer derives the listing view of an article for a locale.
func NewTransfer(a *Article, loc Locale) Transfer {
	tr := a.Localized(loc)
	published := a.UpdatedAt
	if a.PublishedAt != nil {
		published = *a.PublishedAt
	}
	slug := tr.Slug
	if slug == "" {
		slug = Slugify(tr.Title)
	}
	return Transfer{
		ID:          a.ID,
		Title:       tr.Title,
		Excerpt:     Excerpt(tr.Content, ExcerptLength),
		League:      a.League,
		Status:      ParseTransferStatus(a.TransferStatus),
		PublishedAt: published,
		ImageURL:    a.ImageURL,
		Slug:        slug,
	}
}

// NewTransfers maps a page of articles to listing views.
func NewTransfers(articles []Article, loc Locale) []Transfer {
	out := make([]Transfer, 0, len(articles))
	for i := range articles {
		out = append(out, NewTransfer(&articles[i], loc))
	}
	return out
}
