package http

import (
	"fmt"
	"time"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
)

// Alternate is one hreflang link.
type Alternate struct {
	HrefLang string
	Href     string
}

// Meta is the head metadata of a public page.
type Meta struct {
	Title          string
	Description    string
	Canonical      string
	Locale         domain.Locale
	OGLocale       string
	OGType         string
	Image          string
	Alternates     []Alternate
	StructuredData any
	NoIndex        bool
}

const descriptionLimit = 160

func (h *siteHandler) url(loc domain.Locale, path string) string {
	return fmt.Sprintf("%s/%s%s", h.siteURL, loc, path)
}

// defaultMeta is used for listing pages and whenever the API is unavailable.
func (h *siteHandler) defaultMeta(loc domain.Locale, title, path string) Meta {
	full := h.siteName
	if title != "" {
		full = title + " | " + h.siteName
	}
	m := Meta{
		Title:       full,
		Description: T(loc, "Latest football transfer news, rumours and done deals."),
		Canonical:   h.url(loc, path),
		Locale:      loc,
		OGLocale:    loc.OpenGraph(),
		OGType:      "website",
	}
	for _, l := range domain.Locales {
		m.Alternates = append(m.Alternates, Alternate{HrefLang: string(l), Href: h.url(l, path)})
	}
	m.Alternates = append(m.Alternates, Alternate{HrefLang: "x-default", Href: h.url(domain.DefaultLocale, path)})
	return m
}

// newsArticle is the schema.org NewsArticle JSON-LD document.
type newsArticle struct {
	Context       string    `json:"@context"`
	Type          string    `json:"@type"`
	Headline      string    `json:"headline"`
	Description   string    `json:"description,omitempty"`
	Image         []string  `json:"image,omitempty"`
	DatePublished string    `json:"datePublished,omitempty"`
	DateModified  string    `json:"dateModified,omitempty"`
	InLanguage    string    `json:"inLanguage"`
	URL           string    `json:"mainEntityOfPage"`
	Publisher     publisher `json:"publisher"`
}

type publisher struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// articleMeta links every locale's own slug as an hreflang alternate.
func (h *siteHandler) articleMeta(p *app.ArticlePage) Meta {
	a := p.Article
	loc := p.Locale
	text := a.Localized(loc)

	desc := text.MetaDescription
	if desc == "" {
		desc = domain.Excerpt(text.Content, descriptionLimit)
	}
	canonical := h.url(loc, "/articles/"+text.Slug)

	m := Meta{
		Title:       text.Title + " | " + h.siteName,
		Description: desc,
		Canonical:   canonical,
		Locale:      loc,
		OGLocale:    loc.OpenGraph(),
		OGType:      "article",
		Image:       a.ImageURL,
	}
	for _, l := range domain.Locales {
		m.Alternates = append(m.Alternates, Alternate{
			HrefLang: string(l),
			Href:     h.url(l, "/articles/"+a.Localized(l).Slug),
		})
	}
	m.Alternates = append(m.Alternates, Alternate{
		HrefLang: "x-default",
		Href:     h.url(domain.DefaultLocale, "/articles/"+a.Slug),
	})

	doc := newsArticle{
		Context:     "https://schema.org",
		Type:        "NewsArticle",
		Headline:    text.Title,
		Description: desc,
		InLanguage:  string(loc),
		URL:         canonical,
		Publisher:   publisher{Type: "Organization", Name: h.siteName},
	}
	if a.ImageURL != "" {
		doc.Image = []string{a.ImageURL}
	}
	if a.PublishedAt != nil {
		doc.DatePublished = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		doc.DateModified = a.UpdatedAt.UTC().Format(time.RFC3339)
	}
	m.StructuredData = doc
	return m
}
