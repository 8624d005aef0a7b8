package app

import (
	"unicode/utf8"

	"github.com/TransferDaily/internal/domain"
)

const (
	seoTitleLimit       = 60
	seoDescriptionLimit = 160
)

// DevicePreview is one frame of the responsive preview.
type DevicePreview struct {
	Name  string
	Width int
}

var previewDevices = []DevicePreview{
	{Name: "desktop", Width: 1280},
	{Name: "tablet", Width: 768},
	{Name: "mobile", Width: 375},
}

// SEOSnippet approximates how a search engine lists the page.
type SEOSnippet struct {
	Title                string
	Description          string
	URL                  string
	TitleTruncated       bool
	DescriptionTruncated bool
}

// LocaleStatus reports whether a locale is ready to publish.
type LocaleStatus struct {
	Locale   domain.Locale
	Name     string
	Complete bool
}

// Preview is the read-only view used by the preview and confirm steps.
type Preview struct {
	Locale      domain.Locale
	Text        domain.Translation
	Devices     []DevicePreview
	SEO         SEOSnippet
	Locales     []LocaleStatus
	SocialPosts []domain.SocialPost
}

func (s *PublishingService) preview(w *domain.WorkflowSession, a *domain.Article, loc domain.Locale) *Preview {
	text := a.Localized(loc)
	desc := text.MetaDescription
	if desc == "" {
		desc = domain.Excerpt(text.Content, seoDescriptionLimit*2)
	}

	p := &Preview{
		Locale:  loc,
		Text:    text,
		Devices: previewDevices,
		SEO: SEOSnippet{
			Title:                truncate(text.Title, seoTitleLimit),
			Description:          truncate(desc, seoDescriptionLimit),
			URL:                  s.articleURL(a, loc),
			TitleTruncated:       utf8.RuneCountInString(text.Title) > seoTitleLimit,
			DescriptionTruncated: utf8.RuneCountInString(desc) > seoDescriptionLimit,
		},
		SocialPosts: w.SocialPosts,
	}
	if len(p.SocialPosts) == 0 {
		p.SocialPosts = GenerateSocialPosts(a, s.articleURL(a, domain.DefaultLocale))
	}
	for _, l := range domain.Locales {
		complete := a.Translations[l].Complete()
		if l == domain.DefaultLocale {
			complete = a.Localized(l).Complete()
		}
		p.Locales = append(p.Locales, LocaleStatus{Locale: l, Name: l.Name(), Complete: complete})
	}
	return p
}
