package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ArticleStatus is the editorial status of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// TransferStatus describes where a transfer story stands.
type TransferStatus string

const (
	TransferConfirmed TransferStatus = "confirmed"
	TransferRumor     TransferStatus = "rumor"
	TransferCompleted TransferStatus = "completed"
	TransferLoan      TransferStatus = "loan"
)

// TransferStatuses lists the accepted transfer statuses in display order.
var TransferStatuses = []TransferStatus{TransferRumor, TransferConfirmed, TransferCompleted, TransferLoan}

// ParseTransferStatus maps free-form API values onto the enum. Unknown values become rumor.
func ParseTransferStatus(s string) TransferStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed", "official", "done_deal":
		return TransferConfirmed
	case "completed", "complete", "done":
		return TransferCompleted
	case "loan", "on_loan":
		return TransferLoan
	default:
		return TransferRumor
	}
}

// Translation is a locale-keyed variant of an article's text fields.
type Translation struct {
	Title           string `json:"title" bson:"title"`
	Content         string `json:"content" bson:"content"`
	Slug            string `json:"slug" bson:"slug"`
	MetaDescription string `json:"meta_description" bson:"meta_description"`
}

// Complete reports whether the translation carries both a title and content.
func (t Translation) Complete() bool {
	return strings.TrimSpace(t.Title) != "" && strings.TrimSpace(t.Content) != ""
}

// Article mirrors the remote API article document.
type Article struct {
	ID              string                 `json:"id" bson:"id"`
	UUID            string                 `json:"uuid,omitempty" bson:"uuid,omitempty"`
	Title           string                 `json:"title" bson:"title"`
	Content         string                 `json:"content" bson:"content"`
	Slug            string                 `json:"slug" bson:"slug"`
	Category        string                 `json:"category,omitempty" bson:"category,omitempty"`
	League          string                 `json:"league,omitempty" bson:"league,omitempty"`
	PlayerName      string                 `json:"player_name,omitempty" bson:"player_name,omitempty"`
	FromClub        string                 `json:"from_club,omitempty" bson:"from_club,omitempty"`
	ToClub          string                 `json:"to_club,omitempty" bson:"to_club,omitempty"`
	TransferFee     string                 `json:"transfer_fee,omitempty" bson:"transfer_fee,omitempty"`
	TransferStatus  string                 `json:"transfer_status,omitempty" bson:"transfer_status,omitempty"`
	Status          ArticleStatus          `json:"status" bson:"status"`
	ImageURL        string                 `json:"image_url,omitempty" bson:"image_url,omitempty"`
	MetaDescription string                 `json:"meta_description,omitempty" bson:"meta_description,omitempty"`
	CreatedAt       time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at" bson:"updated_at"`
	PublishedAt     *time.Time             `json:"published_at,omitempty" bson:"published_at,omitempty"`
	Translations    map[Locale]Translation `json:"translations,omitempty" bson:"translations,omitempty"`
}

// Localized returns the article text for the locale, falling back to the
// base fields for anything the translation leaves empty.
func (a *Article) Localized(loc Locale) Translation {
	base := Translation{
		Title:           a.Title,
		Content:         a.Content,
		Slug:            a.Slug,
		MetaDescription: a.MetaDescription,
	}
	tr, ok := a.Translations[loc]
	if !ok {
		return base
	}
	if tr.Title == "" {
		tr.Title = base.Title
	}
	if tr.Content == "" {
		tr.Content = base.Content
	}
	if tr.Slug == "" {
		tr.Slug = base.Slug
	}
	if tr.MetaDescription == "" {
		tr.MetaDescription = base.MetaDescription
	}
	return tr
}

// TranslationCount counts locales whose title and content are both present.
// The default locale also counts when only the base fields are filled.
func (a *Article) TranslationCount() int {
	n := 0
	for _, loc := range Locales {
		if tr, ok := a.Translations[loc]; ok && tr.Complete() {
			n++
			continue
		}
		if loc == DefaultLocale && strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.Content) != "" {
			n++
		}
	}
	return n
}

// MissingLocales returns the non-default locales that still need a translation.
func (a *Article) MissingLocales() []Locale {
	var missing []Locale
	for _, loc := range Locales {
		if loc == DefaultLocale {
			continue
		}
		if tr, ok := a.Translations[loc]; !ok || !tr.Complete() {
			missing = append(missing, loc)
		}
	}
	return missing
}

// IsPublished reports whether the article is live.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Excerpt returns the first max runes of the plain-text content, cut at a word boundary.
func Excerpt(content string, max int) string {
	plain := StripMarkdown(content)
	if utf8.RuneCountInString(plain) <= max {
		return plain
	}
	runes := []rune(plain)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// StripMarkdown removes the markdown syntax that would leak into plain-text snippets.
func StripMarkdown(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>*-+ ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}
	out := b.String()
	out = markdownInline.Replace(out)
	return strings.Join(strings.Fields(out), " ")
}

var markdownInline = strings.NewReplacer("**", "", "__", "", "`", "", "*", "", "_", " ", "[", "", "](", " (")
