package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_TranslationCount(t *testing.T) {
	a := &Article{Title: "Rice joins Arsenal", Content: "Done deal."}
	assert.Equal(t, 1, a.TranslationCount(), "base fields count for the default locale")

	a.Translations = map[Locale]Translation{
		LocaleES: {Title: "Rice ficha por el Arsenal", Content: "Hecho."},
		LocaleFR: {Title: "Rice rejoint Arsenal"},
	}
	assert.Equal(t, 2, a.TranslationCount(), "title-only translations are not counted")

	empty := &Article{}
	assert.Equal(t, 0, empty.TranslationCount())
}

func TestArticle_MissingLocales(t *testing.T) {
	a := &Article{
		Title:   "t",
		Content: "c",
		Translations: map[Locale]Translation{
			LocaleES: {Title: "t", Content: "c"},
			LocaleDE: {Content: "c"},
		},
	}
	assert.Equal(t, []Locale{LocaleFR, LocaleDE, LocaleIT}, a.MissingLocales())
}

func TestArticle_LocalizedFallsBackPerField(t *testing.T) {
	a := &Article{
		Title:           "Base title",
		Content:         "Base content",
		Slug:            "base-title",
		MetaDescription: "Base meta",
		Translations: map[Locale]Translation{
			LocaleIT: {Title: "Titolo"},
		},
	}

	it := a.Localized(LocaleIT)
	assert.Equal(t, "Titolo", it.Title)
	assert.Equal(t, "Base content", it.Content)
	assert.Equal(t, "base-title", it.Slug)
	assert.Equal(t, "Base meta", it.MetaDescription)

	assert.Equal(t, "Base title", a.Localized(LocaleDE).Title)
}

func TestParseTransferStatus(t *testing.T) {
	tests := map[string]TransferStatus{
		"confirmed": TransferConfirmed,
		" Official": TransferConfirmed,
		"COMPLETE":  TransferCompleted,
		"on_loan":   TransferLoan,
		"rumor":     TransferRumor,
		"whatever":  TransferRumor,
		"":          TransferRumor,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseTransferStatus(in), "input %q", in)
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Arsenal have completed the deal.", Excerpt("## Arsenal have **completed** the deal.", 100))

	long := "Arsenal have completed the signing of the England midfielder after weeks of talks"
	got := Excerpt(long, 40)
	require.True(t, len([]rune(got)) <= 41)
	assert.Equal(t, "Arsenal have completed the signing of…", got)
}

func TestNewTransfer(t *testing.T) {
	published := time.Date(2024, 8, 30, 12, 0, 0, 0, time.UTC)
	a := &Article{
		ID:             "a1",
		Title:          "Rice joins Arsenal",
		Content:        "The **midfielder** has signed.",
		Slug:           "rice-joins-arsenal",
		League:         "premier-league",
		TransferStatus: "official",
		PublishedAt:    &published,
		UpdatedAt:      published.Add(time.Hour),
		Translations: map[Locale]Translation{
			LocaleES: {Title: "Rice ficha por el Arsenal", Content: "El centrocampista ha firmado.", Slug: "rice-ficha-por-el-arsenal"},
		},
	}

	tr := NewTransfer(a, LocaleES)
	assert.Equal(t, "a1", tr.ID)
	assert.Equal(t, "Rice ficha por el Arsenal", tr.Title)
	assert.Equal(t, "rice-ficha-por-el-arsenal", tr.Slug)
	assert.Equal(t, "El centrocampista ha firmado.", tr.Excerpt)
	assert.Equal(t, TransferConfirmed, tr.Status)
	assert.Equal(t, published, tr.PublishedAt)

	a.PublishedAt = nil
	a.Slug = ""
	en := NewTransfer(a, LocaleEN)
	assert.Equal(t, "rice-joins-arsenal", en.Slug, "missing slug is derived from the title")
	assert.Equal(t, a.UpdatedAt, en.PublishedAt)
}
